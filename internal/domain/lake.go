package domain

import (
	"math"
	"time"
)

// Canyon Lake (Comal County, TX) reference data. Elevations are feet above
// NGVD 1929, matching USGS parameter 62614 at the dam gauge.
const (
	DefaultSiteID          = "08167700"
	ElevationParameterCode = "62614"

	ConservationPoolFt = 909.0
	FloodPoolFt        = 943.0

	// ConservationCapacityAcreFt is the volume at conservation pool.
	ConservationCapacityAcreFt = 378781

	// emptyElevationFt anchors the percent-full interpolation. The lake has
	// never been anywhere near it; it only makes the linear scale start at a
	// plausible zero instead of sea level.
	emptyElevationFt = 860.0
)

// Lake status categories, ordered from wettest to driest.
const (
	LakeStatusFlood     = "flood"
	LakeStatusFull      = "full"
	LakeStatusExcellent = "excellent"
	LakeStatusGood      = "good"
	LakeStatusLow       = "low"
)

// LakeStatus is the dashboard's current-conditions payload.
type LakeStatus struct {
	Status                string    `json:"status"`
	Timestamp             time.Time `json:"timestamp"`
	Elevation             float64   `json:"elevation"`
	PercentFull           float64   `json:"percentage_full"`
	StatusCategory        string    `json:"status_category"`
	ConservationPool      float64   `json:"conservation_pool"`
	FloodPool             float64   `json:"flood_pool"`
	FeetBelowConservation float64   `json:"feet_below_conservation"`
}

// PercentFull linearly interpolates elevation between the assumed-empty
// anchor and conservation pool, clamped to [0, 100] and rounded to one
// decimal place. Elevations above conservation pool (flood storage) still
// report 100: percent full describes the conservation pool only.
func PercentFull(elevation float64) float64 {
	switch {
	case elevation >= ConservationPoolFt:
		return 100.0
	case elevation <= emptyElevationFt:
		return 0.0
	}
	pct := (elevation - emptyElevationFt) / (ConservationPoolFt - emptyElevationFt) * 100
	return math.Round(pct*10) / 10
}

// DeriveLakeStatus builds the current-conditions payload for an observed
// elevation. now is an explicit input for deterministic tests.
func DeriveLakeStatus(elevation float64, now time.Time) LakeStatus {
	pct := PercentFull(elevation)

	var category string
	switch {
	case elevation >= FloodPoolFt:
		category = LakeStatusFlood
	case elevation >= ConservationPoolFt:
		category = LakeStatusFull
	case pct >= 90:
		category = LakeStatusExcellent
	case pct >= 75:
		category = LakeStatusGood
	default:
		category = LakeStatusLow
	}

	return LakeStatus{
		Status:                "success",
		Timestamp:             now,
		Elevation:             elevation,
		PercentFull:           pct,
		StatusCategory:        category,
		ConservationPool:      ConservationPoolFt,
		FloodPool:             FloodPoolFt,
		FeetBelowConservation: math.Round((ConservationPoolFt-elevation)*100) / 100,
	}
}
