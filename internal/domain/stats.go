package domain

import (
	"log/slog"
	"time"
)

// Window names, in widening order. The zero span means unbounded, i.e.
// everything still held in the recent-hits ring.
var statsWindows = []struct {
	name string
	span time.Duration
}{
	{"24h", 24 * time.Hour},
	{"7d", 7 * 24 * time.Hour},
	{"all", 0},
}

// WindowStats holds unique-visitor counts for one trailing window,
// split into human and bot traffic.
type WindowStats struct {
	UniqueHumanIPs int `json:"unique_human_ips"`
	UniqueBotIPs   int `json:"unique_bot_ips"`

	// BotCategories maps category to bot hit count within the window.
	// Categories with no hits are absent, not zero.
	BotCategories map[string]int `json:"bot_categories,omitempty"`
}

// Stats is the analytics view served to the dashboard. The first block
// re-exposes the raw hit log fields unchanged; existing consumers read
// those, and the windowed fields were added alongside rather than instead.
type Stats struct {
	Total      int64            `json:"total"`
	Routes     map[string]int64 `json:"routes"`
	FirstHit   *time.Time       `json:"first_hit,omitempty"`
	LastHit    *time.Time       `json:"last_hit,omitempty"`
	UniqueIPs  []string         `json:"unique_ips"`
	RecentHits []HitRecord      `json:"recent_hits"`

	// Aggregates over the retained recent-hits ring only.
	HumanHits int                    `json:"human_hits"`
	BotHits   int                    `json:"bot_hits"`
	Windows   map[string]WindowStats `json:"windows"`
}

// ComputeStats derives windowed visitor statistics from a hit log snapshot.
//
// All windowed figures are computed over the retained recent-hits ring (at
// most the last RecentHitsCap views), so "all" means all-time within that
// ring, not since first_hit. Records whose timestamps fail to parse are
// skipped with a warning; one bad record never aborts the computation.
//
// now is an explicit input, never sampled internally, so output is fully
// deterministic for a given snapshot.
func ComputeStats(log HitLog, now time.Time, logger *slog.Logger) Stats {
	stats := Stats{
		Total:      log.Total,
		Routes:     log.Routes,
		FirstHit:   log.FirstHit,
		LastHit:    log.LastHit,
		UniqueIPs:  log.UniqueIPs,
		RecentHits: log.RecentHits,
		Windows:    make(map[string]WindowStats, len(statsWindows)),
	}

	type parsedHit struct {
		rec HitRecord
		at  time.Time
	}
	hits := make([]parsedHit, 0, len(log.RecentHits))
	for _, rec := range log.RecentHits {
		at, err := rec.Time()
		if err != nil {
			logger.Warn("skipping malformed hit record",
				"timestamp", rec.Timestamp,
				"route", rec.Route,
				"error", err,
			)
			continue
		}
		if rec.IsBot {
			stats.BotHits++
		} else {
			stats.HumanHits++
		}
		hits = append(hits, parsedHit{rec: rec, at: at})
	}

	for _, w := range statsWindows {
		humanIPs := make(map[string]struct{})
		botIPs := make(map[string]struct{})
		categories := make(map[string]int)

		for _, h := range hits {
			if w.span > 0 {
				if h.at.Before(now.Add(-w.span)) || h.at.After(now) {
					continue
				}
			}
			if h.rec.IsBot {
				botIPs[h.rec.IP] = struct{}{}
				categories[h.rec.Category]++
			} else {
				humanIPs[h.rec.IP] = struct{}{}
			}
		}

		ws := WindowStats{
			UniqueHumanIPs: len(humanIPs),
			UniqueBotIPs:   len(botIPs),
		}
		if len(categories) > 0 {
			ws.BotCategories = categories
		}
		stats.Windows[w.name] = ws
	}

	return stats
}
