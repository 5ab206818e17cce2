package domain

import "time"

// RecentHitsCap bounds the recent_hits ring. Older entries are evicted
// first; the retained slice is always the chronological suffix.
const RecentHitsCap = 100

// HitRecord is one classified page view, immutable once created.
// Timestamp is kept as RFC 3339 text rather than time.Time so that a single
// mangled record in a persisted log degrades to a skipped record during
// aggregation instead of failing the whole document decode.
type HitRecord struct {
	Timestamp      string `json:"timestamp"`
	Route          string `json:"route"`
	IP             string `json:"ip"`
	UserAgent      string `json:"user_agent"`
	IsBot          bool   `json:"is_bot"`
	Category       string `json:"category,omitempty"`
	MatchedPattern string `json:"matched_pattern,omitempty"`
}

// Time parses the record's timestamp. The zero time and an error mean the
// record is malformed and should be skipped.
func (r HitRecord) Time() (time.Time, error) {
	return time.Parse(time.RFC3339, r.Timestamp)
}

// HitLog is the aggregate visit state persisted between process runs.
//
// Older persisted documents predate UniqueIPs and RecentHits; Normalize
// upgrades those in one place after load, so the rest of the code can rely
// on every field being present.
type HitLog struct {
	Total      int64            `json:"total"`
	Routes     map[string]int64 `json:"routes"`
	FirstHit   *time.Time       `json:"first_hit,omitempty"`
	LastHit    *time.Time       `json:"last_hit,omitempty"`
	UniqueIPs  []string         `json:"unique_ips"`
	RecentHits []HitRecord      `json:"recent_hits"`
}

// NewHitLog returns an empty, normalized log.
func NewHitLog() HitLog {
	return HitLog{
		Routes:     make(map[string]int64),
		UniqueIPs:  []string{},
		RecentHits: []HitRecord{},
	}
}

// Normalize upgrades a freshly decoded log in place: fields absent from
// older persisted documents become empty rather than nil.
func (l *HitLog) Normalize() {
	if l.Routes == nil {
		l.Routes = make(map[string]int64)
	}
	if l.UniqueIPs == nil {
		l.UniqueIPs = []string{}
	}
	if l.RecentHits == nil {
		l.RecentHits = []HitRecord{}
	}
	if len(l.RecentHits) > RecentHitsCap {
		l.RecentHits = l.RecentHits[len(l.RecentHits)-RecentHitsCap:]
	}
}

// Apply folds one hit into the log: the total and per-route counters,
// first/last hit timestamps, the unique IP list, and the bounded recent-hits
// ring. hitTime must be the parsed time of rec.Timestamp.
func (l *HitLog) Apply(rec HitRecord, hitTime time.Time) {
	l.Total++

	if l.Routes == nil {
		l.Routes = make(map[string]int64)
	}
	l.Routes[rec.Route]++

	if l.FirstHit == nil {
		first := hitTime
		l.FirstHit = &first
	}
	last := hitTime
	l.LastHit = &last

	// Append-only membership list. The linear scan is an accepted tradeoff:
	// the log lives for one deployment of a small public dashboard, and the
	// list is what gets persisted, so no side index to keep in sync.
	if !containsString(l.UniqueIPs, rec.IP) {
		l.UniqueIPs = append(l.UniqueIPs, rec.IP)
	}

	l.RecentHits = append(l.RecentHits, rec)
	if len(l.RecentHits) > RecentHitsCap {
		l.RecentHits = l.RecentHits[len(l.RecentHits)-RecentHitsCap:]
	}
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing internal maps and slices to mutation.
func (l HitLog) Clone() HitLog {
	out := l
	out.Routes = make(map[string]int64, len(l.Routes))
	for k, v := range l.Routes {
		out.Routes[k] = v
	}
	out.UniqueIPs = append([]string{}, l.UniqueIPs...)
	out.RecentHits = append([]HitRecord{}, l.RecentHits...)
	if l.FirstHit != nil {
		first := *l.FirstHit
		out.FirstHit = &first
	}
	if l.LastHit != nil {
		last := *l.LastHit
		out.LastHit = &last
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
