// Package domain holds the dashboard's pure core: bot classification of
// visitor User-Agent strings, the persisted hit-log shape, windowed visitor
// statistics, time-bucket compression of gauge readings, and Canyon Lake
// reference math. Everything here is deterministic and free of I/O; time
// always arrives as an argument.
//
// # Bot classification
//
// Visitors are classified by scanning the User-Agent against ~200 known
// signatures grouped into seven categories (Search Engine, Social Media,
// Monitoring, SEO/Analytics, Security, AI/LLM, Other Bot). Scan order is
// the priority order: categories in declaration order, then rules within a
// category in declaration order, first match wins. That ordering is a
// deliberate contract: "applebot" appears under both Search Engine and
// Social Media and must always resolve to Search Engine. That is why the
// rules live in a slice of (category, rules) pairs and not a map.
//
// Matching is case-insensitive substring search, nothing more. A spoofed
// User-Agent sails straight through; the stats page is a curiosity, not a
// security control.
//
// # Hit log
//
// The hit log is a single JSON document: lifetime counters, an append-only
// unique IP list, and a 100-entry ring of the most recent classified views.
// Older deployments persisted documents without unique_ips/recent_hits;
// [HitLog.Normalize] upgrades those to empty once at load so presence
// checks don't spread through the code.
//
// Individual hit timestamps are stored as RFC 3339 text. Aggregation
// parses them back and skips records that fail, so one corrupted entry
// costs one record, not the whole log.
//
// # Windowed statistics
//
// [ComputeStats] counts distinct visitor IPs over trailing 24h and 7d
// windows plus "all", each split human/bot with a per-category bot
// breakdown. All three are computed over the retained ring only, so "all"
// means all-time within the last 100 views. That limitation is explicit;
// the lifetime figures are the counters next to it.
//
// # Time buckets
//
// [BucketSamples] compresses irregular gauge readings into fixed-width,
// UTC-calendar-aligned periods (12h by default: boundaries at 00:00 and
// 12:00). Empty periods are omitted and the trailing partial period is
// flushed.
//
// # Lake reference data
//
// Canyon Lake constants come from the USGS gauge at the dam (site 08167700,
// parameter 62614, elevation above NGVD 1929): conservation pool 909 ft,
// flood pool 943 ft, 378,781 acre-feet at conservation. Percent full is a
// linear interpolation from an assumed-empty 860 ft anchor; see
// [PercentFull].
package domain
