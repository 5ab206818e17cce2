// Command hitlogctl inspects a persisted hit log document: it verifies the
// invariants the store maintains and prints a visitor statistics summary.
// Useful when eyeballing a production data file after an incident or before
// migrating one between hosts.
//
// Usage:
//
//	go run ./cmd/hitlogctl -path data/hitlog.json
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/couchcryptid/canyon-lake-dashboard/internal/domain"
	"github.com/couchcryptid/canyon-lake-dashboard/internal/hitlog"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	path := flag.String("path", "", "path to the hit log document")
	nowStr := flag.String("now", "", "reference time for windowed stats (RFC 3339, default now)")
	flag.Parse()

	if *path == "" {
		flag.Usage()
		os.Exit(1)
	}

	now := time.Now().UTC()
	if *nowStr != "" {
		parsed, err := time.Parse(time.RFC3339, *nowStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: invalid -now: %v\n", err)
			os.Exit(1)
		}
		now = parsed
	}

	if code := run(*path, now); code != 0 {
		os.Exit(code)
	}
}

func run(path string, now time.Time) int {
	hl, err := hitlog.NewFileStorage(path).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load hit log: %v\n", err)
		return 1
	}

	fmt.Println("=== Hit Log Inspection ===")
	fmt.Println()

	phases := []*phase{
		validateCounters(hl),
		validateRing(hl),
		validateUniqueIPs(hl),
		validateRecords(hl),
	}

	allPassed := true
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS  %s\n", p.name)
			continue
		}
		allPassed = false
		fmt.Printf("FAIL  %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("      - %s\n", e)
		}
	}

	fmt.Println()
	printSummary(hl, now)

	if !allPassed {
		return 1
	}
	return 0
}

// validateCounters checks the total against the per-route counters.
func validateCounters(hl domain.HitLog) *phase {
	p := &phase{name: "counters"}

	var routeSum int64
	for _, n := range hl.Routes {
		routeSum += n
	}
	if routeSum != hl.Total {
		p.errorf("total %d != sum of route counts %d", hl.Total, routeSum)
	}
	if hl.Total > 0 && hl.FirstHit == nil {
		p.errorf("total %d but first_hit absent", hl.Total)
	}
	if hl.FirstHit != nil && hl.LastHit != nil && hl.LastHit.Before(*hl.FirstHit) {
		p.errorf("last_hit %s before first_hit %s", hl.LastHit, hl.FirstHit)
	}
	return p
}

// validateRing checks the recent-hits bound and chronological order.
func validateRing(hl domain.HitLog) *phase {
	p := &phase{name: "recent hits ring"}

	if len(hl.RecentHits) > domain.RecentHitsCap {
		p.errorf("ring holds %d records, cap is %d", len(hl.RecentHits), domain.RecentHitsCap)
	}

	var prev time.Time
	for i, rec := range hl.RecentHits {
		at, err := rec.Time()
		if err != nil {
			continue // reported by the records phase
		}
		if i > 0 && at.Before(prev) {
			p.errorf("record %d (%s) out of chronological order", i, rec.Timestamp)
		}
		prev = at
	}
	return p
}

func validateUniqueIPs(hl domain.HitLog) *phase {
	p := &phase{name: "unique IPs"}

	seen := make(map[string]struct{}, len(hl.UniqueIPs))
	for _, ip := range hl.UniqueIPs {
		if _, dup := seen[ip]; dup {
			p.errorf("duplicate entry %q", ip)
		}
		seen[ip] = struct{}{}
	}
	for _, rec := range hl.RecentHits {
		if _, ok := seen[rec.IP]; !ok {
			p.errorf("recent hit IP %q missing from unique_ips", rec.IP)
		}
	}
	return p
}

// validateRecords checks individual hit records for parseable timestamps
// and consistent classification fields.
func validateRecords(hl domain.HitLog) *phase {
	p := &phase{name: "hit records"}

	for i, rec := range hl.RecentHits {
		if _, err := rec.Time(); err != nil {
			p.errorf("record %d: unparseable timestamp %q", i, rec.Timestamp)
		}
		if rec.IsBot && (rec.Category == "" || rec.MatchedPattern == "") {
			p.errorf("record %d: bot record missing category or matched pattern", i)
		}
		if !rec.IsBot && (rec.Category != "" || rec.MatchedPattern != "") {
			p.errorf("record %d: human record carries bot fields", i)
		}
	}
	return p
}

func printSummary(hl domain.HitLog, now time.Time) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stats := domain.ComputeStats(hl, now, logger)

	fmt.Printf("total views:    %d\n", stats.Total)
	fmt.Printf("unique IPs:     %d\n", len(stats.UniqueIPs))
	fmt.Printf("retained hits:  %d (%d human, %d bot)\n",
		len(stats.RecentHits), stats.HumanHits, stats.BotHits)
	if stats.FirstHit != nil && stats.LastHit != nil {
		fmt.Printf("span:           %s to %s\n",
			stats.FirstHit.Format(time.RFC3339), stats.LastHit.Format(time.RFC3339))
	}

	for _, name := range []string{"24h", "7d", "all"} {
		w := stats.Windows[name]
		fmt.Printf("window %-4s     %d human IPs, %d bot IPs\n", name, w.UniqueHumanIPs, w.UniqueBotIPs)
		categories := make([]string, 0, len(w.BotCategories))
		for c := range w.BotCategories {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			fmt.Printf("                %s: %d\n", c, w.BotCategories[c])
		}
	}
}
