// Command genhits generates a synthetic hit log fixture by replaying a mix
// of human and bot User-Agents through the real classifier and store. The
// output is a valid persisted hit log document, useful for seeding a local
// dashboard or the stats API tests.
//
// Usage:
//
//	go run ./cmd/genhits -out data/hitlog.json -count 250
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/canyon-lake-dashboard/internal/domain"
	"github.com/couchcryptid/canyon-lake-dashboard/internal/hitlog"
	"github.com/couchcryptid/canyon-lake-dashboard/internal/observability"
)

// visitor is one synthetic traffic source cycled through while generating.
type visitor struct {
	ip        string
	userAgent string
	route     string
}

var visitors = []visitor{
	{"203.0.113.10", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36", "/"},
	{"203.0.113.11", "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15", "/chart"},
	{"203.0.113.12", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148", "/"},
	{"198.51.100.20", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", "/"},
	{"198.51.100.21", "Mozilla/5.0 (compatible; bingbot/2.0; +http://www.bing.com/bingbot.htm)", "/"},
	{"198.51.100.22", "facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)", "/chart"},
	{"198.51.100.23", "Mozilla/5.0 (compatible; AhrefsBot/7.0; +http://ahrefs.com/robot/)", "/"},
	{"198.51.100.24", "Mozilla/5.0 (compatible; UptimeRobot/2.0; http://www.uptimerobot.com/)", "/"},
	{"198.51.100.25", "Mozilla/5.0 AppleWebKit/537.36 (compatible; GPTBot/1.0; +https://openai.com/gptbot)", "/chart"},
	{"198.51.100.26", "curl/8.5.0", "/"},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the hit log document")
	count := flag.Int("count", 250, "number of page views to generate")
	startStr := flag.String("start", "2024-04-26T00:00:00Z", "timestamp of the first view (RFC 3339)")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	start, err := time.Parse(time.RFC3339, *startStr)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}

	// Fixed fake clock for reproducible fixtures; each view lands seven
	// minutes after the last.
	clock := clockwork.NewFakeClockAt(start)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	storage := hitlog.NewFileStorage(*out)
	store := hitlog.NewStore(storage, domain.NewClassifier(), nil, logger, observability.NewMetricsForTesting())
	store.SetClock(clock)

	for i := 0; i < *count; i++ {
		v := visitors[i%len(visitors)]
		store.Record(v.route, v.ip, v.userAgent)
		clock.Advance(7 * time.Minute)
	}

	final := store.Snapshot()
	log.Printf("wrote hit log fixture: %s", *out)
	log.Printf("total: %d views, %d unique IPs, %d retained recent hits",
		final.Total, len(final.UniqueIPs), len(final.RecentHits))

	printCategoryBreakdown(final)
	return nil
}

func printCategoryBreakdown(hl domain.HitLog) {
	counts := make(map[string]int)
	human := 0
	for _, rec := range hl.RecentHits {
		if rec.IsBot {
			counts[rec.Category]++
		} else {
			human++
		}
	}

	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	log.Printf("retained human hits: %d", human)
	for _, c := range categories {
		log.Printf("retained bot hits [%s]: %d", c, counts[c])
	}
}
