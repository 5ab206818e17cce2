package domain

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func hitAt(age time.Duration, ip string, isBot bool, category string) HitRecord {
	rec := HitRecord{
		Timestamp: testNow.Add(-age).Format(time.RFC3339),
		Route:     "/",
		IP:        ip,
		IsBot:     isBot,
		Category:  category,
	}
	if isBot {
		rec.MatchedPattern = "bot"
	}
	return rec
}

func TestComputeStats_WindowedUniqueIPs(t *testing.T) {
	log := NewHitLog()
	log.RecentHits = []HitRecord{
		hitAt(time.Hour, "10.0.0.1", false, ""),                          // human, inside 24h
		hitAt(2*time.Hour, "10.0.0.1", false, ""),                        // same human again
		hitAt(3*time.Hour, "10.0.0.2", true, CategorySearchEngine),      // bot, inside 24h
		hitAt(36*time.Hour, "10.0.0.3", false, ""),                      // human, inside 7d only
		hitAt(36*time.Hour, "10.0.0.4", true, CategoryMonitoring),       // bot, inside 7d only
		hitAt(10*24*time.Hour, "10.0.0.5", true, CategorySearchEngine),  // bot, outside both windows
	}

	stats := ComputeStats(log, testNow, discardLogger())

	day := stats.Windows["24h"]
	assert.Equal(t, 1, day.UniqueHumanIPs)
	assert.Equal(t, 1, day.UniqueBotIPs)
	assert.Equal(t, map[string]int{CategorySearchEngine: 1}, day.BotCategories)

	week := stats.Windows["7d"]
	assert.Equal(t, 2, week.UniqueHumanIPs)
	assert.Equal(t, 2, week.UniqueBotIPs)
	assert.Equal(t, map[string]int{CategorySearchEngine: 1, CategoryMonitoring: 1}, week.BotCategories)

	all := stats.Windows["all"]
	assert.Equal(t, 2, all.UniqueHumanIPs)
	assert.Equal(t, 3, all.UniqueBotIPs)
	assert.Equal(t, map[string]int{CategorySearchEngine: 2, CategoryMonitoring: 1}, all.BotCategories)

	assert.Equal(t, 3, stats.HumanHits)
	assert.Equal(t, 3, stats.BotHits)
}

func TestComputeStats_WindowsWidenMonotonically(t *testing.T) {
	log := NewHitLog()
	for i, age := range []time.Duration{time.Hour, 30 * time.Hour, 3 * 24 * time.Hour, 9 * 24 * time.Hour} {
		ip := string(rune('a' + i))
		log.RecentHits = append(log.RecentHits,
			hitAt(age, "h-"+ip, false, ""),
			hitAt(age, "b-"+ip, true, CategoryOtherBot),
		)
	}

	stats := ComputeStats(log, testNow, discardLogger())

	day, week, all := stats.Windows["24h"], stats.Windows["7d"], stats.Windows["all"]
	assert.LessOrEqual(t, day.UniqueHumanIPs, week.UniqueHumanIPs)
	assert.LessOrEqual(t, week.UniqueHumanIPs, all.UniqueHumanIPs)
	assert.LessOrEqual(t, day.UniqueBotIPs, week.UniqueBotIPs)
	assert.LessOrEqual(t, week.UniqueBotIPs, all.UniqueBotIPs)
}

func TestComputeStats_MalformedRecordsSkipped(t *testing.T) {
	log := NewHitLog()
	log.RecentHits = []HitRecord{
		hitAt(time.Hour, "10.0.0.1", false, ""),
		{Timestamp: "not-a-timestamp", Route: "/", IP: "10.0.0.2"},
		{Timestamp: "", Route: "/", IP: "10.0.0.3"},
		hitAt(time.Hour, "10.0.0.4", true, CategoryAILLM),
	}

	stats := ComputeStats(log, testNow, discardLogger())

	assert.Equal(t, 1, stats.HumanHits)
	assert.Equal(t, 1, stats.BotHits)
	assert.Equal(t, 1, stats.Windows["all"].UniqueHumanIPs)
	assert.Equal(t, 1, stats.Windows["all"].UniqueBotIPs)
	// The malformed records are still visible in the raw passthrough.
	assert.Len(t, stats.RecentHits, 4)
}

func TestComputeStats_LegacyFieldsPassThrough(t *testing.T) {
	first := testNow.Add(-48 * time.Hour)
	last := testNow.Add(-time.Hour)

	log := NewHitLog()
	log.Total = 1234
	log.Routes = map[string]int64{"/": 1000, "/chart": 234}
	log.FirstHit = &first
	log.LastHit = &last
	log.UniqueIPs = []string{"10.0.0.1", "10.0.0.2"}
	log.RecentHits = []HitRecord{hitAt(time.Hour, "10.0.0.2", false, "")}

	stats := ComputeStats(log, testNow, discardLogger())

	assert.Equal(t, log.Total, stats.Total)
	assert.Equal(t, log.Routes, stats.Routes)
	assert.Equal(t, log.FirstHit, stats.FirstHit)
	assert.Equal(t, log.LastHit, stats.LastHit)
	assert.Equal(t, log.UniqueIPs, stats.UniqueIPs)
	assert.Equal(t, log.RecentHits, stats.RecentHits)
}

func TestComputeStats_EmptyLog(t *testing.T) {
	stats := ComputeStats(NewHitLog(), testNow, discardLogger())

	assert.Zero(t, stats.HumanHits)
	assert.Zero(t, stats.BotHits)
	require.Len(t, stats.Windows, 3)
	for name, w := range stats.Windows {
		assert.Zero(t, w.UniqueHumanIPs, name)
		assert.Zero(t, w.UniqueBotIPs, name)
		assert.Nil(t, w.BotCategories, name)
	}
}

func TestComputeStats_Deterministic(t *testing.T) {
	log := NewHitLog()
	log.RecentHits = []HitRecord{
		hitAt(time.Hour, "10.0.0.1", false, ""),
		hitAt(2*time.Hour, "10.0.0.2", true, CategorySecurity),
	}

	first := ComputeStats(log, testNow, discardLogger())
	second := ComputeStats(log, testNow, discardLogger())

	assert.Equal(t, first, second)
}
