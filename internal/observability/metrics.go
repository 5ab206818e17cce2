package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	VisitsRecorded *prometheus.CounterVec // labels: kind={human,bot}
	BotVisits      *prometheus.CounterVec // labels: category

	// Hit log persistence metrics.
	HitLogLoadErrors prometheus.Counter
	HitLogSaveErrors prometheus.Counter

	// Visit-event publishing metrics.
	VisitEventsPublished prometheus.Counter
	VisitEventsDropped   prometheus.Counter
	PublishErrors        prometheus.Counter

	// USGS upstream metrics.
	USGSRequests        *prometheus.CounterVec   // labels: endpoint={current,history}, outcome={success,error,empty}
	USGSCache           *prometheus.CounterVec   // labels: result={hit,miss,expired}
	USGSRequestDuration *prometheus.HistogramVec // labels: endpoint

	// Last observed lake state, for alerting without scraping the API.
	LakeElevationFt prometheus.Gauge
	LakePercentFull prometheus.Gauge
}

// NewMetrics creates and registers all dashboard metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		VisitsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lake_dashboard",
			Name:      "visits_recorded_total",
			Help:      "Tracked page views by visitor kind.",
		}, []string{"kind"}),
		BotVisits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lake_dashboard",
			Name:      "bot_visits_total",
			Help:      "Bot page views by signature category.",
		}, []string{"category"}),
		HitLogLoadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lake_dashboard",
			Name:      "hitlog_load_errors_total",
			Help:      "Unreadable or corrupt hit log documents replaced with an empty log.",
		}),
		HitLogSaveErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lake_dashboard",
			Name:      "hitlog_save_errors_total",
			Help:      "Failed hit log writes (visits silently not persisted).",
		}),
		VisitEventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lake_dashboard",
			Name:      "visit_events_published_total",
			Help:      "Visit events delivered to the Kafka topic.",
		}),
		VisitEventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lake_dashboard",
			Name:      "visit_events_dropped_total",
			Help:      "Visit events dropped because the publish buffer was full.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lake_dashboard",
			Name:      "publish_errors_total",
			Help:      "Failed Kafka publish batches (events in the batch are lost).",
		}),
		USGSRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lake_dashboard",
			Name:      "usgs_requests_total",
			Help:      "USGS water services requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		USGSCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lake_dashboard",
			Name:      "usgs_cache_total",
			Help:      "USGS response cache lookups by result.",
		}, []string{"result"}),
		USGSRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lake_dashboard",
			Name:      "usgs_request_duration_seconds",
			Help:      "USGS water services request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		LakeElevationFt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lake_dashboard",
			Name:      "lake_elevation_feet",
			Help:      "Last observed lake surface elevation in feet above NGVD 1929.",
		}),
		LakePercentFull: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lake_dashboard",
			Name:      "lake_percent_full",
			Help:      "Last computed conservation-pool percent full.",
		}),
	}

	prometheus.MustRegister(
		m.VisitsRecorded,
		m.BotVisits,
		m.HitLogLoadErrors,
		m.HitLogSaveErrors,
		m.VisitEventsPublished,
		m.VisitEventsDropped,
		m.PublishErrors,
		m.USGSRequests,
		m.USGSCache,
		m.USGSRequestDuration,
		m.LakeElevationFt,
		m.LakePercentFull,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		VisitsRecorded:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "lake_dashboard", Name: "visits_recorded_total"}, []string{"kind"}),
		BotVisits:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "lake_dashboard", Name: "bot_visits_total"}, []string{"category"}),
		HitLogLoadErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "lake_dashboard", Name: "hitlog_load_errors_total"}),
		HitLogSaveErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "lake_dashboard", Name: "hitlog_save_errors_total"}),
		VisitEventsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "lake_dashboard", Name: "visit_events_published_total"}),
		VisitEventsDropped:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "lake_dashboard", Name: "visit_events_dropped_total"}),
		PublishErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "lake_dashboard", Name: "publish_errors_total"}),
		USGSRequests:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "lake_dashboard", Name: "usgs_requests_total"}, []string{"endpoint", "outcome"}),
		USGSCache:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "lake_dashboard", Name: "usgs_cache_total"}, []string{"result"}),
		USGSRequestDuration:  prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "lake_dashboard", Name: "usgs_request_duration_seconds"}, []string{"endpoint"}),
		LakeElevationFt:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "lake_dashboard", Name: "lake_elevation_feet"}),
		LakePercentFull:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "lake_dashboard", Name: "lake_percent_full"}),
	}
}
