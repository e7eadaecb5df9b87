package metrics

import "github.com/prometheus/client_golang/prometheus"

// Scan and feedback Prometheus metrics.
var (
	ScansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dealradar",
			Name:      "scans_total",
			Help:      "Scan trigger outcomes",
		},
		[]string{"status"}, // ok / busy / cooldown
	)

	ScanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "dealradar",
			Name:      "scan_duration_seconds",
			Help:      "Full scan pipeline duration in seconds",
			Buckets:   []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	AdsIngestedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dealradar",
			Name:      "ads_ingested_total",
			Help:      "Newly discovered ads accepted into the store",
		},
	)

	AdsStored = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "dealradar",
			Name:      "ads_stored",
			Help:      "Ads currently held in the store",
		},
	)

	ProviderErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dealradar",
			Name:      "provider_errors_total",
			Help:      "Failed provider calls, by category and strategy",
		},
		[]string{"category", "strategy"},
	)

	VotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dealradar",
			Name:      "votes_total",
			Help:      "Curator votes applied",
		},
		[]string{"label"},
	)
)

var registered bool

// Register registers the engine metrics. Must be called once from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(ScansTotal)
	prometheus.MustRegister(ScanDuration)
	prometheus.MustRegister(AdsIngestedTotal)
	prometheus.MustRegister(AdsStored)
	prometheus.MustRegister(ProviderErrorsTotal)
	prometheus.MustRegister(VotesTotal)
	registered = true
}
