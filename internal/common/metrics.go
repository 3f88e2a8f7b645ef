package common

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	prometheus.MustRegister(incomingRequestsCounter)
	prometheus.MustRegister(ScoreCounter)
	prometheus.MustRegister(ScoreDuration)
	prometheus.MustRegister(PwnedLookupsCounter)
	prometheus.MustRegister(SupersededCounter)
}

var incomingRequestsCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"method", "path"},
)

// IncHttpRequests records an incoming request against its route template
func IncHttpRequests(method, path string) {
	incomingRequestsCounter.WithLabelValues(method, path).Inc()
}

// ScoreCounter counts scoring calls by outcome (`ok` or `error`)
var ScoreCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pwmeter_score_total",
		Help: "Total number of password scoring calls",
	},
	[]string{"result"},
)

var ScoreDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "pwmeter_score_duration_seconds",
		Help:    "Duration of password scoring calls including matcher lookups",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	},
)

// PwnedLookupsCounter counts breach range lookups by where the answer
// came from (`cache` or `remote`)
var PwnedLookupsCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pwmeter_pwned_lookups_total",
		Help: "Total number of breach range lookups",
	},
	[]string{"source"},
)

var SupersededCounter = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "pwmeter_pipeline_superseded_total",
		Help: "Total number of scoring calls discarded because a newer password arrived",
	},
)
