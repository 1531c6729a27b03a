package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"platformapi/internal/ping"
)

// Prometheus metrics
var (
	pingRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platformapi_ping_runs_total",
			Help: "Total ping runs by result",
		},
		[]string{"result"},
	)

	pingRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "platformapi_ping_run_duration_seconds",
			Help:    "Wall-clock duration of ping runs",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	playRecapCounters = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "platformapi_play_recap",
			Help: "Per-host counters from the last PLAY RECAP block",
		},
		[]string{"host", "counter"},
	)

	pingReturnCode = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "platformapi_ping_last_returncode",
			Help: "Exit code of the last completed ping run",
		},
	)
)

func init() {
	prometheus.MustRegister(pingRunsTotal)
	prometheus.MustRegister(pingRunDuration)
	prometheus.MustRegister(playRecapCounters)
	prometheus.MustRegister(pingReturnCode)
}

// observeRun updates the metrics from one completed ping invocation
func observeRun(outcome ping.Outcome, duration time.Duration) {
	pingRunsTotal.WithLabelValues(strconv.FormatBool(outcome.Success)).Inc()
	pingRunDuration.Observe(duration.Seconds())

	if outcome.ReturnCode != nil {
		pingReturnCode.Set(float64(*outcome.ReturnCode))
	}

	if len(outcome.PlaySummary) > 0 {
		playRecapCounters.Reset()
		for host, counters := range outcome.PlaySummary {
			for name, value := range counters {
				playRecapCounters.WithLabelValues(host, name).Set(float64(value))
			}
		}
	}
}
