package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/ShivamNishad0/tasktracker/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Reminder sweep metrics

	SweepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tasktracker",
		Name:      "reminder_sweep_duration_seconds",
		Help:      "Time taken for one reminder sweep.",
		Buckets:   prometheus.DefBuckets,
	})

	SweepCandidates = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tasktracker",
		Name:      "reminder_sweep_candidates",
		Help:      "Due tasks claimed per sweep.",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
	})

	RemindersSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tasktracker",
		Name:      "reminders_sent_total",
		Help:      "Reminder notifications dispatched successfully.",
	})

	RemindersFailedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tasktracker",
		Name:      "reminders_failed_total",
		Help:      "Reminder dispatches that failed, by reason.",
	}, []string{"reason"})

	SweeperStartTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tasktracker",
		Name:      "sweeper_start_time_seconds",
		Help:      "Unix timestamp when the sweeper process started.",
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tasktracker",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tasktracker",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		SweepDuration,
		SweepCandidates,
		RemindersSentTotal,
		RemindersFailedTotal,
		SweeperStartTime,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves /metrics plus the liveness and readiness probes.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if result.Status != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(result)
}
