package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nexus_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nexus_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	reportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nexus_reports_generated_total",
		Help: "Count of generated report artifacts by product and result",
	}, []string{"product", "result"})

	schedulesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nexus_schedules_created_total",
		Help: "Count of created report schedules by frequency",
	}, []string{"frequency"})

	syncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nexus_lms_sync_runs_total",
		Help: "Count of LMS sync runs by type and status",
	}, []string{"type", "status"})

	generationsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nexus_report_generations_in_flight",
		Help: "Number of report generations currently running",
	})
)

// ObserveGeneration records one generate attempt.
func ObserveGeneration(product, result string) {
	reportsGenerated.WithLabelValues(product, result).Inc()
}

// ObserveScheduleCreated records one created schedule.
func ObserveScheduleCreated(frequency string) {
	schedulesCreated.WithLabelValues(frequency).Inc()
}

// ObserveSyncRun records one LMS sync run.
func ObserveSyncRun(syncType, status string) {
	syncRuns.WithLabelValues(syncType, status).Inc()
}

// GenerationStarted and GenerationFinished track the in-flight gauge.
func GenerationStarted()  { generationsInFlight.Inc() }
func GenerationFinished() { generationsInFlight.Dec() }

// Middleware records request count and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
