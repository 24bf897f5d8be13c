package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coursehub",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "coursehub",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	dbQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "coursehub",
		Name:      "db_query_duration_seconds",
		Help:      "Database query latency by operation and table.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"operation", "table"})

	progressSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coursehub",
		Name:      "progress_saves_total",
		Help:      "Video progress writes by kind (save, complete).",
	}, []string{"kind"})

	aggregationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "coursehub",
		Name:      "course_progress_duration_seconds",
		Help:      "Time spent computing a course progress snapshot.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1},
	})

	accessDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coursehub",
		Name:      "access_decisions_total",
		Help:      "Lecture access gate outcomes.",
	}, []string{"outcome"})

	ratingRecomputes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coursehub",
		Name:      "rating_recomputes_total",
		Help:      "Course rating recomputations by trigger and result.",
	}, []string{"trigger", "result"})

	jobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coursehub",
		Name:      "job_runs_total",
		Help:      "Scheduled job executions by job and result.",
	}, []string{"job", "result"})
)

// Middleware records request count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// RecordDBQuery observes one database round trip.
func RecordDBQuery(operation, table string, elapsed time.Duration) {
	dbQueryDuration.WithLabelValues(operation, table).Observe(elapsed.Seconds())
}

// IncProgressSave counts a progress write.
func IncProgressSave(kind string) {
	progressSaves.WithLabelValues(kind).Inc()
}

// ObserveCourseProgress records aggregation latency.
func ObserveCourseProgress(elapsed time.Duration) {
	aggregationDuration.Observe(elapsed.Seconds())
}

// IncAccessDecision counts a gate outcome (allow, deny_login, deny_enroll).
func IncAccessDecision(outcome string) {
	accessDecisions.WithLabelValues(outcome).Inc()
}

// IncRatingRecompute counts a rating recomputation.
func IncRatingRecompute(trigger string, err error) {
	ratingRecomputes.WithLabelValues(trigger, result(err)).Inc()
}

// IncJobRun counts a scheduled job execution.
func IncJobRun(job string, err error) {
	jobRuns.WithLabelValues(job, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
