package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareCountsMatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/courses/:courseId", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("/courses/:courseId", "GET", "418"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses/abc", nil))

	after := testutil.ToFloat64(httpRequests.WithLabelValues("/courses/:courseId", "GET", "418"))
	if after-before != 1 {
		t.Fatalf("counter delta = %v", after-before)
	}
}

func TestIncRatingRecomputeLabelsResult(t *testing.T) {
	before := testutil.ToFloat64(ratingRecomputes.WithLabelValues("add", "error"))
	IncRatingRecompute("add", errors.New("db down"))
	if got := testutil.ToFloat64(ratingRecomputes.WithLabelValues("add", "error")) - before; got != 1 {
		t.Fatalf("delta = %v", got)
	}
}
