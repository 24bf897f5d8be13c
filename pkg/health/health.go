package health

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Version is set at build time.
var Version = "dev"

// Pinger is anything that can report liveness of a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// DatabasePinger pings the pool behind a gorm handle.
func DatabasePinger(db *gorm.DB) Pinger {
	return PingFunc(func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
}

// Handler serves liveness and readiness probes.
type Handler struct {
	checks map[string]Pinger
	logger *slog.Logger
}

// NewHandler creates a health handler over named dependency checks.
func NewHandler(logger *slog.Logger, checks map[string]Pinger) *Handler {
	return &Handler{checks: checks, logger: logger}
}

// Response is the probe body.
type Response struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health is a liveness probe that always returns OK.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Status: "ok", Timestamp: time.Now().UTC(), Version: Version})
}

// Ready pings every dependency concurrently.
func (h *Handler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make(map[string]string, len(h.checks))
		g       errgroup.Group
	)
	for name, check := range h.checks {
		g.Go(func() error {
			status := "ok"
			if err := check.Ping(ctx); err != nil {
				status = "unhealthy"
				h.logger.Warn("readiness check failed", slog.String("check", name), slog.String("error", err.Error()))
			}
			mu.Lock()
			results[name] = status
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	status, code := "ready", http.StatusOK
	for _, v := range results {
		if v != "ok" {
			status, code = "not_ready", http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(code, Response{Status: status, Timestamp: time.Now().UTC(), Version: Version, Checks: results})
}
