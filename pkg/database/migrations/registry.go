package migrations

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"
)

// Step is an idempotent schema statement run after AutoMigrate.
type Step struct {
	Name string
	Fn   func(ctx context.Context, db *gorm.DB) error
}

var (
	registryMu sync.RWMutex
	registry   []Step
)

// Register appends steps; they run in registration order.
func Register(steps ...Step) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = append(registry, steps...)
}

// SQL is a Step that executes a single statement.
func SQL(name, statement string) Step {
	return Step{Name: name, Fn: func(ctx context.Context, db *gorm.DB) error {
		return db.WithContext(ctx).Exec(statement).Error
	}}
}

// Registered returns a copy of the registered steps.
func Registered() []Step {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Step, len(registry))
	copy(out, registry)
	return out
}

// Run executes every registered step, stopping at the first failure.
func Run(ctx context.Context, db *gorm.DB, log *slog.Logger) error {
	for _, step := range Registered() {
		if err := step.Fn(ctx, db); err != nil {
			return fmt.Errorf("migration %s: %w", step.Name, err)
		}
		log.Debug("migration applied", slog.String("name", step.Name))
	}
	return nil
}
