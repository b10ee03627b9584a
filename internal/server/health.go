package server

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// HealthLoop checks a dependency on an interval and reports each transition.
type HealthLoop struct {
	name     string
	interval time.Duration
	check    func(ctx context.Context) error
	report   func(healthy bool)
	logger   *zap.Logger

	stop chan struct{}
}

// NewHealthLoop creates a HealthLoop. report is called once with the first
// check result and again whenever the result changes.
//
// Precondition: interval > 0; check, report, and logger must be non-nil.
func NewHealthLoop(name string, interval time.Duration, check func(context.Context) error, report func(bool), logger *zap.Logger) *HealthLoop {
	return &HealthLoop{
		name:     name,
		interval: interval,
		check:    check,
		report:   report,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Start checks until Stop is called or ctx ends.
func (h *HealthLoop) Start(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var last *bool
	for {
		checkCtx, cancel := context.WithTimeout(ctx, h.interval)
		err := h.check(checkCtx)
		cancel()
		healthy := err == nil
		if last == nil || *last != healthy {
			if healthy {
				h.logger.Info("dependency healthy", zap.String("dependency", h.name))
			} else {
				h.logger.Warn("dependency unhealthy", zap.String("dependency", h.name), zap.Error(err))
			}
			h.report(healthy)
			last = &healthy
		}

		select {
		case <-ticker.C:
		case <-h.stop:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// Stop ends the loop. It is safe to call once.
func (h *HealthLoop) Stop(context.Context) error {
	close(h.stop)
	return nil
}
