package narrative

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Generation defaults.
const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.8
	DefaultTimeout     = 60 * time.Second
)

// Result is the outcome of a generation. Exactly one of Content and Error is set.
type Result struct {
	Success bool   `json:"success"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Config tunes a Generator. Zero fields take the defaults above.
type Config struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Generator asks each provider in order until one produces text.
type Generator struct {
	providers []Provider
	cfg       Config
	logger    *zap.Logger
}

// NewGenerator creates a Generator over providers.
//
// Precondition: logger must be non-nil.
func NewGenerator(providers []Provider, cfg Config, logger *zap.Logger) *Generator {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Generator{providers: providers, cfg: cfg, logger: logger}
}

// Generate builds the prompt for req and returns the first provider's text.
// Provider failures are reported in the Result rather than as a Go error.
//
// Postcondition: Result.Success is true iff some provider returned text.
func (g *Generator) Generate(ctx context.Context, req Request) Result {
	if len(g.providers) == 0 {
		return Result{Error: "no narrative provider configured"}
	}
	user := BuildPrompt(req)
	opts := Options{MaxTokens: g.cfg.MaxTokens, Temperature: g.cfg.Temperature}

	var errs []error
	for _, p := range g.providers {
		start := time.Now()
		callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
		text, err := p.Complete(callCtx, SystemPrompt, user, opts)
		cancel()
		if err == nil && strings.TrimSpace(text) == "" {
			err = errors.New(p.Name() + " returned empty text")
		}
		if err != nil {
			g.logger.Warn("narrative provider failed",
				zap.String("provider", p.Name()),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err),
			)
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		g.logger.Debug("narrative generated",
			zap.String("provider", p.Name()),
			zap.String("type", req.Type),
			zap.Int("chars", len(text)),
			zap.Duration("elapsed", time.Since(start)),
		)
		return Result{Success: true, Content: text}
	}
	return Result{Error: errors.Join(errs...).Error()}
}
