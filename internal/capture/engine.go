// Package capture performs single-shot outbound HTTP exchanges and records
// each one, redirects included, as an ordered sequence of HAR 1.2 entries.
// The contract is "always produce a HAR log describing what happened":
// transport failures, byte-budget violations and timeouts all settle into the
// affected entry's _error field instead of escaping the capture call.
package capture

import (
	"context"

	"github.com/rs/zerolog"

	"har-capture/internal/domain"
	obs "har-capture/internal/infrastructure/observability"
)

// CreatorName is recorded in every produced log's creator block.
const CreatorName = "har-capture"

// Engine drives capture chains. The zero value is usable; Logger, Metrics
// and OnEntry are optional. Engines are stateless across calls: independent
// captures share nothing.
type Engine struct {
	Logger  *zerolog.Logger
	Metrics *obs.Metrics

	// OnEntry, when set, receives each completed hop's entry in hop order,
	// before the capture call returns.
	OnEntry func(domain.Entry)

	// InsecureTLS skips server certificate verification on outbound hops.
	InsecureTLS bool
}

// NewEngine wires an engine with the service's logger and metrics.
func NewEngine(logger *zerolog.Logger, metrics *obs.Metrics) *Engine {
	return &Engine{Logger: logger, Metrics: metrics}
}

// CaptureHAR performs the exchange chain described by cfg and wraps the
// resulting entries in a HAR log envelope. The error return covers invalid
// configuration only; every runtime failure is recorded inside the relevant
// entry per the capture contract. The log always has at least one entry.
func (e *Engine) CaptureHAR(ctx context.Context, cfg RequestConfig, har *HarConfig) (*domain.HAR, error) {
	cfg, reqURL, err := cfg.normalized()
	if err != nil {
		return nil, err
	}
	if e.Metrics != nil {
		e.Metrics.CapturesTotal.Inc()
		e.Metrics.ActiveCaptures.Inc()
		defer e.Metrics.ActiveCaptures.Dec()
	}
	entries := e.chain(ctx, cfg, reqURL, har.settings(), 1, dnsCache{}, make([]domain.Entry, 0, 1))
	return &domain.HAR{Log: domain.Log{
		Version: "1.2",
		Creator: domain.Creator{Name: CreatorName, Version: obs.Version},
		Entries: entries,
	}}, nil
}

// CaptureURL captures a bare URL with default settings.
func (e *Engine) CaptureURL(ctx context.Context, rawURL string) (*domain.HAR, error) {
	return e.CaptureHAR(ctx, RequestConfig{URL: rawURL}, nil)
}

// observe reports one completed hop to the logger, metrics and the caller's
// entry hook.
func (e *Engine) observe(entry domain.Entry, depth int) {
	if e.Metrics != nil {
		e.Metrics.HopsTotal.Inc()
		e.Metrics.ResponseBytesTotal.Add(float64(entry.Response.Content.Size))
		if entry.Response.Error != nil {
			e.Metrics.CaptureErrorsTotal.WithLabelValues(entry.Response.Error.Code).Inc()
		}
	}
	if e.Logger != nil {
		e.Logger.Debug().
			Int("hop", depth).
			Str("method", entry.Request.Method).
			Str("url", entry.Request.URL).
			Int("status", entry.Response.Status).
			Float64("timeMs", entry.Time).
			Str("redirect", entry.Response.RedirectURL).
			Msg("hop captured")
		if entry.Response.Error != nil {
			e.Logger.Warn().
				Str("code", entry.Response.Error.Code).
				Str("url", entry.Request.URL).
				Msg(entry.Response.Error.Message)
		}
	}
	if e.OnEntry != nil {
		e.OnEntry(entry)
	}
}
