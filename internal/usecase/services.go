package usecase

import (
	"context"
	"time"

	"har-capture/internal/capture"
	"har-capture/internal/domain"
	"har-capture/pkg/shared/id"
)

// CaptureService runs capture chains and keeps their results retrievable
// through the repository.
type CaptureService struct {
	engine *capture.Engine
	repo   CaptureRepository
}

func NewCaptureService(engine *capture.Engine, repo CaptureRepository) *CaptureService {
	return &CaptureService{engine: engine, repo: repo}
}

// Run executes one capture chain. runID names the record; empty mints a
// fresh id. onEntry, when non-nil, observes each hop's entry as it completes
// (live monitor wiring). The returned record embeds the full HAR document;
// the error covers invalid configuration only.
func (s *CaptureService) Run(ctx context.Context, runID string, cfg capture.RequestConfig, har *capture.HarConfig, onEntry func(domain.Entry)) (domain.CaptureRecord, error) {
	// Engines hold no mutable state, so a shallow copy carries the per-run
	// entry hook without racing concurrent captures.
	eng := *s.engine
	eng.OnEntry = onEntry

	if runID == "" {
		runID = id.New()
	}
	rec := domain.CaptureRecord{
		ID:        runID,
		URL:       cfg.URL,
		Method:    cfg.Method,
		StartedAt: time.Now().UTC(),
	}
	if rec.Method == "" {
		rec.Method = "GET"
	}
	log, err := eng.CaptureHAR(ctx, cfg, har)
	if err != nil {
		return domain.CaptureRecord{}, err
	}
	rec.FinishedAt = time.Now().UTC()
	rec.HAR = log
	rec.Entries = len(log.Log.Entries)
	if n := len(log.Log.Entries); n > 0 {
		if last := log.Log.Entries[n-1].Response.Error; last != nil {
			rec.ErrorCode = last.Code
		}
	}
	if s.repo != nil {
		_ = s.repo.SaveCapture(ctx, rec)
	}
	return rec, nil
}

func (s *CaptureService) Get(ctx context.Context, id string) (domain.CaptureRecord, bool, error) {
	return s.repo.GetCapture(ctx, id)
}

func (s *CaptureService) List(ctx context.Context, f CaptureFilter) ([]domain.CaptureRecord, int, error) {
	return s.repo.ListCaptures(ctx, f)
}

func (s *CaptureService) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteCapture(ctx, id)
}

func (s *CaptureService) ClearAll(ctx context.Context) error {
	return s.repo.ClearAllCaptures(ctx)
}
