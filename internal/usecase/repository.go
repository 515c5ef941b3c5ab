package usecase

import (
	"context"

	"har-capture/internal/domain"
)

type CaptureRepository interface {
	SaveCapture(ctx context.Context, rec domain.CaptureRecord) error
	GetCapture(ctx context.Context, id string) (domain.CaptureRecord, bool, error)
	ListCaptures(ctx context.Context, f CaptureFilter) ([]domain.CaptureRecord, int, error)
	DeleteCapture(ctx context.Context, id string) error
	ClearAllCaptures(ctx context.Context) error
}

type CaptureFilter struct {
	Q      string // substring match against the target URL
	Limit  int
	Offset int
}
