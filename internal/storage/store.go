package storage

import (
	"context"

	"proant/internal/model"
)

// Store defines persistence operations for generated component specs.
type Store interface {
	Init(ctx context.Context) error
	SaveSpec(ctx context.Context, spec model.SpecRecord) error
	GetSpec(ctx context.Context, id string) (model.SpecRecord, bool, error)
	// ListSpecs returns summaries newest first; limit <= 0 returns all.
	ListSpecs(ctx context.Context, limit int) ([]model.SpecSummary, error)
	DeleteSpec(ctx context.Context, id string) error
}
