package worker

import (
	"context"

	"github.com/osse101/zombie-showcase-server/internal/item"
	"github.com/osse101/zombie-showcase-server/internal/rates"
)

// ItemRefreshJob replaces the cached item catalog with the upstream snapshot.
type ItemRefreshJob struct {
	Items item.Service
}

func (j *ItemRefreshJob) Name() string { return "item-refresh" }

func (j *ItemRefreshJob) Process(ctx context.Context) error {
	// Refresh swallows upstream failures by design; a failed run keeps the
	// previous snapshot and only logs.
	j.Items.Refresh(ctx)
	return nil
}

// RateRefreshJob replaces the cached exchange-rate table with the upstream
// snapshot.
type RateRefreshJob struct {
	Rates rates.Service
}

func (j *RateRefreshJob) Name() string { return "rate-refresh" }

func (j *RateRefreshJob) Process(ctx context.Context) error {
	j.Rates.Refresh(ctx)
	return nil
}
