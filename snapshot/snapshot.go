package snapshot

import (
	"context"

	"github.com/mejor-tasa/tasas/types"
)

// Store is an abstraction over persisted pipeline outputs. Each save
// produces both a run-versioned snapshot and an overwritten "latest" one
type Store interface {
	// SaveDataset persists the aggregated offers of one run
	SaveDataset(context.Context, *types.OffersDataset) error

	// SaveRankings persists the derived rankings of one run
	SaveRankings(context.Context, *types.Rankings) error

	// LatestDataset loads the most recent offers snapshot. A missing or
	// unreadable snapshot degrades to an empty dataset, not an error
	LatestDataset(context.Context) (*types.OffersDataset, error)

	// LatestRankings loads the most recent rankings snapshot, degrading
	// to an empty rankings set when unavailable
	LatestRankings(context.Context) (*types.Rankings, error)
}
