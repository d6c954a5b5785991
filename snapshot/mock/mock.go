package mock

import (
	"context"

	"github.com/mejor-tasa/tasas/types"
)

type (
	SaveDatasetDelegate    func(context.Context, *types.OffersDataset) error
	SaveRankingsDelegate   func(context.Context, *types.Rankings) error
	LatestDatasetDelegate  func(context.Context) (*types.OffersDataset, error)
	LatestRankingsDelegate func(context.Context) (*types.Rankings, error)
)

type Store struct {
	SaveDatasetFn    SaveDatasetDelegate
	SaveRankingsFn   SaveRankingsDelegate
	LatestDatasetFn  LatestDatasetDelegate
	LatestRankingsFn LatestRankingsDelegate
}

func (m *Store) SaveDataset(ctx context.Context, dataset *types.OffersDataset) error {
	if m.SaveDatasetFn != nil {
		return m.SaveDatasetFn(ctx, dataset)
	}

	return nil
}

func (m *Store) SaveRankings(ctx context.Context, rankings *types.Rankings) error {
	if m.SaveRankingsFn != nil {
		return m.SaveRankingsFn(ctx, rankings)
	}

	return nil
}

func (m *Store) LatestDataset(ctx context.Context) (*types.OffersDataset, error) {
	if m.LatestDatasetFn != nil {
		return m.LatestDatasetFn(ctx)
	}

	return nil, nil
}

func (m *Store) LatestRankings(ctx context.Context) (*types.Rankings, error) {
	if m.LatestRankingsFn != nil {
		return m.LatestRankingsFn(ctx)
	}

	return nil, nil
}
