package parser

import (
	"context"

	"github.com/mejor-tasa/tasas/fetch"
)

type fetchDelegate func(context.Context, string) (*fetch.Result, error)

type mockFetcher struct {
	fetchFn fetchDelegate
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) (*fetch.Result, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, url)
	}

	return nil, nil
}
