package pipeline

import (
	"context"

	"github.com/mejor-tasa/tasas/banks"
	"github.com/mejor-tasa/tasas/types"
)

type (
	bankIDDelegate    func() banks.ID
	sourceURLDelegate func() string
	parseDelegate     func(context.Context) (*types.BankParseResult, error)
)

type mockParser struct {
	bankIDFn    bankIDDelegate
	sourceURLFn sourceURLDelegate
	parseFn     parseDelegate
}

func (m *mockParser) BankID() banks.ID {
	if m.bankIDFn != nil {
		return m.bankIDFn()
	}

	return ""
}

func (m *mockParser) SourceURL() string {
	if m.sourceURLFn != nil {
		return m.sourceURLFn()
	}

	return ""
}

func (m *mockParser) Parse(ctx context.Context) (*types.BankParseResult, error) {
	if m.parseFn != nil {
		return m.parseFn(ctx)
	}

	return nil, nil
}
