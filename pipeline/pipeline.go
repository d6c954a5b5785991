package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mejor-tasa/tasas/parser"
	"github.com/mejor-tasa/tasas/ranking"
	"github.com/mejor-tasa/tasas/snapshot"
	"github.com/mejor-tasa/tasas/types"
)

// Report is the outcome of a single pipeline run
type Report struct {
	Dataset  *types.OffersDataset
	Rankings *types.Rankings
	Warnings []string
}

// Pipeline runs every bank parser, aggregates their offers, computes
// rankings and persists both snapshots. Parser failures never stop the
// run; a run over all-failing parsers still produces a valid empty
// dataset. Only schema validation and snapshot persistence are fatal
type Pipeline struct {
	store   snapshot.Store
	logger  *slog.Logger
	parsers []parser.Parser
}

// New creates a pipeline over the given parsers and snapshot store
func New(parsers []parser.Parser, store snapshot.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:   store,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		parsers: parsers,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run executes one full extraction-and-ranking pass
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	// Parsers share no mutable state and write to disjoint slots, so
	// they fan out freely. Aggregation order stays the registration
	// order regardless of completion order
	results := make([]*types.BankParseResult, len(p.parsers))

	group, groupCtx := errgroup.WithContext(ctx)

	for i, bankParser := range p.parsers {
		group.Go(func() error {
			result, err := bankParser.Parse(groupCtx)
			if err != nil {
				// Fatal per-bank failures degrade to a bank-scoped
				// warning and an empty offer set
				p.logger.Error(
					"bank parse failed",
					"bank", bankParser.BankID(),
					"err", err,
				)

				result = &types.BankParseResult{
					BankID:   bankParser.BankID(),
					Offers:   []types.Offer{},
					Warnings: []string{fmt.Sprintf("parse failed: %v", err)},
				}
			}

			results[i] = result

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	var (
		offers   = make([]types.Offer, 0, 32)
		warnings = make([]string, 0, 8)
	)

	for _, result := range results {
		offers = append(offers, result.Offers...)

		for _, warning := range result.Warnings {
			warnings = append(warnings, fmt.Sprintf("[%s] %s", result.BankID, warning))
		}

		p.logger.Info(
			"bank parsed",
			"bank", result.BankID,
			"offers", len(result.Offers),
			"warnings", len(result.Warnings),
			"raw_text_hash", result.RawTextHash,
		)
	}

	dataset := &types.OffersDataset{
		GeneratedAt: time.Now().UTC(),
		Offers:      offers,
	}

	// A shape violation here would corrupt every downstream consumer,
	// making it the one failure class that halts the run
	if err := dataset.Validate(); err != nil {
		return nil, fmt.Errorf("dataset validation failed: %w", err)
	}

	rankings := ranking.ComputeRankings(offers)

	if err := rankings.Validate(); err != nil {
		return nil, fmt.Errorf("rankings validation failed: %w", err)
	}

	if err := p.store.SaveDataset(ctx, dataset); err != nil {
		return nil, fmt.Errorf("unable to save offers snapshot: %w", err)
	}

	if err := p.store.SaveRankings(ctx, rankings); err != nil {
		return nil, fmt.Errorf("unable to save rankings snapshot: %w", err)
	}

	p.logger.Info(
		"pipeline run complete",
		"offers", len(offers),
		"warnings", len(warnings),
		"scenarios", len(rankings.Scenarios),
	)

	return &Report{
		Dataset:  dataset,
		Rankings: rankings,
		Warnings: warnings,
	}, nil
}
