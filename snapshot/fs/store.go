package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mejor-tasa/tasas/types"
)

const (
	datasetLatestName  = "offers-latest.json"
	rankingsLatestName = "rankings-latest.json"

	dirPerm  = 0o755
	filePerm = 0o644
)

// Store persists pipeline outputs as flat JSON files in a single
// directory: a timestamp-versioned file per run plus an overwritten
// "latest" file per document
type Store struct {
	dir string
}

// NewStore creates a filesystem snapshot store rooted at dir
func NewStore(dir string) *Store {
	return &Store{
		dir: dir,
	}
}

func (s *Store) SaveDataset(_ context.Context, dataset *types.OffersDataset) error {
	versioned := fmt.Sprintf("offers-%s.json", fileTimestamp(dataset.GeneratedAt))

	return s.writeBoth(versioned, datasetLatestName, dataset)
}

func (s *Store) SaveRankings(_ context.Context, rankings *types.Rankings) error {
	versioned := fmt.Sprintf("rankings-%s.json", fileTimestamp(rankings.GeneratedAt))

	return s.writeBoth(versioned, rankingsLatestName, rankings)
}

// LatestDataset loads the latest offers snapshot. First runs and corrupt
// files degrade to an empty dataset so consumers can render a "no data"
// state instead of failing
func (s *Store) LatestDataset(_ context.Context) (*types.OffersDataset, error) {
	empty := &types.OffersDataset{
		GeneratedAt: time.Now().UTC(),
		Offers:      []types.Offer{},
	}

	content, err := os.ReadFile(filepath.Join(s.dir, datasetLatestName))
	if err != nil {
		return empty, nil
	}

	var dataset types.OffersDataset

	if err := json.Unmarshal(content, &dataset); err != nil {
		return empty, nil
	}

	if err := dataset.Validate(); err != nil {
		return empty, nil
	}

	if dataset.Offers == nil {
		dataset.Offers = []types.Offer{}
	}

	return &dataset, nil
}

// LatestRankings loads the latest rankings snapshot with the same
// degrade-to-empty behavior as LatestDataset
func (s *Store) LatestRankings(_ context.Context) (*types.Rankings, error) {
	empty := &types.Rankings{
		GeneratedAt: time.Now().UTC(),
		Scenarios:   make(map[types.ScenarioKey]types.ScenarioRanking),
	}

	content, err := os.ReadFile(filepath.Join(s.dir, rankingsLatestName))
	if err != nil {
		return empty, nil
	}

	var rankings types.Rankings

	if err := json.Unmarshal(content, &rankings); err != nil {
		return empty, nil
	}

	if err := rankings.Validate(); err != nil {
		return empty, nil
	}

	if rankings.Scenarios == nil {
		rankings.Scenarios = make(map[types.ScenarioKey]types.ScenarioRanking)
	}

	return &rankings, nil
}

func (s *Store) writeBoth(versionedName, latestName string, data any) error {
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return fmt.Errorf("unable to create snapshot dir: %w", err)
	}

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode snapshot: %w", err)
	}

	for _, name := range []string{versionedName, latestName} {
		path := filepath.Join(s.dir, name)

		if err := os.WriteFile(path, encoded, filePerm); err != nil {
			return fmt.Errorf("unable to write snapshot %s: %w", name, err)
		}
	}

	return nil
}

// fileTimestamp renders the run timestamp in a filename-safe form
func fileTimestamp(t time.Time) string {
	ts := t.UTC().Format(time.RFC3339)

	return strings.NewReplacer(":", "-", ".", "-").Replace(ts)
}
