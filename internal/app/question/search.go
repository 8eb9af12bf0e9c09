package question

import (
	"context"

	"questionboard/internal/ranking"
)

const (
	StrategyStorage = "storage"
	StrategyFuzzy   = "fuzzy"
)

// Searcher finds the questions of one board matching a non-empty query.
type Searcher interface {
	Name() string
	Search(ctx context.Context, board, query string, limit int) ([]*Question, error)
}

type storageSearcher struct {
	repo Repository
}

// NewStorageSearcher delegates matching to the database as a substring filter.
func NewStorageSearcher(repo Repository) Searcher {
	return &storageSearcher{repo: repo}
}

func (s *storageSearcher) Name() string { return StrategyStorage }

func (s *storageSearcher) Search(ctx context.Context, board, query string, limit int) ([]*Question, error) {
	return s.repo.SearchByBoard(ctx, board, query, limit)
}

type fuzzySearcher struct {
	repo      Repository
	threshold float64
}

// NewFuzzySearcher ranks the full board listing in memory.
func NewFuzzySearcher(repo Repository, threshold float64) Searcher {
	return &fuzzySearcher{repo: repo, threshold: threshold}
}

func (s *fuzzySearcher) Name() string { return StrategyFuzzy }

func (s *fuzzySearcher) Search(ctx context.Context, board, query string, limit int) ([]*Question, error) {
	questions, err := s.repo.ListByBoard(ctx, board)
	if err != nil {
		return nil, err
	}
	return ranking.Rank(query, questions,
		ranking.WithThreshold(s.threshold),
		ranking.WithLimit(limit),
	), nil
}
