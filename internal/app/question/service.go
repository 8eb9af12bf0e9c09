package question

import (
	"context"
	"fmt"
	"time"

	"questionboard/internal/ranking"
	"questionboard/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, board, content string) (*Question, error)
	List(ctx context.Context, board string, params SearchParams) ([]*Question, error)
	Get(ctx context.Context, board string, id uint64) (*Question, error)
	Vote(ctx context.Context, board string, id uint64, req VoteRequest) (*VoteResponse, error)
}

type ServiceConfig struct {
	DefaultStrategy string
	Threshold       float64
	DefaultLimit    int
	MaxLimit        int
	Votes           VotePolicy
}

func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		DefaultStrategy: StrategyFuzzy,
		Threshold:       ranking.DefaultThreshold,
		DefaultLimit:    20,
		MaxLimit:        100,
		Votes:           DefaultVotePolicy(),
	}
}

type service struct {
	repo      Repository
	cfg       ServiceConfig
	searchers map[string]Searcher
	eventBus  *utils.EventBus
	metrics   *Metrics
	logger    *zap.SugaredLogger
}

func NewService(
	repo Repository,
	cfg ServiceConfig,
	eventBus *utils.EventBus,
	metrics *Metrics,
	logger *zap.Logger,
) Service {
	searchers := make(map[string]Searcher, 2)
	for _, s := range []Searcher{
		NewStorageSearcher(repo),
		NewFuzzySearcher(repo, cfg.Threshold),
	} {
		searchers[s.Name()] = s
	}

	return &service{
		repo:      repo,
		cfg:       cfg,
		searchers: searchers,
		eventBus:  eventBus,
		metrics:   metrics,
		logger:    logger.Sugar(),
	}
}

func (s *service) Create(ctx context.Context, board, content string) (*Question, error) {
	if err := ValidateBoard(board); err != nil {
		return nil, err
	}
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}

	q := &Question{
		BoardSlug: board,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}

	s.logger.Infow("Question created", "board", board, "question_id", q.ID)
	s.publish(EventQuestionCreated, board, q)
	return q, nil
}

// List returns the whole board when the query is empty, otherwise the result
// of exactly one search strategy.
func (s *service) List(ctx context.Context, board string, params SearchParams) ([]*Question, error) {
	if err := ValidateBoard(board); err != nil {
		return nil, err
	}
	if params.Query == "" {
		return s.repo.ListByBoard(ctx, board)
	}

	strategy := params.Strategy
	if strategy == "" {
		strategy = s.cfg.DefaultStrategy
	}
	searcher, ok := s.searchers[strategy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}

	limit := s.clampLimit(params.Limit)
	start := time.Now()
	results, err := searcher.Search(ctx, board, params.Query, limit)
	if err != nil {
		return nil, err
	}
	took := time.Since(start)
	s.metrics.observeSearch(strategy, took, len(results))

	s.logger.Debugw("Questions searched",
		"board", board,
		"strategy", strategy,
		"limit", limit,
		"results", len(results),
		"duration", took.String(),
	)
	return results, nil
}

func (s *service) Get(ctx context.Context, board string, id uint64) (*Question, error) {
	if err := ValidateBoard(board); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, board, id)
}

func (s *service) Vote(ctx context.Context, board string, id uint64, req VoteRequest) (*VoteResponse, error) {
	if err := ValidateBoard(board); err != nil {
		return nil, err
	}
	delta, err := s.cfg.Votes.Delta(board, req)
	if err != nil {
		return nil, err
	}

	votes, err := s.repo.AdjustVotes(ctx, board, id, delta)
	if err != nil {
		return nil, err
	}
	s.metrics.incVotes(delta)

	resp := &VoteResponse{ID: id, Votes: votes}
	s.logger.Infow("Question voted", "board", board, "question_id", id, "delta", delta, "votes", votes)
	s.publish(EventQuestionVoted, board, resp)
	return resp, nil
}

func (s *service) clampLimit(limit int) int {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if s.cfg.MaxLimit > 0 && limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}
	return limit
}

func (s *service) publish(event, board string, data interface{}) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(event, board, data)
}
