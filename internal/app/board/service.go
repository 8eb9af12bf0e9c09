package board

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"
)

type Service interface {
	List(ctx context.Context) ([]Summary, error)
	Get(ctx context.Context, slug string) (*Summary, error)
	Recent(ctx context.Context, limit int) ([]string, error)
	Suggest(ctx context.Context, query string, limit int) ([]string, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]Summary, error) {
	return s.repo.ListSummaries(ctx)
}

func (s *service) Get(ctx context.Context, slug string) (*Summary, error) {
	return s.repo.GetSummary(ctx, slug)
}

func (s *service) Recent(ctx context.Context, limit int) ([]string, error) {
	return s.repo.RecentSlugs(ctx, clamp(limit, DefaultRecentLimit))
}

// Suggest ranks existing slugs as subsequence matches of query, best first.
func (s *service) Suggest(ctx context.Context, query string, limit int) ([]string, error) {
	limit = clamp(limit, DefaultSuggestLimit)

	slugs, err := s.repo.Slugs(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		if len(slugs) > limit {
			slugs = slugs[:limit]
		}
		return slugs, nil
	}

	targets := make([]string, len(slugs))
	for i, slug := range slugs {
		targets[i] = strings.ToLower(slug)
	}

	matches := fuzzy.Find(query, targets)
	out := make([]string, 0, min(len(matches), limit))
	for _, match := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, slugs[match.Index])
	}
	return out, nil
}

func clamp(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return min(limit, MaxListLimit)
}
