package board

import (
	"context"
	"fmt"

	"questionboard/internal/app/question"

	"gorm.io/gorm"
)

type Repository interface {
	ListSummaries(ctx context.Context) ([]Summary, error)
	GetSummary(ctx context.Context, slug string) (*Summary, error)
	RecentSlugs(ctx context.Context, limit int) ([]string, error)
	Slugs(ctx context.Context) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) summaries(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&question.Question{}).
		Select("board_slug AS slug, COUNT(*) AS question_count, COALESCE(SUM(votes), 0) AS total_votes").
		Group("board_slug")
}

func (r *repository) ListSummaries(ctx context.Context) ([]Summary, error) {
	boards := make([]Summary, 0)
	if err := r.summaries(ctx).Order("board_slug ASC").Scan(&boards).Error; err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return boards, nil
}

func (r *repository) GetSummary(ctx context.Context, slug string) (*Summary, error) {
	var boards []Summary
	if err := r.summaries(ctx).Where("board_slug = ?", slug).Scan(&boards).Error; err != nil {
		return nil, fmt.Errorf("get board %q: %w", slug, err)
	}
	if len(boards) == 0 {
		return nil, ErrNotFound
	}
	return &boards[0], nil
}

// RecentSlugs orders boards by their newest question.
func (r *repository) RecentSlugs(ctx context.Context, limit int) ([]string, error) {
	slugs := make([]string, 0, limit)
	err := r.db.WithContext(ctx).
		Model(&question.Question{}).
		Group("board_slug").
		Order("MAX(created_at) DESC").
		Order("board_slug ASC").
		Limit(limit).
		Pluck("board_slug", &slugs).Error
	if err != nil {
		return nil, fmt.Errorf("list recent boards: %w", err)
	}
	return slugs, nil
}

func (r *repository) Slugs(ctx context.Context) ([]string, error) {
	slugs := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&question.Question{}).
		Distinct("board_slug").
		Order("board_slug ASC").
		Pluck("board_slug", &slugs).Error
	if err != nil {
		return nil, fmt.Errorf("list board slugs: %w", err)
	}
	return slugs, nil
}
