package question

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const listOrder = "votes DESC, created_at DESC, id DESC"

type Repository interface {
	Create(ctx context.Context, q *Question) error
	ListByBoard(ctx context.Context, board string) ([]*Question, error)
	SearchByBoard(ctx context.Context, board, query string, limit int) ([]*Question, error)
	GetByID(ctx context.Context, board string, id uint64) (*Question, error)
	AdjustVotes(ctx context.Context, board string, id uint64, delta int64) (int64, error)
	DeleteByBoard(ctx context.Context, board string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, q *Question) error {
	if err := r.db.WithContext(ctx).Create(q).Error; err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

func (r *repository) ListByBoard(ctx context.Context, board string) ([]*Question, error) {
	questions := make([]*Question, 0)
	err := r.db.WithContext(ctx).
		Where("board_slug = ?", board).
		Order(listOrder).
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("list questions for board %q: %w", board, err)
	}
	return questions, nil
}

// SearchByBoard matches query as a literal, case-insensitive substring of the content.
func (r *repository) SearchByBoard(ctx context.Context, board, query string, limit int) ([]*Question, error) {
	questions := make([]*Question, 0)
	err := r.db.WithContext(ctx).
		Where("board_slug = ?", board).
		Where(`LOWER(content) LIKE LOWER(?) ESCAPE '\'`, "%"+escapeLike(query)+"%").
		Order(listOrder).
		Limit(limit).
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("search questions for board %q: %w", board, err)
	}
	return questions, nil
}

func (r *repository) GetByID(ctx context.Context, board string, id uint64) (*Question, error) {
	var q Question
	err := r.db.WithContext(ctx).
		Where("id = ? AND board_slug = ?", id, board).
		First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get question %d: %w", id, err)
	}
	return &q, nil
}

func (r *repository) AdjustVotes(ctx context.Context, board string, id uint64, delta int64) (int64, error) {
	var votes int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Question{}).
			Where("id = ? AND board_slug = ?", id, board).
			UpdateColumn("votes", gorm.Expr("votes + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&Question{}).
			Select("votes").
			Where("id = ?", id).
			Scan(&votes).Error
	})
	if errors.Is(err, ErrNotFound) {
		return 0, err
	}
	if err != nil {
		return 0, fmt.Errorf("adjust votes for question %d: %w", id, err)
	}
	return votes, nil
}

func (r *repository) DeleteByBoard(ctx context.Context, board string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("board_slug = ?", board).
		Delete(&Question{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete questions for board %q: %w", board, res.Error)
	}
	return res.RowsAffected, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
