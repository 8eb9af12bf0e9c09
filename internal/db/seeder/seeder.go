package seeder

import (
	"context"
	"fmt"
	"time"

	"questionboard/internal/app/question"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	content string
	votes   int64
}

var demoQuestions = []fixture{
	{content: "Apple", votes: 3},
	{content: "Banana", votes: 1},
	{content: "Application", votes: 5},
	{content: "Cranberry", votes: 0},
	{content: "How do I reset my password?", votes: 2},
	{content: "Where is the deployment guide?", votes: 4},
	{content: "Can we get dark mode?", votes: 7},
}

type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		logger: logger,
	}
}

// ReseedDemo replaces every question on board with the demo fixtures in one transaction.
func (s *Seeder) ReseedDemo(ctx context.Context, board string) (int, error) {
	if err := question.ValidateBoard(board); err != nil {
		return 0, err
	}

	s.logger.Info("Reseeding demo board...", zap.String("board", board))

	now := time.Now().UTC()
	questions := make([]question.Question, len(demoQuestions))
	for i, f := range demoQuestions {
		questions[i] = question.Question{
			BoardSlug: board,
			Content:   f.content,
			Votes:     f.votes,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}
	}

	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("board_slug = ?", board).Delete(&question.Question{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return tx.Create(&questions).Error
	})
	if err != nil {
		return 0, fmt.Errorf("reseed board %q: %w", board, err)
	}

	s.logger.Info("Seeded demo board",
		zap.String("board", board),
		zap.Int64("deleted", deleted),
		zap.Int("count", len(questions)),
	)
	return len(questions), nil
}
