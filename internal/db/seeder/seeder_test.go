package seeder

import (
	"context"
	"testing"

	"questionboard/internal/app/question"
	"questionboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeeder_ReseedDemo(t *testing.T) {
	db := testutil.SetupTestDB(t, &question.Question{})
	repo := question.NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &question.Question{BoardSlug: "demo", Content: "stale"}))
	require.NoError(t, repo.Create(ctx, &question.Question{BoardSlug: "general", Content: "keep me"}))

	s := NewSeeder(db, zap.NewNop())

	n, err := s.ReseedDemo(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, len(demoQuestions), n)

	// running twice leaves exactly one copy of the fixtures
	_, err = s.ReseedDemo(ctx, "demo")
	require.NoError(t, err)

	got, err := repo.ListByBoard(ctx, "demo")
	require.NoError(t, err)
	require.Len(t, got, len(demoQuestions))
	assert.Equal(t, "Can we get dark mode?", got[0].Content, "highest votes first")
	for _, q := range got {
		assert.NotEqual(t, "stale", q.Content)
	}

	other, err := repo.ListByBoard(ctx, "general")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestSeeder_ReseedDemoRejectsInvalidBoard(t *testing.T) {
	db := testutil.SetupTestDB(t, &question.Question{})

	_, err := NewSeeder(db, zap.NewNop()).ReseedDemo(context.Background(), "health")
	assert.ErrorIs(t, err, question.ErrInvalidBoard)
}
