package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

type operation struct {
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

func readPaths(t *testing.T) map[string]map[string]operation {
	t.Helper()
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var parsed struct {
		Paths map[string]map[string]operation `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	return parsed.Paths
}

// Tags and summaries mirror the @Tags/@Summary annotations on the handlers.
func TestSwaggerDoc_MatchesHandlerAnnotations(t *testing.T) {
	paths := readPaths(t)

	tests := []struct {
		path, method, tag, summary string
	}{
		{"/api/boards", "get", "Board", "Get all boards"},
		{"/api/boards/recent", "get", "Board", "Recently active boards"},
		{"/api/boards/suggest", "get", "Board", "Suggest board slugs"},
		{"/api/boards/{slug}", "get", "Board", "Get board by slug"},
		{"/api/health", "get", "Health", "Health check"},
		{"/api/{board}/questions", "get", "Question", "List or search questions"},
		{"/api/{board}/questions", "post", "Question", "Create question"},
		{"/api/{board}/questions/{id}", "get", "Question", "Get question"},
		{"/api/{board}/questions/{id}/vote", "post", "Question", "Vote on question"},
		{"/ws/{board}", "get", "Realtime", "Board event feed"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			op, ok := paths[tt.path][tt.method]
			require.True(t, ok, "missing operation")
			assert.Equal(t, []string{tt.tag}, op.Tags)
			assert.Equal(t, tt.summary, op.Summary)
		})
	}
}

func TestSwaggerDoc_QuestionSchema(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)
	assert.Contains(t, doc, `"board_slug": {"type": "string"}`)
}
