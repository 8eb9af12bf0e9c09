package question

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"questionboard/internal/testutil"
	"questionboard/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, guards ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newTestRepo(t)
	svc := NewService(repo, DefaultServiceConfig(), utils.NewEventBus(), nil, zap.NewNop())

	engine := gin.New()
	RegisterRoutes(engine.Group("/api"), NewHandler(svc, zap.NewNop()), guards...)
	return engine
}

func postQuestion(t *testing.T, engine *gin.Engine, board, content string) uint64 {
	t.Helper()
	w := testutil.Serve(engine, testutil.MakeRequest(http.MethodPost, "/api/"+board+"/questions",
		map[string]string{"content": content}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp CreateQuestionResponse
	testutil.AssertJSON(t, w, &resp)
	require.Equal(t, "success", resp.Status)
	require.NotZero(t, resp.ID)
	return resp.ID
}

func listQuestions(t *testing.T, engine *gin.Engine, path string) []Question {
	t.Helper()
	w := testutil.Serve(engine, testutil.MakeRequest(http.MethodGet, path, nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var got []Question
	testutil.AssertJSON(t, w, &got)
	return got
}

func vote(t *testing.T, engine *gin.Engine, board string, id uint64, body interface{}) (int, VoteResponse) {
	t.Helper()
	w := testutil.Serve(engine, testutil.MakeRequest(http.MethodPost,
		fmt.Sprintf("/api/%s/questions/%d/vote", board, id), body, nil))

	var resp VoteResponse
	if w.Code == http.StatusOK {
		testutil.AssertJSON(t, w, &resp)
	}
	return w.Code, resp
}

func TestHandler_AddAndGetQuestion(t *testing.T) {
	engine := newTestEngine(t)

	id := postQuestion(t, engine, "general", "Test Question")

	got := listQuestions(t, engine, "/api/general/questions")
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, "Test Question", got[0].Content)
	assert.Equal(t, int64(0), got[0].Votes)

	w := testutil.Serve(engine, testutil.MakeRequest(http.MethodGet, fmt.Sprintf("/api/general/questions/%d", id), nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var single Question
	testutil.AssertJSON(t, w, &single)
	assert.Equal(t, "general", single.BoardSlug)
}

func TestHandler_QuestionJSONFields(t *testing.T) {
	engine := newTestEngine(t)
	id := postQuestion(t, engine, "general", "Field names")

	w := testutil.Serve(engine, testutil.MakeRequest(http.MethodGet, fmt.Sprintf("/api/general/questions/%d", id), nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var raw map[string]interface{}
	testutil.AssertJSON(t, w, &raw)
	assert.Equal(t, "general", raw["board_slug"])
	assert.NotContains(t, raw, "board")
	for _, key := range []string{"id", "content", "votes", "created_at"} {
		assert.Contains(t, raw, key)
	}
}

func TestHandler_EmptyBoardIsEmptyArray(t *testing.T) {
	engine := newTestEngine(t)

	w := testutil.Serve(engine, testutil.MakeRequest(http.MethodGet, "/api/nobody/questions", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestHandler_CreateValidation(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name string
		path string
		body interface{}
	}{
		{name: "missing content", path: "/api/general/questions", body: map[string]string{}},
		{name: "blank content", path: "/api/general/questions", body: map[string]string{"content": "   "}},
		{name: "too long", path: "/api/general/questions", body: map[string]string{"content": strings.Repeat("x", MaxContentLength+1)}},
		{name: "no body", path: "/api/general/questions", body: nil},
		{name: "reserved board", path: "/api/ws/questions", body: map[string]string{"content": "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.Serve(engine, testutil.MakeRequest(http.MethodPost, tt.path, tt.body, nil))
			testutil.AssertStatus(t, w, http.StatusBadRequest)

			var resp ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			assert.NotEmpty(t, resp.Error)
		})
	}

	assert.Empty(t, listQuestions(t, engine, "/api/general/questions"))
}

func TestHandler_BoardSeparation(t *testing.T) {
	engine := newTestEngine(t)

	postQuestion(t, engine, "board1", "Q1")
	postQuestion(t, engine, "board2", "Q2")

	b1 := listQuestions(t, engine, "/api/board1/questions")
	require.Len(t, b1, 1)
	assert.Equal(t, "Q1", b1[0].Content)

	b2 := listQuestions(t, engine, "/api/board2/questions")
	require.Len(t, b2, 1)
	assert.Equal(t, "Q2", b2[0].Content)
}

func TestHandler_Voting(t *testing.T) {
	engine := newTestEngine(t)
	id := postQuestion(t, engine, "general", "Vote me")

	code, resp := vote(t, engine, "general", id, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, VoteResponse{ID: id, Votes: 1}, resp)

	code, resp = vote(t, engine, "general", id, map[string]interface{}{})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(2), resp.Votes)

	got := listQuestions(t, engine, "/api/general/questions")
	assert.Equal(t, int64(2), got[0].Votes)
}

func TestHandler_VotingUpAndDown(t *testing.T) {
	engine := newTestEngine(t)
	id := postQuestion(t, engine, "general", "Vote me")

	code, resp := vote(t, engine, "general", id, map[string]string{"direction": "up"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), resp.Votes)

	code, resp = vote(t, engine, "general", id, map[string]string{"direction": "down"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(0), resp.Votes)

	code, resp = vote(t, engine, "general", id, map[string]interface{}{"amount": 3})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(3), resp.Votes)
}

func TestHandler_WeightedBoardVoting(t *testing.T) {
	engine := newTestEngine(t)
	id := postQuestion(t, engine, "testing", "Weighted")

	code, resp := vote(t, engine, "testing", id, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(20), resp.Votes)

	code, resp = vote(t, engine, "testing", id, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(40), resp.Votes)
}

func TestHandler_VoteErrors(t *testing.T) {
	engine := newTestEngine(t)
	id := postQuestion(t, engine, "board1", "Mine")

	code, _ := vote(t, engine, "board1", 999999, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = vote(t, engine, "board2", id, nil)
	assert.Equal(t, http.StatusNotFound, code, "id from another board")

	code, _ = vote(t, engine, "board1", id, map[string]interface{}{"amount": -2})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = vote(t, engine, "board1", id, map[string]string{"direction": "left"})
	assert.Equal(t, http.StatusBadRequest, code)

	w := testutil.Serve(engine, testutil.MakeRequest(http.MethodPost, "/api/board1/questions/abc/vote", nil, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = testutil.Serve(engine, testutil.MakeRequest(http.MethodGet, "/api/board2/questions/"+fmt.Sprint(id), nil, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestHandler_Search(t *testing.T) {
	engine := newTestEngine(t)
	for _, text := range []string{"Apple", "Banana", "Application"} {
		postQuestion(t, engine, "general", text)
	}

	tests := []struct {
		query string
		want  int
	}{
		{query: "App", want: 2},
		{query: "Apple", want: 1},
		{query: "Banana", want: 1},
	}
	for _, tt := range tests {
		t.Run("storage "+tt.query, func(t *testing.T) {
			got := listQuestions(t, engine, "/api/general/questions?strategy=storage&q="+tt.query)
			assert.Len(t, got, tt.want)
		})
	}

	fuzzy := listQuestions(t, engine, "/api/general/questions?q=Apple")
	require.Len(t, fuzzy, 2)
	assert.Equal(t, "Apple", fuzzy[0].Content)
	assert.Equal(t, "Application", fuzzy[1].Content)

	limited := listQuestions(t, engine, "/api/general/questions?q=App&limit=1")
	assert.Len(t, limited, 1)

	for _, bad := range []string{"?q=App&limit=-1", "?q=App&limit=ten", "?q=App&strategy=regex"} {
		w := testutil.Serve(engine, testutil.MakeRequest(http.MethodGet, "/api/general/questions"+bad, nil, nil))
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	}
}

func TestHandler_WriteGuardsOnlyOnWrites(t *testing.T) {
	blocked := func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "slow down"})
	}
	engine := newTestEngine(t, blocked)

	w := testutil.Serve(engine, testutil.MakeRequest(http.MethodPost, "/api/general/questions",
		map[string]string{"content": "hi"}, nil))
	testutil.AssertStatus(t, w, http.StatusTooManyRequests)

	w = testutil.Serve(engine, testutil.MakeRequest(http.MethodPost, "/api/general/questions/1/vote", nil, nil))
	testutil.AssertStatus(t, w, http.StatusTooManyRequests)

	w = testutil.Serve(engine, testutil.MakeRequest(http.MethodGet, "/api/general/questions", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
}
