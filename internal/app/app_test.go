package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"questionboard/internal/app/board"
	"questionboard/internal/app/question"
	"questionboard/internal/config"
	"questionboard/internal/testutil"
	"questionboard/internal/utils"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:                "test",
		ServerPort:         "0",
		DBDriver:           config.DriverSQLite,
		DBPath:             filepath.Join(t.TempDir(), "board.db"),
		SearchStrategy:     question.StrategyFuzzy,
		SearchThreshold:    0.4,
		SearchDefaultLimit: 20,
		SearchMaxLimit:     100,
		VoteMaxAmount:      100,
		VoteMultipliers:    map[string]int{"testing": 20},
		RateLimitWrites:    100,
		RateLimitWindow:    time.Minute,
		DemoBoard:          "demo",
	}
}

func bootstrap(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	application, err := Bootstrap(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		_ = application.Close()
	})
	return application
}

func do(t *testing.T, application *Application, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.Serve(application.Router.Engine, testutil.MakeRequest(method, path, body, nil))
}

func TestApplication_QuestionFlow(t *testing.T) {
	application := bootstrap(t, testConfig(t))

	w := do(t, application, http.MethodPost, "/api/general/questions", map[string]string{"content": "Apple"})
	testutil.AssertStatus(t, w, http.StatusCreated)
	var created question.CreateQuestionResponse
	testutil.AssertJSON(t, w, &created)
	assert.Equal(t, "success", created.Status)

	for _, content := range []string{"Banana", "Application", "Cranberry"} {
		testutil.AssertStatus(t, do(t, application, http.MethodPost, "/api/general/questions", map[string]string{"content": content}), http.StatusCreated)
	}

	w = do(t, application, http.MethodPost, fmt.Sprintf("/api/general/questions/%d/vote", created.ID), nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	var voted question.VoteResponse
	testutil.AssertJSON(t, w, &voted)
	assert.Equal(t, int64(1), voted.Votes)

	w = do(t, application, http.MethodGet, "/api/general/questions?q=App", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	var found []question.Question
	testutil.AssertJSON(t, w, &found)
	require.Len(t, found, 2)
	assert.Equal(t, "Apple", found[0].Content)
	assert.Equal(t, "Application", found[1].Content)

	w = do(t, application, http.MethodGet, "/api/general/questions?q=App&strategy=storage", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &found)
	assert.Len(t, found, 2)

	w = do(t, application, http.MethodGet, "/api/other/questions/"+fmt.Sprint(created.ID), nil)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = do(t, application, http.MethodGet, "/api/boards/general", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	var summary board.Summary
	testutil.AssertJSON(t, w, &summary)
	assert.Equal(t, board.Summary{Slug: "general", QuestionCount: 4, TotalVotes: 1}, summary)
}

func TestApplication_OperationalEndpoints(t *testing.T) {
	application := bootstrap(t, testConfig(t))

	w := do(t, application, http.MethodGet, "/api/health", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	var status utils.HealthStatus
	testutil.AssertJSON(t, w, &status)
	assert.Equal(t, utils.StatusHealthy, status.Status)

	do(t, application, http.MethodGet, "/api/general/questions", nil)

	w = do(t, application, http.MethodGet, "/metrics", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	body := w.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",route="/api/:board/questions",status="200"} 1`)
	assert.Contains(t, body, "go_goroutines")

	w = do(t, application, http.MethodGet, "/swagger-doc.json", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), "/api/{board}/questions")

	w = do(t, application, http.MethodGet, "/api/general/questions", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestApplication_SeedDemo(t *testing.T) {
	cfg := testConfig(t)
	cfg.SeedDemo = true
	application := bootstrap(t, cfg)

	w := do(t, application, http.MethodGet, "/api/demo/questions", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	var all []question.Question
	testutil.AssertJSON(t, w, &all)
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Votes, all[i].Votes)
	}

	found, err := application.Questions.List(context.Background(), "demo", question.SearchParams{Query: "App"})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(found), 2)
	assert.ElementsMatch(t, []string{"Apple", "Application"}, []string{found[0].Content, found[1].Content})
}

func TestApplication_WriteRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimitWrites = 2
	application := bootstrap(t, cfg)

	for i := 0; i < 2; i++ {
		w := do(t, application, http.MethodPost, "/api/general/questions", map[string]string{"content": "q"})
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	w := do(t, application, http.MethodPost, "/api/general/questions", map[string]string{"content": "q"})
	testutil.AssertStatus(t, w, http.StatusTooManyRequests)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// reads are not limited
	testutil.AssertStatus(t, do(t, application, http.MethodGet, "/api/general/questions", nil), http.StatusOK)
}

func TestApplication_WebSocketFeed(t *testing.T) {
	application := bootstrap(t, testConfig(t))

	srv := httptest.NewServer(application.Router.Engine)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/general"
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return application.Hub.ClientCount("general") == 1 }, 2*time.Second, 10*time.Millisecond)

	w := do(t, application, http.MethodPost, "/api/general/questions", map[string]string{"content": "Live?"})
	testutil.AssertStatus(t, w, http.StatusCreated)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var e utils.Event
	require.NoError(t, conn.ReadJSON(&e))
	assert.Equal(t, question.EventQuestionCreated, e.Event)
	assert.Equal(t, "general", e.Board)
}

func TestApplication_CloseStopsWorkersBeforeStorage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	application, err := Bootstrap(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)

	srv := httptest.NewServer(application.Router.Engine)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/general"
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return application.Hub.ClientCount("general") == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, application.Close())

	// the hub's context is cancelled by Close alone
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, gorillaws.IsCloseError(err, gorillaws.CloseGoingAway), "unexpected error: %v", err)

	sqlDB, err := application.DB.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping())
}
