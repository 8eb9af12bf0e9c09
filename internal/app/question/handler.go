package question

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	ListQuestions(c *gin.Context)
	CreateQuestion(c *gin.Context)
	GetQuestion(c *gin.Context)
	VoteQuestion(c *gin.Context)
}

type handler struct {
	service Service
	logger  *zap.SugaredLogger
}

func NewHandler(service Service, logger *zap.Logger) Handler {
	return &handler{
		service: service,
		logger:  logger.Sugar(),
	}
}

// @Summary List or search questions
// @Description Without q the whole board is returned ordered by votes. With q the chosen search strategy is applied.
// @Tags Question
// @Produce json
// @Param board path string true "Board slug"
// @Param q query string false "Search query"
// @Param limit query int false "Maximum number of search results"
// @Param strategy query string false "Search strategy" Enums(fuzzy, storage)
// @Success 200 {array} Question
// @Failure 400 {object} ErrorResponse
// @Router /api/{board}/questions [get]
func (h *handler) ListQuestions(c *gin.Context) {
	params := SearchParams{
		Query:    c.Query("q"),
		Strategy: c.Query("strategy"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		params.Limit = limit
	}

	questions, err := h.service.List(c.Request.Context(), c.Param("board"), params)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

// @Summary Create question
// @Tags Question
// @Accept json
// @Produce json
// @Param board path string true "Board slug"
// @Param request body CreateQuestionRequest true "Question"
// @Success 201 {object} CreateQuestionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /api/{board}/questions [post]
func (h *handler) CreateQuestion(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "content is required"})
		return
	}

	q, err := h.service.Create(c.Request.Context(), c.Param("board"), req.Content)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, CreateQuestionResponse{ID: q.ID, Status: "success"})
}

// @Summary Get question
// @Tags Question
// @Produce json
// @Param board path string true "Board slug"
// @Param id path int true "Question ID"
// @Success 200 {object} Question
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/{board}/questions/{id} [get]
func (h *handler) GetQuestion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	q, err := h.service.Get(c.Request.Context(), c.Param("board"), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// @Summary Vote on question
// @Description An empty body counts as a single up vote.
// @Tags Question
// @Accept json
// @Produce json
// @Param board path string true "Board slug"
// @Param id path int true "Question ID"
// @Param request body VoteRequest false "Vote"
// @Success 200 {object} VoteResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /api/{board}/questions/{id}/vote [post]
func (h *handler) VoteQuestion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	resp, err := h.service.Vote(c.Request.Context(), c.Param("board"), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question ID"})
		return 0, false
	}
	return id, true
}

func (h *handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: ErrNotFound.Error()})
	case errors.Is(err, ErrInvalidBoard),
		errors.Is(err, ErrInvalidContent),
		errors.Is(err, ErrInvalidVote),
		errors.Is(err, ErrUnknownStrategy):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		h.logger.Errorw("Question request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
