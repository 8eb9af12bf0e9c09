package board

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	GetAllBoards(c *gin.Context)
	GetRecentBoards(c *gin.Context)
	SuggestBoards(c *gin.Context)
	GetBoardBySlug(c *gin.Context)
}

type handler struct {
	service Service
	logger  *zap.SugaredLogger
}

func NewHandler(service Service, logger *zap.Logger) Handler {
	return &handler{service: service, logger: logger.Sugar()}
}

// @Summary Get all boards
// @Description Every board that has at least one question, with question and vote totals
// @Tags Board
// @Produce json
// @Success 200 {object} BoardListResponse
// @Router /api/boards [get]
func (h *handler) GetAllBoards(c *gin.Context) {
	boards, err := h.service.List(c.Request.Context())
	if err != nil {
		h.logger.Errorw("Failed to list boards", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch boards"})
		return
	}
	c.JSON(http.StatusOK, BoardListResponse{Boards: boards})
}

// @Summary Recently active boards
// @Tags Board
// @Produce json
// @Param limit query int false "Number of boards" default(3)
// @Success 200 {object} SlugListResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/boards/recent [get]
func (h *handler) GetRecentBoards(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	slugs, err := h.service.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Errorw("Failed to list recent boards", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch boards"})
		return
	}
	c.JSON(http.StatusOK, SlugListResponse{Boards: slugs})
}

// @Summary Suggest board slugs
// @Tags Board
// @Produce json
// @Param q query string false "Partial slug"
// @Param limit query int false "Number of suggestions" default(10)
// @Success 200 {object} SlugListResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/boards/suggest [get]
func (h *handler) SuggestBoards(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	slugs, err := h.service.Suggest(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		h.logger.Errorw("Failed to suggest boards", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch boards"})
		return
	}
	c.JSON(http.StatusOK, SlugListResponse{Boards: slugs})
}

// @Summary Get board by slug
// @Tags Board
// @Produce json
// @Param slug path string true "Board slug"
// @Success 200 {object} Summary
// @Failure 404 {object} ErrorResponse
// @Router /api/boards/{slug} [get]
func (h *handler) GetBoardBySlug(c *gin.Context) {
	board, err := h.service.Get(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "board not found"})
		return
	}
	if err != nil {
		h.logger.Errorw("Failed to get board", "slug", c.Param("slug"), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch board"})
		return
	}
	c.JSON(http.StatusOK, board)
}

func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		return 0, false
	}
	return limit, true
}
