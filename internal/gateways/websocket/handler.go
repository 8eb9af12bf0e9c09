package websocket

import (
	"net/http"
	"time"

	"questionboard/internal/app/question"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Client struct {
	ID    string
	Board string
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
}

// @Summary Board event feed
// @Description Upgrades to a websocket that receives question_created and question_voted events for the board.
// @Tags Realtime
// @Param board path string true "Board slug"
// @Success 101
// @Failure 400 {object} question.ErrorResponse
// @Failure 503 {object} question.ErrorResponse
// @Router /ws/{board} [get]
func (h *Hub) ServeWS(c *gin.Context) {
	board := c.Param("board")
	if err := question.ValidateBoard(board); err != nil {
		h.logger.Warnw("WebSocket connection rejected: invalid board",
			"board", board,
			"client_ip", c.ClientIP(),
		)
		c.JSON(http.StatusBadRequest, question.ErrorResponse{Error: err.Error()})
		return
	}

	if h.isStopped() {
		c.JSON(http.StatusServiceUnavailable, question.ErrorResponse{Error: "server shutting down"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorw("Failed to upgrade connection", "board", board, "error", err)
		return
	}

	client := &Client{
		ID:    uuid.New().String(),
		Board: board,
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
	}

	h.logger.Debugw("WebSocket connection established",
		"client_id", client.ID,
		"board", board,
		"client_ip", c.ClientIP(),
		"user_agent", c.GetHeader("User-Agent"),
	)

	go client.writePump()
	if !h.Register(client) {
		return
	}
	client.readPump()
}

// readPump only drains control frames; the feed is one-way.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debugw("WebSocket read error", "client_id", c.ID, "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
