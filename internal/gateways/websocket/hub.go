package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"questionboard/internal/utils"

	"go.uber.org/zap"
)

const sendBufferSize = 256

// Relay fans events out to every instance sharing the same broker.
type Relay interface {
	Publish(ctx context.Context, event utils.Event) error
	Subscribe(ctx context.Context, handler func(utils.Event)) (cancel func(), err error)
}

// Hub keeps one room of websocket clients per board.
//
// Without a relay, bus events are broadcast to local rooms directly. With a
// relay, bus events are only published and the relay subscription performs the
// broadcast, so each instance delivers every event once.
type Hub struct {
	rooms  map[string]map[*Client]struct{}
	mu     sync.RWMutex
	bus    *utils.EventBus
	events <-chan utils.Event
	relay  Relay
	logger *zap.SugaredLogger

	// stopped is set once Run has disconnected everyone; guarded by mu.
	stopped bool
}

func NewHub(logger *zap.Logger, bus *utils.EventBus, relay Relay) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Client]struct{}),
		bus:    bus,
		events: bus.SubscribeCh(),
		relay:  relay,
		logger: logger.Sugar(),
	}
}

// Run dispatches bus events until ctx is cancelled, then disconnects all clients.
// Events published between NewHub and Run are buffered by the bus subscription.
func (h *Hub) Run(ctx context.Context) {
	defer h.bus.Unsubscribe(h.events)

	relay := h.relay
	if relay != nil {
		cancel, err := relay.Subscribe(ctx, h.Broadcast)
		if err != nil {
			h.logger.Errorw("Event relay unavailable, broadcasting locally only", "error", err)
			relay = nil
		} else {
			defer cancel()
		}
	}

	h.logger.Infow("WebSocket Hub started", "relay", relay != nil)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.logger.Info("WebSocket Hub stopped")
			return
		case e, ok := <-h.events:
			if !ok {
				return
			}
			if relay != nil {
				err := relay.Publish(ctx, e)
				if err == nil {
					continue
				}
				h.logger.Warnw("Event relay publish failed, broadcasting locally",
					"event", e.Event,
					"board", e.Board,
					"error", err,
				)
			}
			h.Broadcast(e)
		}
	}
}

// Broadcast sends e to the local clients of e.Board. Clients with a full
// buffer miss the message.
func (h *Hub) Broadcast(e utils.Event) {
	msg, err := json.Marshal(e)
	if err != nil {
		h.logger.Errorw("Failed to encode event", "event", e.Event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[e.Board] {
		select {
		case client.send <- msg:
		default:
			h.logger.Warnw("Client send buffer full, dropping message",
				"client_id", client.ID,
				"board", e.Board,
				"event", e.Event,
			)
		}
	}
}

// Register adds client to its board room. It returns false, and closes the
// client's send channel, once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		close(client.send)
		h.logger.Debugw("Client rejected, hub stopped", "client_id", client.ID, "board", client.Board)
		return false
	}
	room, ok := h.rooms[client.Board]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[client.Board] = room
	}
	room[client] = struct{}{}
	count := len(room)
	h.mu.Unlock()

	h.logger.Infow("Client connected",
		"client_id", client.ID,
		"board", client.Board,
		"clients_count", count,
	)
	return true
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.Board]
	if ok {
		if _, present := room[client]; present {
			delete(room, client)
			close(client.send)
		} else {
			ok = false
		}
		if len(room) == 0 {
			delete(h.rooms, client.Board)
		}
	}
	count := len(room)
	h.mu.Unlock()

	if ok {
		h.logger.Infow("Client disconnected",
			"client_id", client.ID,
			"board", client.Board,
			"clients_count", count,
		)
	}
}

func (h *Hub) ClientCount(board string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[board])
}

func (h *Hub) isStopped() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stopped
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopped = true
	for board, room := range h.rooms {
		for client := range room {
			close(client.send)
		}
		delete(h.rooms, board)
	}
}
