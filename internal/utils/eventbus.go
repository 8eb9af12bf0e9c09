package utils

import (
	"sync"
	"time"
)

const eventBufferSize = 100

type Event struct {
	Event     string      `json:"event"`
	Board     string      `json:"board"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// EventBus fans board events out to every subscriber channel.
// Publish never blocks: a subscriber with a full buffer misses the event.
type EventBus struct {
	subscribers []chan Event
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{}
}

func (eb *EventBus) Publish(event, board string, data interface{}) {
	e := Event{
		Event:     event,
		Board:     board,
		Data:      data,
		Timestamp: time.Now().UTC().Unix(),
	}

	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- e:
		default:
		}
	}
}

func (eb *EventBus) SubscribeCh() <-chan Event {
	ch := make(chan Event, eventBufferSize)
	eb.mu.Lock()
	eb.subscribers = append(eb.subscribers, ch)
	eb.mu.Unlock()
	return ch
}

func (eb *EventBus) Unsubscribe(sub <-chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	for i, ch := range eb.subscribers {
		if ch == sub {
			eb.subscribers = append(eb.subscribers[:i], eb.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}
