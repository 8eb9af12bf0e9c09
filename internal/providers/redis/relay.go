package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"questionboard/internal/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	EventsChannel  = "questionboard:events"
	publishTimeout = 5 * time.Second
)

// Relay carries board events between instances over one pub/sub channel.
type Relay struct {
	client  *redis.Client
	channel string
	logger  *zap.SugaredLogger
}

func NewRelay(client *redis.Client, logger *zap.Logger) *Relay {
	return &Relay{client: client, channel: EventsChannel, logger: logger.Sugar()}
}

func (r *Relay) Publish(ctx context.Context, event utils.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return r.client.Publish(ctx, r.channel, body).Err()
}

// Subscribe calls handler for every event on the channel until ctx is done or
// cancel is called. It returns once the subscription is confirmed.
func (r *Relay) Subscribe(ctx context.Context, handler func(utils.Event)) (cancel func(), err error) {
	ctx, cancelCtx := context.WithCancel(ctx)
	pubsub := r.client.Subscribe(ctx, r.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		cancelCtx()
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", r.channel, err)
	}

	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var e utils.Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					r.logger.Warnw("Dropping malformed relay message", "channel", msg.Channel, "error", err)
					continue
				}
				handler(e)
			}
		}
	}()

	return cancelCtx, nil
}
