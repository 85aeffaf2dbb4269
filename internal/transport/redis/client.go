package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/battlefun-backend/internal/entity"
)

const DefaultChannel = "battlefun:out"

// Publisher forwards dispatcher responses downstream over Redis pub/sub.
type Publisher struct {
	logger  *slog.Logger
	client  *redis.Client
	channel string
}

func New(logger *slog.Logger, client *redis.Client, channel string) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}

	return &Publisher{
		logger:  logger.With("component", "egress", "channel", channel),
		client:  client,
		channel: channel,
	}
}

// Publish - sends the response as JSON on the egress channel.
func (that *Publisher) Publish(ctx context.Context, response *entity.Response) error {
	payload, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if err = that.client.Publish(ctx, that.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish response for game %s: %w", response.GameID, err)
	}

	return nil
}

// Subscribe - delivers every response published on the egress channel to
// handle until ctx is done. Payloads that are not responses are skipped.
func (that *Publisher) Subscribe(ctx context.Context, handle func(*entity.Response)) error {
	log := that.logger.With("method", "Subscribe")

	sub := that.client.Subscribe(ctx, that.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", that.channel, err)
	}

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}

			var response entity.Response
			if err := json.Unmarshal([]byte(msg.Payload), &response); err != nil {
				log.Error("skipping malformed response", "payload", msg.Payload, "error", err)
				continue
			}

			handle(&response)
		}
	}
}
