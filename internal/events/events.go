// FilePath: internal/events/events.go
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sarlink/relayhub/internal/config"
	nuts "github.com/vaudience/go-nuts"
)

// Envelope is the JSON shape published for every outbound event.
type Envelope struct {
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// Publisher fans outbound events to a redis channel for dashboard
// consumers. Publishing is fire-and-forget: failures are logged and never
// surfaced to the operation that produced the event.
type Publisher struct {
	client  *redis.Client
	channel string
}

// NewPublisher connects to redis and returns a channel publisher
func NewPublisher(cfg config.RedisConfig) *Publisher {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Publisher{
		client:  client,
		channel: cfg.EventsChannel,
	}
}

// Publish serializes an event envelope and pushes it on the channel
func (p *Publisher) Publish(event string, payload any) {
	envelope := Envelope{
		Event:     event,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		nuts.L.Warnf("[Events] Failed to encode %s event: %v", event, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		nuts.L.Warnf("[Events] Failed to publish %s event: %v", event, err)
	}
}

// Close releases the redis client
func (p *Publisher) Close() error {
	return p.client.Close()
}
