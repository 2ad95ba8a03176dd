// Package events publishes match lifecycle events for consumers outside the
// request path (realtime gateways, analytics). Publishing is fire-and-forget:
// callers log failures and carry on.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Type names the event; it doubles as the Redis channel suffix.
type Type string

const (
	MatchCreated  Type = "match.created"
	MatchAccepted Type = "match.accepted"
	MatchRejected Type = "match.rejected"
)

// Event describes a match transition.
type Event struct {
	Type    Type      `json:"type"`
	MatchID uint      `json:"matchId"`
	User1   string    `json:"user1"`
	User2   string    `json:"user2"`
	ActorID string    `json:"actorId"`
	At      time.Time `json:"at"`
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// RedisPublisher publishes JSON events on <prefix>:<type> channels.
type RedisPublisher struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisPublisher returns a publisher on rdb using channel prefix.
func NewRedisPublisher(rdb *redis.Client, prefix string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, prefix: prefix}
}

// Channel returns the Redis channel for t.
func (p *RedisPublisher) Channel(t Type) string {
	return p.prefix + ":" + string(t)
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event.Type, err)
	}
	if err := p.rdb.Publish(ctx, p.Channel(event.Type), payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// Nop discards every event. Used when no Redis URL is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
