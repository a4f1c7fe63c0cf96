package store

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// ChangeEvent announces that an instance wrote to the shared store.
type ChangeEvent struct {
	Origin      string    `json:"origin"`
	Collections []string  `json:"collections"`
	IDs         []string  `json:"ids,omitempty"`
	At          time.Time `json:"at"`
}

// Notifier fans change events out to every running instance.
type Notifier interface {
	Publish(ctx context.Context, ev ChangeEvent) error
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// DefaultChannel is the Redis channel change events travel on.
const DefaultChannel = "ledger:changes"

// RedisNotifier publishes change events over Redis pub/sub.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisNotifier{client: client, channel: channel}
}

func (n *RedisNotifier) Publish(ctx context.Context, ev ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, n.channel, string(payload)).Err()
}

// Subscribe delivers events until ctx is cancelled. Malformed messages are
// logged and dropped.
func (n *RedisNotifier) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	sub := n.client.Subscribe(ctx, n.channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, err
	}

	out := make(chan ChangeEvent)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Printf("[SYNC] Dropping malformed change event: %v", err)
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// NopNotifier is used when no Redis is configured; instances then only see
// their own writes.
type NopNotifier struct{}

func (NopNotifier) Publish(context.Context, ChangeEvent) error { return nil }

func (NopNotifier) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	out := make(chan ChangeEvent)
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out, nil
}
