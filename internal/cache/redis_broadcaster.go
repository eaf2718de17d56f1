package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/NomadCrew/comment-board/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultChannel is the Pub/Sub channel invalidations are published on.
const DefaultChannel = "board:cache:invalidate"

// invalidation is the message exchanged between processes.
type invalidation struct {
	ID        string    `json:"id"`
	Tag       string    `json:"tag"`
	Origin    string    `json:"origin"`
	Timestamp time.Time `json:"timestamp"`
}

// RedisBroadcaster implements Broadcaster over Redis Pub/Sub. Messages published
// by the same broadcaster are ignored on receipt.
type RedisBroadcaster struct {
	rdb            *redis.Client
	channel        string
	origin         string
	publishTimeout time.Duration
	log            *zap.SugaredLogger
	metrics        *metrics

	mu     sync.Mutex
	pubsub *redis.PubSub
}

var _ Broadcaster = (*RedisBroadcaster)(nil)

// NewRedisBroadcaster creates a broadcaster on channel, or DefaultChannel when empty.
func NewRedisBroadcaster(rdb *redis.Client, channel string) *RedisBroadcaster {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisBroadcaster{
		rdb:            rdb,
		channel:        channel,
		origin:         uuid.New().String(),
		publishTimeout: 5 * time.Second,
		log:            logger.GetLogger().Named("cache_broadcast"),
		metrics:        newMetrics(),
	}
}

// Publish implements Broadcaster.
func (b *RedisBroadcaster) Publish(ctx context.Context, tag string) error {
	data, err := json.Marshal(invalidation{
		ID:        uuid.New().String(),
		Tag:       tag,
		Origin:    b.origin,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal invalidation: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, b.publishTimeout)
	defer cancel()

	if err := b.rdb.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Subscribe implements Broadcaster. It blocks until ctx is done or the
// subscription channel closes.
func (b *RedisBroadcaster) Subscribe(ctx context.Context, onInvalidate func(tag string)) error {
	pubsub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("redis subscribe %s: %w", b.channel, err)
	}

	b.mu.Lock()
	b.pubsub = pubsub
	b.mu.Unlock()
	defer b.Close()

	b.log.Infow("Listening for cache invalidations", "channel", b.channel, "origin", b.origin)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			tag, remote := b.decode(msg.Payload)
			if remote {
				onInvalidate(tag)
			}
		}
	}
}

// decode returns the tag carried by payload and whether it came from a peer.
func (b *RedisBroadcaster) decode(payload string) (string, bool) {
	var inv invalidation
	if err := json.Unmarshal([]byte(payload), &inv); err != nil || inv.Tag == "" {
		b.metrics.broadcastErrors.WithLabelValues("decode").Inc()
		b.log.Warnw("Dropping malformed invalidation", "payload", payload, "error", err)
		return "", false
	}
	return inv.Tag, inv.Origin != b.origin
}

// Close ends an active subscription. Safe to call more than once.
func (b *RedisBroadcaster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pubsub == nil {
		return nil
	}
	err := b.pubsub.Close()
	b.pubsub = nil
	return err
}
