// Package cache implements tag-based invalidation of cached reads.
//
// A read is cached under a tag. A write that affects the tag calls Invalidate, after
// which the next Read for that tag refetches. Entries are never evicted otherwise:
// the registry exists to keep reads consistent with writes, not to bound memory.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/NomadCrew/comment-board/errors"
	"github.com/NomadCrew/comment-board/logger"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Well-known tags.
const (
	TagComments = "comments"
	TagFeedback = "feedback"
)

const (
	sourceLocal  = "local"
	sourceRemote = "remote"
)

// Broadcaster carries invalidation signals between processes sharing a store.
type Broadcaster interface {
	Publish(ctx context.Context, tag string) error
	// Subscribe calls onInvalidate for every tag published by a peer until ctx is
	// done or the subscription breaks.
	Subscribe(ctx context.Context, onInvalidate func(tag string)) error
	Close() error
}

type entry struct {
	value any
	fresh bool
}

// Registry holds cached reads keyed by tag. It is safe for concurrent use.
type Registry struct {
	mu          sync.Mutex
	entries     map[string]*entry
	generations map[string]uint64

	group       singleflight.Group
	broadcaster Broadcaster
	newBackOff  func() backoff.BackOff
	log         *zap.SugaredLogger
	metrics     *metrics
}

// Option configures a Registry.
type Option func(*Registry)

// WithBroadcaster propagates local invalidations to peers and applies theirs.
func WithBroadcaster(b Broadcaster) Option {
	return func(r *Registry) {
		r.broadcaster = b
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		entries:     make(map[string]*entry),
		generations: make(map[string]uint64),
		log:         logger.GetLogger().Named("cache"),
		metrics:     newMetrics(),
		newBackOff:  defaultBackOff,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Invalidate marks tag stale. The local mark always happens; an error means peers
// could not be told and is reported as a CACHE_ERROR.
func (r *Registry) Invalidate(ctx context.Context, tag string) error {
	r.markStale(tag, sourceLocal)

	if r.broadcaster == nil {
		return nil
	}
	if err := r.broadcaster.Publish(ctx, tag); err != nil {
		r.metrics.broadcastErrors.WithLabelValues("publish").Inc()
		return apperrors.CacheInvalidationFailed(tag, err)
	}
	return nil
}

// Listen applies invalidations from peers until ctx is done. It returns
// immediately when no broadcaster is configured. A subscription that fails or
// ends is retried with exponential backoff; every cached entry is marked stale
// before resubscribing since peer signals may have been missed in between.
func (r *Registry) Listen(ctx context.Context) error {
	if r.broadcaster == nil {
		return nil
	}

	b := backoff.WithContext(r.newBackOff(), ctx)
	for {
		err := r.broadcaster.Subscribe(ctx, func(tag string) {
			r.markStale(tag, sourceRemote)
		})
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			// The subscription was up and ended; start the next round of
			// attempts from the shortest delay.
			b.Reset()
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			return nil
		}
		r.log.Warnw("Invalidation subscription lost, retrying", "error", err, "retry_in", wait)
		r.metrics.broadcastErrors.WithLabelValues("subscribe").Inc()
		r.markAllStale()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// Close releases the broadcaster, if any.
func (r *Registry) Close() error {
	if r.broadcaster == nil {
		return nil
	}
	return r.broadcaster.Close()
}

// Stale reports whether tag has no fresh entry.
func (r *Registry) Stale(tag string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[tag]
	return !ok || !e.fresh
}

func (r *Registry) markStale(tag, source string) {
	r.mu.Lock()
	r.generations[tag]++
	if e, ok := r.entries[tag]; ok {
		e.fresh = false
	}
	r.mu.Unlock()

	r.metrics.invalidations.WithLabelValues(tag, source).Inc()
	r.log.Debugw("Cache tag invalidated", "tag", tag, "source", source)
}

func (r *Registry) markAllStale() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for tag, e := range r.entries {
		r.generations[tag]++
		e.fresh = false
	}
}

func (r *Registry) lookup(tag string) (any, uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	gen := r.generations[tag]
	if e, ok := r.entries[tag]; ok && e.fresh {
		return e.value, gen, true
	}
	return nil, gen, false
}

// store records value as fresh unless tag was invalidated after gen was observed;
// a fetch that raced a write must not be served as fresh.
func (r *Registry) store(tag string, gen uint64, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.generations[tag] != gen {
		return
	}
	r.entries[tag] = &entry{value: value, fresh: true}
}

// Read returns the fresh value cached under tag, or calls fetch, caches its result
// and returns it. Concurrent misses for the same tag share one fetch. Fetch errors
// are returned and nothing is cached.
//
// The shared fetch is detached from the cancellation of whichever caller started
// it; each caller stops waiting when its own ctx is done.
func Read[T any](ctx context.Context, r *Registry, tag string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	cached, gen, ok := r.lookup(tag)
	if ok {
		value, typed := cached.(T)
		if !typed {
			return zero, typeMismatch(tag, cached, zero)
		}
		r.metrics.hits.WithLabelValues(tag).Inc()
		return value, nil
	}
	r.metrics.misses.WithLabelValues(tag).Inc()

	key := fmt.Sprintf("%s#%d", tag, gen)
	fetchCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (any, error) {
		value, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		r.store(tag, gen, value)
		return value, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return zero, res.Err
	}

	value, typed := res.Val.(T)
	if !typed {
		return zero, typeMismatch(tag, res.Val, zero)
	}
	return value, nil
}

func typeMismatch(tag string, held, want any) error {
	return apperrors.InternalServerError(fmt.Sprintf("cache tag %q holds %T, not %T", tag, held, want))
}
