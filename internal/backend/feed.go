package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/templui/inkpost/internal/model"
)

// Feed delivers auth events to every subscriber of a session.
type Feed interface {
	Publish(ctx context.Context, event model.AuthEvent) error
	Subscribe(fn func(model.AuthEvent)) model.Subscription
	Close() error
}

// listeners is an ordered set of callbacks shared by both feeds.
type listeners struct {
	mu     sync.Mutex
	nextID int
	order  []int
	fns    map[int]func(model.AuthEvent)
}

func (l *listeners) add(fn func(model.AuthEvent)) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fns == nil {
		l.fns = make(map[int]func(model.AuthEvent))
	}
	id := l.nextID
	l.nextID++
	l.fns[id] = fn
	l.order = append(l.order, id)
	return id
}

func (l *listeners) remove(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.fns[id]; !ok {
		return
	}
	delete(l.fns, id)
	for i, v := range l.order {
		if v == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

func (l *listeners) dispatch(event model.AuthEvent) {
	l.mu.Lock()
	fns := make([]func(model.AuthEvent), 0, len(l.order))
	for _, id := range l.order {
		fns = append(fns, l.fns[id])
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

type subscription struct {
	once   sync.Once
	cancel func()
}

func (s *subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

// MemoryFeed delivers events synchronously within the process.
type MemoryFeed struct {
	listeners listeners
}

func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{}
}

func (f *MemoryFeed) Publish(ctx context.Context, event model.AuthEvent) error {
	f.listeners.dispatch(event)
	return nil
}

func (f *MemoryFeed) Subscribe(fn func(model.AuthEvent)) model.Subscription {
	id := f.listeners.add(fn)
	return &subscription{cancel: func() { f.listeners.remove(id) }}
}

func (f *MemoryFeed) Close() error {
	return nil
}

// RedisFeed fans events out over a Redis pub/sub channel, so every process
// sharing a session sees sign-ins and sign-outs. Events published by this
// process come back through the channel like any other.
type RedisFeed struct {
	client    *redis.Client
	channel   string
	pubsub    *redis.PubSub
	listeners listeners
	done      chan struct{}
}

// NewRedisFeed subscribes to auth:<key> and starts the delivery loop.
func NewRedisFeed(ctx context.Context, client *redis.Client, key string) (*RedisFeed, error) {
	channel := "auth:" + key
	pubsub := client.Subscribe(ctx, channel)

	// Wait for the subscription to be confirmed so no publish is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", channel, err)
	}

	f := &RedisFeed{
		client:  client,
		channel: channel,
		pubsub:  pubsub,
		done:    make(chan struct{}),
	}
	go f.run()

	return f, nil
}

func (f *RedisFeed) run() {
	defer close(f.done)

	for msg := range f.pubsub.Channel() {
		var event model.AuthEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			slog.Warn("dropping malformed auth event", "channel", f.channel, "error", err)
			continue
		}
		f.listeners.dispatch(event)
	}
}

func (f *RedisFeed) Publish(ctx context.Context, event model.AuthEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal auth event: %w", err)
	}

	if err := f.client.Publish(ctx, f.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish auth event: %w", err)
	}
	return nil
}

func (f *RedisFeed) Subscribe(fn func(model.AuthEvent)) model.Subscription {
	id := f.listeners.add(fn)
	return &subscription{cancel: func() { f.listeners.remove(id) }}
}

// Close stops the delivery loop. The client is owned by the caller.
func (f *RedisFeed) Close() error {
	err := f.pubsub.Close()
	select {
	case <-f.done:
	case <-time.After(2 * time.Second):
	}
	return err
}
