// Package redistore backs docstore.Store with Redis: documents are JSON
// values under namespaced keys, per-collection arrival order lives in a
// list, and change fan-out rides Redis pub/sub. Reconnection after a
// dropped pub/sub connection is go-redis's job, not ours.
package redistore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/angelmondragon/grocerfront/pkg/config"
	"github.com/angelmondragon/grocerfront/pkg/docstore"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyNamespace = "gf"

type Store struct {
	rdb *redis.Client
}

// New connects to Redis and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig) (*Store, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Store{rdb: rdb}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, fmt.Errorf("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// CreateDocument stores the fields as JSON and publishes a change signal.
// Server-timestamp placeholders resolve against the Redis server clock so
// ordering tokens come from one clock regardless of writer.
func (s *Store) CreateDocument(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()

	resolved := make(map[string]any, len(fields))
	for k, v := range fields {
		if docstore.IsServerTimestamp(v) {
			serverTime, err := s.rdb.Time(ctx).Result()
			if err != nil {
				return "", fmt.Errorf("resolving server timestamp: %w", err)
			}
			resolved[k] = serverTime.UnixMilli()
			continue
		}
		resolved[k] = v
	}

	payload, err := json.Marshal(resolved)
	if err != nil {
		return "", fmt.Errorf("encoding document: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, docKey(collection, id), payload, 0)
	pipe.RPush(ctx, indexKey(collection), id)
	pipe.Publish(ctx, changeChannel(collection), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("writing document: %w", err)
	}
	return id, nil
}

// Subscribe reads the current snapshot, then re-reads the whole collection
// on every published change.
func (s *Store) Subscribe(ctx context.Context, collection string) (docstore.Subscription, error) {
	ps := s.rdb.Subscribe(ctx, changeChannel(collection))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribing to %s: %w", collection, err)
	}

	sub := &subscription{
		events: make(chan docstore.Event, 1),
		ps:     ps,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(sub.events)

		sub.deliver(ctx, s.snapshotEvent(ctx, collection))
		messages := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.done:
				return
			case _, ok := <-messages:
				if !ok {
					return
				}
				sub.deliver(ctx, s.snapshotEvent(ctx, collection))
			}
		}
	}()

	return sub, nil
}

func (s *Store) snapshotEvent(ctx context.Context, collection string) docstore.Event {
	snap, err := s.snapshot(ctx, collection)
	if err != nil {
		return docstore.Event{Err: err}
	}
	return docstore.Event{Docs: snap}
}

func (s *Store) snapshot(ctx context.Context, collection string) (docstore.Snapshot, error) {
	ids, err := s.rdb.LRange(ctx, indexKey(collection), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}
	if len(ids) == 0 {
		return docstore.Snapshot{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docKey(collection, id)
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", collection, err)
	}

	snap := make(docstore.Snapshot, 0, len(ids))
	for i, raw := range values {
		text, ok := raw.(string)
		if !ok {
			continue
		}
		var fields map[string]any
		if err := json.Unmarshal([]byte(text), &fields); err != nil {
			return nil, fmt.Errorf("decoding document %s: %w", ids[i], err)
		}
		snap = append(snap, docstore.Document{ID: ids[i], Fields: fields})
	}
	return snap, nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func docKey(collection, id string) string {
	return fmt.Sprintf("%s:doc:%s:%s", keyNamespace, collection, id)
}

func indexKey(collection string) string {
	return fmt.Sprintf("%s:col:%s", keyNamespace, collection)
}

func changeChannel(collection string) string {
	return fmt.Sprintf("%s:chg:%s", keyNamespace, collection)
}

type subscription struct {
	events    chan docstore.Event
	ps        *redis.PubSub
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

func (s *subscription) Events() <-chan docstore.Event {
	return s.events
}

func (s *subscription) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.closeErr = s.ps.Close()
	})
	return s.closeErr
}

func (s *subscription) deliver(ctx context.Context, ev docstore.Event) {
	select {
	case s.events <- ev:
	case <-ctx.Done():
	case <-s.done:
	}
}
