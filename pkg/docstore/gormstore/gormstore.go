// Package gormstore is a durable docstore.Store for local development,
// keeping documents in a single sqlite table through gorm. Change fan-out
// is in-process only: a second process sees writes on its next subscribe,
// not live.
package gormstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/grocerfront/pkg/docstore"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type documentRow struct {
	Seq        int64  `gorm:"primaryKey;autoIncrement"`
	DocID      string `gorm:"uniqueIndex;not null"`
	Collection string `gorm:"index;not null"`
	Fields     string `gorm:"not null"`
	CreatedAt  time.Time
}

func (documentRow) TableName() string { return "documents" }

type Store struct {
	db       *gorm.DB
	notifier *docstore.ChangeNotifier
	now      func() time.Time
}

// New opens (and migrates) the sqlite database at path.
func New(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite at %s: %w", path, err)
	}
	return NewWithDB(db)
}

// NewWithDB wraps an existing gorm connection; tests hand in ":memory:".
func NewWithDB(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("migrating documents table: %w", err)
	}
	return &Store{
		db:       db,
		notifier: docstore.NewChangeNotifier(),
		now:      time.Now,
	}, nil
}

// CreateDocument persists the fields as JSON and signals subscribers.
func (s *Store) CreateDocument(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()

	resolved := make(map[string]any, len(fields))
	for k, v := range fields {
		if docstore.IsServerTimestamp(v) {
			resolved[k] = s.now().UnixMilli()
			continue
		}
		resolved[k] = v
	}

	payload, err := json.Marshal(resolved)
	if err != nil {
		return "", fmt.Errorf("encoding document: %w", err)
	}

	row := documentRow{
		DocID:      id,
		Collection: collection,
		Fields:     string(payload),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("writing document: %w", err)
	}

	s.notifier.Notify(collection)
	return id, nil
}

// Subscribe delivers the current snapshot, then a full re-read after every
// in-process write to the collection.
func (s *Store) Subscribe(ctx context.Context, collection string) (docstore.Subscription, error) {
	signals, cancel := s.notifier.Listen(collection)

	sub := &subscription{
		events: make(chan docstore.Event, 1),
		done:   make(chan struct{}),
	}

	go func() {
		defer cancel()
		defer close(sub.events)

		sub.deliver(ctx, s.snapshotEvent(ctx, collection))
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.done:
				return
			case <-signals:
				sub.deliver(ctx, s.snapshotEvent(ctx, collection))
			}
		}
	}()

	return sub, nil
}

func (s *Store) snapshotEvent(ctx context.Context, collection string) docstore.Event {
	var rows []documentRow
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("seq asc").
		Find(&rows).Error
	if err != nil {
		return docstore.Event{Err: fmt.Errorf("reading %s: %w", collection, err)}
	}

	snap := make(docstore.Snapshot, 0, len(rows))
	for _, row := range rows {
		var fields map[string]any
		if err := json.Unmarshal([]byte(row.Fields), &fields); err != nil {
			return docstore.Event{Err: fmt.Errorf("decoding document %s: %w", row.DocID, err)}
		}
		snap = append(snap, docstore.Document{ID: row.DocID, Fields: fields})
	}
	return docstore.Event{Docs: snap}
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type subscription struct {
	events    chan docstore.Event
	done      chan struct{}
	closeOnce sync.Once
}

func (s *subscription) Events() <-chan docstore.Event {
	return s.events
}

func (s *subscription) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

func (s *subscription) deliver(ctx context.Context, ev docstore.Event) {
	select {
	case s.events <- ev:
	case <-ctx.Done():
	case <-s.done:
	}
}
