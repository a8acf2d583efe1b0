// Package local is the synchronous store adapter backed by a SQL table
// through gorm. Changes reach other handles on the same Broadcaster only.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go-boutique-store/internal/models"
	"go-boutique-store/internal/store"

	"gorm.io/gorm"
)

type Adapter struct {
	db     *gorm.DB
	bus    *store.Broadcaster
	logger *slog.Logger
}

// New opens a handle on db. Handles that share bus see each other's writes.
func New(db *gorm.DB, bus *store.Broadcaster, logger *slog.Logger) *Adapter {
	if bus == nil {
		bus = store.NewBroadcaster()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{db: db, bus: bus, logger: logger}
}

// Sibling opens another handle on the same table and broadcaster.
func (a *Adapter) Sibling() *Adapter {
	return &Adapter{db: a.db, bus: a.bus, logger: a.logger}
}

func (a *Adapter) Get(ctx context.Context, collection string) (store.Snapshot, error) {
	var docs []models.Document
	err := a.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("seq asc").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}

	snap := make(store.Snapshot, 0, len(docs))
	for _, d := range docs {
		snap = append(snap, store.Record{Key: d.Key, Value: json.RawMessage(d.Value)})
	}
	return snap, nil
}

func (a *Adapter) Set(ctx context.Context, collection string, snap store.Snapshot) error {
	docs := make([]models.Document, 0, len(snap))
	for i, r := range snap {
		docs = append(docs, models.Document{
			Collection: collection,
			Key:        r.Key,
			Seq:        int64(i),
			Value:      string(r.Value),
		})
	}

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection = ?", collection).Delete(&models.Document{}).Error; err != nil {
			return err
		}
		if len(docs) == 0 {
			return nil
		}
		return tx.Create(&docs).Error
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", collection, err)
	}

	a.broadcast(ctx, collection)
	return nil
}

func (a *Adapter) Push(ctx context.Context, collection string, value json.RawMessage) (string, error) {
	key := store.NewKey()

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int64
		if err := tx.Model(&models.Document{}).
			Where("collection = ?", collection).
			Select("COALESCE(MAX(seq), -1)").
			Scan(&last).Error; err != nil {
			return err
		}
		return tx.Create(&models.Document{
			Collection: collection,
			Key:        key,
			Seq:        last + 1,
			Value:      string(value),
		}).Error
	})
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", collection, err)
	}

	a.broadcast(ctx, collection)
	return key, nil
}

func (a *Adapter) Remove(ctx context.Context, collection, key string) error {
	err := a.db.WithContext(ctx).
		Where(&models.Document{Collection: collection, Key: key}).
		Delete(&models.Document{}).Error
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, key, err)
	}

	a.broadcast(ctx, collection)
	return nil
}

func (a *Adapter) Subscribe(collection string, fn func(store.Snapshot)) func() {
	return a.bus.Subscribe(a, collection, fn)
}

func (a *Adapter) broadcast(ctx context.Context, collection string) {
	snap, err := a.Get(ctx, collection)
	if err != nil {
		a.logger.Warn("storage event skipped", "collection", collection, "error", err)
		return
	}
	a.bus.Publish(a, collection, snap)
}
