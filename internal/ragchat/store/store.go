// Package store provides the persistence layer for the chat service.
//
// Relational records (documents, bookings) live in the SQL database,
// chunk vectors live in Milvus, and session history lives in Redis via
// the biz layer.
package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/kart-io/ragchat/internal/model"
)

// Factory aggregates the relational stores.
type Factory interface {
	Documents() DocumentStore
	Bookings() BookingStore
	AutoMigrate() error
	Close() error
}

// DocumentStore persists ingested document records.
type DocumentStore interface {
	Create(ctx context.Context, doc *model.Document) error
	Get(ctx context.Context, id string) (*model.Document, error)
	List(ctx context.Context, offset, limit int) ([]*model.Document, int64, error)
	Delete(ctx context.Context, id string) error
}

// BookingStore persists bookings extracted from conversations.
type BookingStore interface {
	Create(ctx context.Context, booking *model.Booking) error
	ListBySession(ctx context.Context, sessionID string) ([]*model.Booking, error)
}

type datastore struct {
	db *gorm.DB
}

// NewFactory creates a Factory backed by the given gorm database.
func NewFactory(db *gorm.DB) Factory {
	return &datastore{db: db}
}

func (ds *datastore) Documents() DocumentStore {
	return newDocuments(ds.db)
}

func (ds *datastore) Bookings() BookingStore {
	return newBookings(ds.db)
}

func (ds *datastore) AutoMigrate() error {
	return ds.db.AutoMigrate(&model.Document{}, &model.Booking{})
}

func (ds *datastore) Close() error {
	sqlDB, err := ds.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
