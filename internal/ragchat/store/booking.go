package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/kart-io/ragchat/internal/model"
	"github.com/kart-io/ragchat/pkg/utils/errors"
)

type bookings struct {
	db *gorm.DB
}

func newBookings(db *gorm.DB) *bookings {
	return &bookings{db}
}

func (b *bookings) Create(ctx context.Context, booking *model.Booking) error {
	if err := b.db.WithContext(ctx).Create(booking).Error; err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

func (b *bookings) ListBySession(ctx context.Context, sessionID string) ([]*model.Booking, error) {
	var list []*model.Booking
	if err := b.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return list, nil
}
