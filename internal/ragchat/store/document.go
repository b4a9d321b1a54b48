package store

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/kart-io/ragchat/internal/model"
	"github.com/kart-io/ragchat/pkg/utils/errors"
)

type documents struct {
	db *gorm.DB
}

func newDocuments(db *gorm.DB) *documents {
	return &documents{db}
}

func (d *documents) Create(ctx context.Context, doc *model.Document) error {
	if err := d.db.WithContext(ctx).Create(doc).Error; err != nil {
		return errors.ErrDatabase.WithCause(err)
	}
	return nil
}

func (d *documents) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Document{})
	if result.Error != nil {
		return errors.ErrDatabase.WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound.WithMessage("document not found")
	}
	return nil
}

func (d *documents) Get(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	if err := d.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrNotFound.WithMessage("document not found")
		}
		return nil, errors.ErrDatabase.WithCause(err)
	}
	return &doc, nil
}

func (d *documents) List(ctx context.Context, offset, limit int) ([]*model.Document, int64, error) {
	var docs []*model.Document
	var total int64

	if err := d.db.WithContext(ctx).Model(&model.Document{}).Count(&total).Error; err != nil {
		return nil, 0, errors.ErrDatabase.WithCause(err)
	}

	if err := d.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&docs).Error; err != nil {
		return nil, 0, errors.ErrDatabase.WithCause(err)
	}

	return docs, total, nil
}
