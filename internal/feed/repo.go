package feed

import (
	"context"

	"gorm.io/gorm"

	"github.com/sarthakjns/bazaario-backend/pkg/db/models"
)

// Repository persists the public activity feed.
type Repository interface {
	Insert(ctx context.Context, event *models.ActivityEvent) error
	Recent(ctx context.Context, limit int) ([]models.ActivityEvent, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, event *models.ActivityEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) Recent(ctx context.Context, limit int) ([]models.ActivityEvent, error) {
	var events []models.ActivityEvent
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
