package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/sarthakjns/bazaario-backend/pkg/db/models"
	pkgerrors "github.com/sarthakjns/bazaario-backend/pkg/errors"
	"github.com/sarthakjns/bazaario-backend/pkg/logger"
	"github.com/sarthakjns/bazaario-backend/pkg/pagination"
)

// Service records and serves the anonymized purchase activity feed.
type Service interface {
	RecordPurchase(ctx context.Context, city, itemName string)
	Recent(ctx context.Context, limit int) ([]models.ActivityEvent, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

func NewService(repo Repository, logg *logger.Logger) Service {
	return &service{repo: repo, logg: logg}
}

// RecordPurchase appends one feed entry. Failures are logged and swallowed;
// the feed never interferes with the purchase that produced it.
func (s *service) RecordPurchase(ctx context.Context, city, itemName string) {
	city = strings.TrimSpace(city)
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return
	}

	message := fmt.Sprintf("Someone just bought a %s", itemName)
	if city != "" {
		message = fmt.Sprintf("Someone in %s just bought a %s", city, itemName)
	}

	event := &models.ActivityEvent{Message: message, City: city}
	if err := s.repo.Insert(ctx, event); err != nil {
		s.logg.Error(ctx, "record activity event", err)
	}
}

func (s *service) Recent(ctx context.Context, limit int) ([]models.ActivityEvent, error) {
	events, err := s.repo.Recent(ctx, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load activity feed")
	}
	return events, nil
}
