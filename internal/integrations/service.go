package integrations

import (
	"context"
	"strings"

	"github.com/sarthakjns/bazaario-backend/pkg/db/models"
	pkgerrors "github.com/sarthakjns/bazaario-backend/pkg/errors"
	"github.com/sarthakjns/bazaario-backend/pkg/logger"
)

// CacheInvalidator drops any cached client derived from integration settings.
type CacheInvalidator interface {
	Invalidate()
}

// Integration is the admin-facing view of a configured integration.
// Secret values are masked; the stored settings keep the real values.
type Integration struct {
	Name     string            `json:"name"`
	Enabled  bool              `json:"enabled"`
	Settings map[string]string `json:"settings"`
}

// UpdateInput carries an admin settings change for one integration.
type UpdateInput struct {
	Enabled  bool              `json:"enabled"`
	Settings map[string]string `json:"settings" validate:"omitempty,dive,keys,required,endkeys"`
}

// Service manages third-party integration configuration.
type Service interface {
	List(ctx context.Context) ([]Integration, error)
	Update(ctx context.Context, name string, input UpdateInput) (*Integration, error)
}

type service struct {
	repo  Repository
	cache CacheInvalidator
	logg  *logger.Logger
}

// NewService builds the integrations service. cache may be nil when no
// derived client cache exists.
func NewService(repo Repository, cache CacheInvalidator, logg *logger.Logger) Service {
	return &service{repo: repo, cache: cache, logg: logg}
}

// EnsureDefaults seeds the known integration records so the admin panel
// always has a row to edit. Existing rows are left untouched.
func EnsureDefaults(ctx context.Context, repo Repository) error {
	return repo.EnsureDefault(ctx, &models.Integration{
		Name:     models.IntegrationRazorpay,
		Enabled:  false,
		Settings: models.IntegrationSettings{},
	})
}

func (s *service) List(ctx context.Context) ([]Integration, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list integrations")
	}
	out := make([]Integration, 0, len(records))
	for _, record := range records {
		out = append(out, toView(&record))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, name string, input UpdateInput) (*Integration, error) {
	record, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unknown integration")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load integration")
	}

	record.Enabled = input.Enabled
	if record.Settings == nil {
		record.Settings = models.IntegrationSettings{}
	}
	for key, value := range input.Settings {
		value = strings.TrimSpace(value)
		if value == "" {
			delete(record.Settings, key)
			continue
		}
		// Masked values round-trip from the admin UI unchanged; keep
		// the stored secret in that case.
		if value == maskedValue {
			continue
		}
		record.Settings[key] = value
	}

	if err := s.repo.Save(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save integration")
	}
	if s.cache != nil {
		s.cache.Invalidate()
	}
	ctx = s.logg.WithField(ctx, "integration", record.Name)
	s.logg.Info(ctx, "integration settings updated")

	view := toView(record)
	return &view, nil
}

const maskedValue = "********"

var secretSettings = map[string]bool{
	models.SettingAPISecret:     true,
	models.SettingWebhookSecret: true,
}

func toView(record *models.Integration) Integration {
	settings := make(map[string]string, len(record.Settings))
	for key, value := range record.Settings {
		if secretSettings[key] && value != "" {
			settings[key] = maskedValue
			continue
		}
		settings[key] = value
	}
	return Integration{
		Name:     record.Name,
		Enabled:  record.Enabled,
		Settings: settings,
	}
}
