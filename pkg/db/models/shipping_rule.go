package models

import (
	"time"

	"github.com/google/uuid"
)

// ShippingRule is the single admin-editable delivery pricing rule: a flat
// charge, waived above the free-shipping threshold. Zero threshold means
// shipping is never free.
type ShippingRule struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FlatRatePaise  int       `gorm:"column:flat_rate_paise;not null;default:0"`
	FreeAbovePaise int       `gorm:"column:free_above_paise;not null;default:0"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
