package models

import (
	"time"

	"github.com/google/uuid"
)

// VariantAttributes captures the option values that define a variant
// (e.g. size, colour). Stored as JSON.
type VariantAttributes map[string]string

// ProductVariant is a specific purchasable configuration of a product with
// its own price and stock.
type ProductVariant struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID         `gorm:"column:product_id;type:uuid;not null;index"`
	Label      string            `gorm:"column:label;not null"`
	Attributes VariantAttributes `gorm:"column:attributes;type:jsonb;serializer:json"`
	PricePaise int               `gorm:"column:price_paise;not null"`
	Stock      int               `gorm:"column:stock;not null;default:0"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
