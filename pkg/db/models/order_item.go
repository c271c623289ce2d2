package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem snapshots one purchased variant. Price and attributes are
// captured at purchase time and never follow later catalog edits.
type OrderItem struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	VariantID      uuid.UUID         `gorm:"column:variant_id;type:uuid;not null"`
	Name           string            `gorm:"column:name;not null"`
	Qty            int               `gorm:"column:qty;not null"`
	UnitPricePaise int               `gorm:"column:unit_price_paise;not null"`
	Attributes     VariantAttributes `gorm:"column:attributes;type:jsonb;serializer:json"`
	TotalPaise     int               `gorm:"column:total_paise;not null"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
}
