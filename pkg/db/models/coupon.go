package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sarthakjns/bazaario-backend/pkg/enums"
)

// Coupon is an admin-managed discount code. Value is a percentage for
// percent coupons and a paise amount for flat coupons.
type Coupon struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code          string           `gorm:"column:code;not null;uniqueIndex"`
	Type          enums.CouponType `gorm:"column:type;type:text;not null"`
	Value         int              `gorm:"column:value;not null"`
	MinOrderPaise int              `gorm:"column:min_order_paise;not null;default:0"`
	ExpiresAt     *time.Time       `gorm:"column:expires_at"`
	Active        bool             `gorm:"column:active;not null;default:true"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
