package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sarthakjns/bazaario-backend/pkg/enums"
)

// Order is a placed order with its immutable line-item snapshots. UserID is
// nil for guest checkouts; guest contact details are stored inline.
type Order struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID              *uuid.UUID          `gorm:"column:user_id;type:uuid;index"`
	CustomerName        string              `gorm:"column:customer_name;not null"`
	CustomerEmail       *string             `gorm:"column:customer_email"`
	CustomerPhone       *string             `gorm:"column:customer_phone"`
	Status              enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'processing'"`
	PaymentMethod       enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	PaymentStatus       enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	GatewayOrderID      *string             `gorm:"column:gateway_order_id;index"`
	ShippingAddress     Address             `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	CouponCode          *string             `gorm:"column:coupon_code"`
	DiscountPaise       int                 `gorm:"column:discount_paise;not null;default:0"`
	DeliveryChargePaise int                 `gorm:"column:delivery_charge_paise;not null;default:0"`
	TotalPaise          int                 `gorm:"column:total_paise;not null"`
	Items               []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PaidAt              *time.Time          `gorm:"column:paid_at"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
