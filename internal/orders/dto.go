package orders

import (
	"github.com/google/uuid"

	"github.com/sarthakjns/bazaario-backend/pkg/db/models"
)

// PlaceItemInput selects one variant and quantity to purchase.
type PlaceItemInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	VariantID uuid.UUID `json:"variantId" validate:"required"`
	Qty       int       `json:"qty" validate:"required,gt=0"`
}

// GuestDetails identifies a guest checkout when no account is signed in.
type GuestDetails struct {
	Name  string  `json:"name" validate:"required,max=200"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,max=20"`
}

// PlaceInput is the storefront's order placement payload. UserID comes from
// the access token, never the body; Guest is required when it is absent.
type PlaceInput struct {
	UserID          *uuid.UUID       `json:"-"`
	Guest           *GuestDetails    `json:"guest"`
	Items           []PlaceItemInput `json:"items" validate:"required,min=1,dive"`
	ShippingAddress models.Address   `json:"shippingAddress" validate:"required"`
	PaymentMethod   string           `json:"paymentMethod" validate:"required"`
	CouponCode      *string          `json:"couponCode" validate:"omitempty,max=40"`
	GatewayOrderID  *string          `json:"gatewayOrderId" validate:"omitempty,max=64"`
}

// ListParams pages an order listing.
type ListParams struct {
	Status        string
	PaymentStatus string
	Limit         int
	Cursor        string
}

// Page is one page of orders with the cursor for the next one.
type Page struct {
	Items      []models.Order `json:"items"`
	NextCursor string         `json:"nextCursor,omitempty"`
}

// StatusUpdateInput is the admin payload for moving an order through the
// fulfilment lifecycle.
type StatusUpdateInput struct {
	Status string `json:"status" validate:"required"`
}
