package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sarthakjns/bazaario-backend/pkg/db/models"
	"github.com/sarthakjns/bazaario-backend/pkg/enums"
	"github.com/sarthakjns/bazaario-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  customer_name TEXT NOT NULL,
  customer_email TEXT,
  customer_phone TEXT,
  status TEXT NOT NULL DEFAULT 'processing',
  payment_method TEXT NOT NULL,
  payment_status TEXT NOT NULL DEFAULT 'pending',
  gateway_order_id TEXT,
  shipping_address TEXT,
  coupon_code TEXT,
  discount_paise INTEGER NOT NULL DEFAULT 0,
  delivery_charge_paise INTEGER NOT NULL DEFAULT 0,
  total_paise INTEGER NOT NULL,
  paid_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	items := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  variant_id TEXT NOT NULL,
  name TEXT NOT NULL,
  qty INTEGER NOT NULL,
  unit_price_paise INTEGER NOT NULL,
  attributes TEXT,
  total_paise INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(items).Error)
	return db
}

func newStoredOrder(t *testing.T, repo Repository, userID *uuid.UUID, created time.Time, mutate func(*models.Order)) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		CustomerName:  "Asha Rao",
		Status:        enums.OrderStatusProcessing,
		PaymentMethod: enums.PaymentMethodCOD,
		PaymentStatus: enums.PaymentStatusPending,
		ShippingAddress: models.Address{
			Line1:      "14 Lake View Road",
			City:       "Pune",
			State:      "MH",
			PostalCode: "411001",
		},
		TotalPaise: 49900,
		Items: []models.OrderItem{
			{
				ID:             uuid.New(),
				ProductID:      uuid.New(),
				VariantID:      uuid.New(),
				Name:           "Ceramic Mug",
				Qty:            1,
				UnitPricePaise: 49900,
				TotalPaise:     49900,
			},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
	if mutate != nil {
		mutate(order)
	}
	require.NoError(t, repo.Create(context.Background(), order))
	return order
}

func TestRepositoryCreate_persistsItemSnapshots(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	created := newStoredOrder(t, repo, nil, time.Now().UTC(), func(o *models.Order) {
		o.Items[0].Attributes = models.VariantAttributes{"color": "white"}
	})

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, found.UserID)
	assert.Equal(t, "Pune", found.ShippingAddress.City)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Ceramic Mug", found.Items[0].Name)
	assert.Equal(t, 49900, found.Items[0].UnitPricePaise)
	assert.Equal(t, "white", found.Items[0].Attributes["color"])
}

func TestRepositoryFindByGatewayOrderID(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	gwID := "order_" + uuid.NewString()
	created := newStoredOrder(t, repo, nil, time.Now().UTC(), func(o *models.Order) {
		o.PaymentMethod = enums.PaymentMethodRazorpay
		o.GatewayOrderID = &gwID
	})

	found, err := repo.FindByGatewayOrderID(context.Background(), gwID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	require.Len(t, found.Items, 1)

	_, err = repo.FindByGatewayOrderID(context.Background(), "order_unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepositoryListByUser_pagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	now := time.Now().UTC()
	older := newStoredOrder(t, repo, &userID, now.Add(-time.Hour), nil)
	newer := newStoredOrder(t, repo, &userID, now, nil)
	newStoredOrder(t, repo, nil, now, nil) // guest order, never listed for the user

	first, err := repo.ListByUser(context.Background(), userID, nil, 1)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, newer.ID, first[0].ID)

	cursor := &pagination.Cursor{CreatedAt: first[0].CreatedAt, ID: first[0].ID}
	second, err := repo.ListByUser(context.Background(), userID, cursor, 10)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, older.ID, second[0].ID)
}

func TestRepositoryList_filtersByPaymentStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now().UTC()
	paid := newStoredOrder(t, repo, nil, now, func(o *models.Order) {
		o.PaymentStatus = enums.PaymentStatusPaid
		paidAt := now
		o.PaidAt = &paidAt
	})
	newStoredOrder(t, repo, nil, now, nil)

	list, err := repo.List(context.Background(), ListFilter{PaymentStatus: enums.PaymentStatusPaid}, nil, 50)
	require.NoError(t, err)
	require.NotEmpty(t, list)

	seen := false
	for _, order := range list {
		assert.Equal(t, enums.PaymentStatusPaid, order.PaymentStatus)
		if order.ID == paid.ID {
			seen = true
		}
	}
	assert.True(t, seen)
}

func TestRepositorySave_updatesStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := newStoredOrder(t, repo, nil, time.Now().UTC(), nil)
	order.Status = enums.OrderStatusShipped
	require.NoError(t, repo.Save(context.Background(), order))

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, found.Status)
	require.Len(t, found.Items, 1)
}
