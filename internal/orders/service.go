package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sarthakjns/bazaario-backend/internal/coupons"
	"github.com/sarthakjns/bazaario-backend/internal/products"
	"github.com/sarthakjns/bazaario-backend/internal/users"
	"github.com/sarthakjns/bazaario-backend/pkg/db/models"
	"github.com/sarthakjns/bazaario-backend/pkg/enums"
	pkgerrors "github.com/sarthakjns/bazaario-backend/pkg/errors"
	"github.com/sarthakjns/bazaario-backend/pkg/logger"
	"github.com/sarthakjns/bazaario-backend/pkg/pagination"
)

// TxRunner executes fn inside one database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CouponApplier computes the discount for a coupon code at checkout.
type CouponApplier interface {
	Apply(ctx context.Context, code string, subtotalPaise int) (*coupons.Applied, error)
}

// DeliveryCharger prices delivery for a payable subtotal.
type DeliveryCharger interface {
	ChargeFor(ctx context.Context, payableSubtotalPaise int) (int, error)
}

// FeedWriter appends anonymized purchase events. Implementations must not
// return errors into the placement path.
type FeedWriter interface {
	RecordPurchase(ctx context.Context, city, itemName string)
}

// UserSource resolves the account behind an authenticated placement.
type UserSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service places orders and drives them through the fulfilment lifecycle.
type Service interface {
	Place(ctx context.Context, input PlaceInput) (*models.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params ListParams) (*Page, error)
	GetForUser(ctx context.Context, userID uuid.UUID, orderID uuid.UUID) (*models.Order, error)
	ListAdmin(ctx context.Context, params ListParams) (*Page, error)
	GetAdmin(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, input StatusUpdateInput) (*models.Order, error)
	MarkPaidByGatewayOrder(ctx context.Context, gatewayOrderID, paymentID string) error
	MarkFailedByGatewayOrder(ctx context.Context, gatewayOrderID string) error
}

type service struct {
	repo      Repository
	catalog   products.Repository
	usersRepo UserSource
	coupons   CouponApplier
	delivery  DeliveryCharger
	feed      FeedWriter
	tx        TxRunner
	now       func() time.Time
	logg      *logger.Logger
}

// NewService wires the order service with its collaborators.
func NewService(
	repo Repository,
	catalog products.Repository,
	usersRepo UserSource,
	couponApplier CouponApplier,
	delivery DeliveryCharger,
	feedWriter FeedWriter,
	tx TxRunner,
	logg *logger.Logger,
) Service {
	return &service{
		repo:      repo,
		catalog:   catalog,
		usersRepo: usersRepo,
		coupons:   couponApplier,
		delivery:  delivery,
		feed:      feedWriter,
		tx:        tx,
		now:       time.Now,
		logg:      logg,
	}
}

// Place prices the cart, applies the coupon and delivery rule, and writes
// the order with its line-item snapshots in one transaction. The activity
// feed entry is recorded after the transaction commits; its failure never
// fails the order.
func (s *service) Place(ctx context.Context, input PlaceInput) (*models.Order, error) {
	method, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "paymentMethod must be cod or razorpay")
	}
	if method == enums.PaymentMethodRazorpay &&
		(input.GatewayOrderID == nil || strings.TrimSpace(*input.GatewayOrderID) == "") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gatewayOrderId is required for razorpay orders")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	order := &models.Order{
		Status:          enums.OrderStatusProcessing,
		PaymentMethod:   method,
		PaymentStatus:   enums.PaymentStatusPending,
		ShippingAddress: input.ShippingAddress,
		GatewayOrderID:  input.GatewayOrderID,
	}

	if err := s.resolveCustomer(ctx, input, order); err != nil {
		return nil, err
	}

	subtotal, items, err := s.priceItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}
	order.Items = items

	if input.CouponCode != nil && strings.TrimSpace(*input.CouponCode) != "" {
		applied, err := s.coupons.Apply(ctx, *input.CouponCode, subtotal)
		if err != nil {
			return nil, err
		}
		order.CouponCode = &applied.Code
		order.DiscountPaise = applied.DiscountPaise
	}

	deliveryCharge, err := s.delivery.ChargeFor(ctx, subtotal-order.DiscountPaise)
	if err != nil {
		return nil, err
	}
	order.DeliveryChargePaise = deliveryCharge
	order.TotalPaise = subtotal - order.DiscountPaise + deliveryCharge

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalog := s.catalog.WithTx(tx)
		for _, item := range order.Items {
			if err := catalog.AdjustStock(ctx, item.VariantID, -item.Qty); err != nil {
				if errors.Is(err, products.ErrNotFound) {
					return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock for "+item.Name)
				}
				return err
			}
		}
		return s.repo.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "place order")
	}

	// Detached from the request so a client disconnect cannot drop it.
	s.feed.RecordPurchase(context.WithoutCancel(ctx),
		order.ShippingAddress.City, order.Items[0].Name)

	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(ctx, "order placed")
	return order, nil
}

func (s *service) resolveCustomer(ctx context.Context, input PlaceInput, order *models.Order) error {
	if input.UserID != nil {
		user, err := s.usersRepo.FindByID(ctx, *input.UserID)
		if errors.Is(err, users.ErrNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load account")
		}
		if user.Blocked {
			return pkgerrors.New(pkgerrors.CodeForbidden, "account is blocked")
		}
		order.UserID = &user.ID
		order.CustomerName = user.Name
		order.CustomerEmail = &user.Email
		order.CustomerPhone = user.Phone
		return nil
	}

	if input.Guest == nil || strings.TrimSpace(input.Guest.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized,
			"sign in or provide guest contact details to place an order")
	}
	order.CustomerName = strings.TrimSpace(input.Guest.Name)
	order.CustomerEmail = input.Guest.Email
	order.CustomerPhone = input.Guest.Phone
	return nil
}

// priceItems snapshots each variant's current price and attributes. The
// stored copies never follow later catalog edits.
func (s *service) priceItems(ctx context.Context, inputs []PlaceItemInput) (int, []models.OrderItem, error) {
	subtotal := 0
	items := make([]models.OrderItem, 0, len(inputs))
	for _, item := range inputs {
		product, err := s.catalog.FindByID(ctx, item.ProductID)
		if errors.Is(err, products.ErrNotFound) {
			return 0, nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		if err != nil {
			return 0, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}
		if !product.Active {
			return 0, nil, pkgerrors.New(pkgerrors.CodeStateConflict, product.Name+" is no longer available")
		}

		variant := findVariant(product, item.VariantID)
		if variant == nil {
			return 0, nil, pkgerrors.New(pkgerrors.CodeValidation, "variant does not belong to "+product.Name)
		}
		if variant.Stock < item.Qty {
			return 0, nil, pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock for "+product.Name)
		}

		lineTotal := variant.PricePaise * item.Qty
		subtotal += lineTotal
		items = append(items, models.OrderItem{
			ProductID:      product.ID,
			VariantID:      variant.ID,
			Name:           product.Name,
			Qty:            item.Qty,
			UnitPricePaise: variant.PricePaise,
			Attributes:     variant.Attributes,
			TotalPaise:     lineTotal,
		})
	}
	return subtotal, items, nil
}

func findVariant(product *models.Product, variantID uuid.UUID) *models.ProductVariant {
	for i := range product.Variants {
		if product.Variants[i].ID == variantID {
			return &product.Variants[i]
		}
	}
	return nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params ListParams) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	items, err := s.repo.ListByUser(ctx, userID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return buildPage(items, params.Limit), nil
}

func (s *service) GetForUser(ctx context.Context, userID uuid.UUID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.GetAdmin(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) ListAdmin(ctx context.Context, params ListParams) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	var filter ListFilter
	if params.Status != "" {
		status, err := enums.ParseOrderStatus(params.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
		filter.Status = status
	}
	if params.PaymentStatus != "" {
		paymentStatus, err := enums.ParsePaymentStatus(params.PaymentStatus)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status filter")
		}
		filter.PaymentStatus = paymentStatus
	}

	items, err := s.repo.List(ctx, filter, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return buildPage(items, params.Limit), nil
}

func (s *service) GetAdmin(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusProcessing: {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped:    {enums.OrderStatusDelivered, enums.OrderStatusCancelled},
	enums.OrderStatusDelivered:  {enums.OrderStatusReturned},
}

// UpdateStatus moves an order through the fulfilment lifecycle. Delivering
// a cash-on-delivery order settles its payment.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, input StatusUpdateInput) (*models.Order, error) {
	target, err := enums.ParseOrderStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.GetAdmin(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(order.Status, target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			"cannot move order from "+order.Status.String()+" to "+target.String())
	}

	order.Status = target
	if target == enums.OrderStatusDelivered &&
		order.PaymentMethod == enums.PaymentMethodCOD &&
		order.PaymentStatus == enums.PaymentStatusPending {
		now := s.now()
		order.PaymentStatus = enums.PaymentStatusPaid
		order.PaidAt = &now
	}

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save order")
	}

	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(ctx, "order status updated")
	return order, nil
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// MarkPaidByGatewayOrder settles an online order when the gateway confirms
// capture. Already-paid orders are left untouched.
func (s *service) MarkPaidByGatewayOrder(ctx context.Context, gatewayOrderID, paymentID string) error {
	order, err := s.repo.FindByGatewayOrderID(ctx, gatewayOrderID)
	if errors.Is(err, ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "no order for gateway order "+gatewayOrderID)
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		return nil
	}

	now := s.now()
	order.PaymentStatus = enums.PaymentStatusPaid
	order.PaidAt = &now
	if err := s.repo.Save(ctx, order); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save order")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_id":   order.ID.String(),
		"payment_id": paymentID,
	})
	s.logg.Info(ctx, "order payment captured")
	return nil
}

// MarkFailedByGatewayOrder records a failed gateway payment. Paid orders
// are never demoted.
func (s *service) MarkFailedByGatewayOrder(ctx context.Context, gatewayOrderID string) error {
	order, err := s.repo.FindByGatewayOrderID(ctx, gatewayOrderID)
	if errors.Is(err, ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "no order for gateway order "+gatewayOrderID)
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if order.PaymentStatus != enums.PaymentStatusPending {
		return nil
	}

	order.PaymentStatus = enums.PaymentStatusFailed
	if err := s.repo.Save(ctx, order); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save order")
	}

	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Warn(ctx, "order payment failed")
	return nil
}

func buildPage(items []models.Order, limit int) *Page {
	normalized := pagination.NormalizeLimit(limit)
	page := &Page{Items: items}
	if len(items) > normalized {
		page.Items = items[:normalized]
		last := page.Items[normalized-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page
}
