package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/volnyigory/storefront/internal/domain/model"
	"github.com/volnyigory/storefront/internal/domain/model/event"
	"github.com/volnyigory/storefront/internal/infra/producer"
	"github.com/volnyigory/storefront/internal/infra/repository/db"
)

// OrderDraft is everything checkout collects before handing off to submission.
type OrderDraft struct {
	UserID         string
	Lines          []model.CartLine
	TotalAmount    decimal.Decimal // rubles, items plus delivery
	Recipient      RecipientForm
	City           string
	Region         string
	Zip            string
	PaymentMethod  model.PaymentMethod
	DeliveryMethod model.DeliveryMethod
	AdditionalInfo string
}

type IOrderService interface {
	Submit(ctx context.Context, draft OrderDraft) (string, error)
}

// OrderService turns a finished checkout into a persisted order and the
// matching back-office event.
type OrderService struct {
	orders   db.IOrderRepository
	profiles db.IProfileRepository
	producer producer.IOrderEventProducer
	logger   zerolog.Logger
}

func NewOrderService(orders db.IOrderRepository, profiles db.IProfileRepository, producer producer.IOrderEventProducer, logger zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, profiles: profiles, producer: producer, logger: logger}
}

// Submit persists the order header and lines atomically and returns the new
// order id. The profile refresh and the created event are best effort: their
// failures are logged and never fail an already-persisted order.
func (s *OrderService) Submit(ctx context.Context, draft OrderDraft) (string, error) {
	s.saveProfile(ctx, draft)

	order := &model.Order{
		ID:              uuid.NewString(),
		UserID:          draft.UserID,
		TotalAmount:     draft.TotalAmount,
		Status:          model.OrderStatusAwaitingPayment,
		CustomerName:    draft.Recipient.Name,
		CustomerEmail:   draft.Recipient.Email,
		CustomerPhone:   draft.Recipient.Phone,
		DeliveryAddress: formatAddress(draft.City, draft.Region, draft.Recipient.Address, draft.Zip),
		PaymentMethod:   draft.PaymentMethod.Name,
		Notes:           formatNotes(draft.AdditionalInfo, draft.DeliveryMethod),
	}

	items := make([]model.OrderItem, 0, len(draft.Lines))
	for _, line := range draft.Lines {
		items = append(items, model.OrderItem{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
			Price:     line.Product.SalePrice,
		})
	}

	if err := s.orders.CreateOrderWithItems(ctx, order, items); err != nil {
		return "", fmt.Errorf("failed to submit order: %w", err)
	}

	s.produceCreatedEvent(ctx, order, items)
	return order.ID, nil
}

// saveProfile refreshes the stored recipient data so the next checkout
// prefills with what was just entered.
func (s *OrderService) saveProfile(ctx context.Context, draft OrderDraft) {
	if s.profiles == nil || draft.UserID == "" {
		return
	}
	err := s.profiles.UpdateProfile(ctx, &model.Profile{
		ID:      draft.UserID,
		Email:   draft.Recipient.Email,
		Name:    draft.Recipient.Name,
		Phone:   draft.Recipient.Phone,
		Address: formatAddress(draft.City, draft.Region, draft.Recipient.Address, draft.Zip),
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", draft.UserID).Msg("failed to refresh profile before order")
	}
}

func (s *OrderService) produceCreatedEvent(ctx context.Context, order *model.Order, items []model.OrderItem) {
	if s.producer == nil {
		return
	}
	evtItems := make([]event.OrderCreatedItem, 0, len(items))
	for _, it := range items {
		evtItems = append(evtItems, event.OrderCreatedItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	evt := &event.OrderCreatedEvent{
		OrderID:       order.ID,
		UserID:        order.UserID,
		Amount:        order.TotalAmount,
		PaymentMethod: order.PaymentMethod,
		Items:         evtItems,
	}
	if err := s.producer.ProduceOrderCreatedEvent(ctx, evt); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to produce order created event")
	}
}

// formatAddress joins the non-empty parts as "city, region, address, zip".
func formatAddress(city, region, address, zip string) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{city, region, address, zip} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// formatNotes appends the delivery method line to whatever the shopper wrote.
func formatNotes(additionalInfo string, method model.DeliveryMethod) string {
	deliveryLine := fmt.Sprintf("Способ доставки: %s (%d ₽)", method.Name, method.Price)
	info := strings.TrimSpace(additionalInfo)
	if info == "" {
		return deliveryLine
	}
	return info + "\n" + deliveryLine
}
