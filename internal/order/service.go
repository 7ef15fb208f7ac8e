package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/whycurls/wholesale-backend/internal/catalog"
	"github.com/whycurls/wholesale-backend/internal/notify"
)

var (
	ErrEmptyOrder      = errors.New("order has no items")
	ErrInvalidQuantity = errors.New("item quantity must be positive")
)

// ItemInput is what the storefront sends: a product reference and a quantity.
// Prices are never trusted from the client.
type ItemInput struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

type CreateOrderInput struct {
	CustomerName     string      `json:"customerName"`
	CustomerWhatsApp string      `json:"customerWhatsapp"`
	CustomerEmail    string      `json:"customerEmail"`
	Notes            *string     `json:"notes"`
	Items            []ItemInput `json:"items"`
}

type Service struct {
	orders   Repository
	products catalog.Repository
	notifier notify.Notifier
}

func NewService(orders Repository, products catalog.Repository, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &Service{orders: orders, products: products, notifier: notifier}
}

// CreateOrder prices the items against the current catalog, persists the order
// and fires the notification. The notification runs in the background; its
// outcome never affects the created order.
func (s *Service) CreateOrder(userID int, input CreateOrderInput) (Order, error) {
	if len(input.Items) == 0 {
		return Order{}, ErrEmptyOrder
	}

	now := time.Now().UTC().Format(time.RFC3339)
	o := Order{
		ID:               uuid.NewString(),
		UserID:           userID,
		Status:           StatusReceived,
		CustomerName:     input.CustomerName,
		CustomerWhatsApp: input.CustomerWhatsApp,
		CustomerEmail:    input.CustomerEmail,
		Notes:            input.Notes,
		Items:            make([]Item, 0, len(input.Items)),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	for _, in := range input.Items {
		if in.Qty <= 0 {
			return Order{}, ErrInvalidQuantity
		}
		p, err := s.products.GetByID(in.ProductID)
		if err != nil {
			return Order{}, fmt.Errorf("product %s: %w", in.ProductID, err)
		}
		if !p.IsActive {
			return Order{}, fmt.Errorf("product %s: %w", in.ProductID, catalog.ErrNotFound)
		}
		line := Item{
			ProductID:           p.ID,
			ProductNameSnapshot: p.Name,
			UnitPriceSnapshot:   p.Price,
			Qty:                 in.Qty,
			LineTotal:           p.Price * float64(in.Qty),
		}
		o.Items = append(o.Items, line)
		o.Subtotal += line.LineTotal
	}
	o.Total = o.Subtotal + o.Shipping

	created, err := s.orders.Create(o)
	if err != nil {
		return Order{}, err
	}

	go s.notifyPlaced(created)

	return created, nil
}

func (s *Service) notifyPlaced(o Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	n := notify.OrderNotification{
		OrderID:          o.ID,
		CustomerName:     o.CustomerName,
		CustomerWhatsApp: o.CustomerWhatsApp,
		Total:            o.Total,
		Items:            make([]notify.OrderLine, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		n.Items = append(n.Items, notify.OrderLine{
			Name:      item.ProductNameSnapshot,
			Qty:       item.Qty,
			UnitPrice: item.UnitPriceSnapshot,
		})
	}

	if err := s.notifier.NotifyOrderPlaced(ctx, n); err != nil {
		log.Printf("[order] notification for order %s failed: %v", o.ID, err)
	}
}

func (s *Service) GetByID(id string) (Order, error) {
	return s.orders.GetByID(id)
}

func (s *Service) ListByUser(userID int) ([]Order, error) {
	return s.orders.ListByUser(userID)
}

func (s *Service) ListAll() ([]Order, error) {
	return s.orders.ListAll()
}

func (s *Service) UpdateStatus(id, status string) (Order, error) {
	if !ValidStatus(status) {
		return Order{}, fmt.Errorf("unknown status %q", status)
	}
	return s.orders.UpdateStatus(id, status, time.Now().UTC().Format(time.RFC3339))
}
