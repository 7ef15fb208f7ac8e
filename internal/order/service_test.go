package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/whycurls/wholesale-backend/internal/catalog"
	"github.com/whycurls/wholesale-backend/internal/notify"
)

type recordingNotifier struct {
	err   error
	calls chan notify.OrderNotification
}

func newRecordingNotifier(err error) *recordingNotifier {
	return &recordingNotifier{err: err, calls: make(chan notify.OrderNotification, 4)}
}

func (n *recordingNotifier) NotifyOrderPlaced(_ context.Context, on notify.OrderNotification) error {
	n.calls <- on
	return n.err
}

func (n *recordingNotifier) wait(t *testing.T) notify.OrderNotification {
	t.Helper()
	select {
	case on := <-n.calls:
		return on
	case <-time.After(time.Second):
		t.Fatal("notification was never sent")
		return notify.OrderNotification{}
	}
}

func seedCatalog() *catalog.InMemoryRepository {
	return catalog.NewInMemoryRepository([]catalog.Product{
		{ID: "p-1", Name: "Shampoo", Price: 49.9, IsActive: true},
		{ID: "p-2", Name: "Condicionador", Price: 39.9, IsActive: true},
		{ID: "p-3", Name: "Descontinuado", Price: 10, IsActive: false},
	})
}

func TestCreateOrder_SnapshotsCatalogPricing(t *testing.T) {
	orders := NewInMemoryRepository(nil)
	notifier := newRecordingNotifier(nil)
	svc := NewService(orders, seedCatalog(), notifier)

	created, err := svc.CreateOrder(7, CreateOrderInput{
		CustomerName:     "Maria",
		CustomerWhatsApp: "+5511999990000",
		Items: []ItemInput{
			{ProductID: "p-1", Qty: 2},
			{ProductID: "p-2", Qty: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if created.Status != StatusReceived {
		t.Fatalf("new orders must start received, got %q", created.Status)
	}
	if created.Subtotal != 2*49.9+39.9 {
		t.Fatalf("wrong subtotal %v", created.Subtotal)
	}
	if created.Total != created.Subtotal+created.Shipping {
		t.Fatalf("total must be subtotal+shipping, got %v", created.Total)
	}
	if created.Items[0].ProductNameSnapshot != "Shampoo" || created.Items[0].UnitPriceSnapshot != 49.9 {
		t.Fatalf("line must snapshot catalog data, got %+v", created.Items[0])
	}
	if created.Items[0].LineTotal != 2*49.9 {
		t.Fatalf("wrong line total %v", created.Items[0].LineTotal)
	}

	sent := notifier.wait(t)
	if sent.OrderID != created.ID || len(sent.Items) != 2 {
		t.Fatalf("unexpected notification %+v", sent)
	}
}

func TestCreateOrder_RejectsEmptyAndBadQuantities(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil), seedCatalog(), newRecordingNotifier(nil))

	if _, err := svc.CreateOrder(7, CreateOrderInput{CustomerName: "Maria"}); !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("expected ErrEmptyOrder, got %v", err)
	}

	_, err := svc.CreateOrder(7, CreateOrderInput{
		CustomerName: "Maria",
		Items:        []ItemInput{{ProductID: "p-1", Qty: 0}},
	})
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestCreateOrder_RejectsInactiveProduct(t *testing.T) {
	orders := NewInMemoryRepository(nil)
	svc := NewService(orders, seedCatalog(), newRecordingNotifier(nil))

	_, err := svc.CreateOrder(7, CreateOrderInput{
		CustomerName: "Maria",
		Items:        []ItemInput{{ProductID: "p-3", Qty: 1}},
	})
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("inactive products must not be orderable, got %v", err)
	}

	all, _ := orders.ListAll()
	if len(all) != 0 {
		t.Fatalf("rejected order must not be persisted, found %d", len(all))
	}
}

func TestCreateOrder_NotifierFailureDoesNotFailOrder(t *testing.T) {
	orders := NewInMemoryRepository(nil)
	notifier := newRecordingNotifier(errors.New("webhook down"))
	svc := NewService(orders, seedCatalog(), notifier)

	created, err := svc.CreateOrder(7, CreateOrderInput{
		CustomerName:     "Maria",
		CustomerWhatsApp: "+5511999990000",
		Items:            []ItemInput{{ProductID: "p-1", Qty: 1}},
	})
	if err != nil {
		t.Fatalf("order creation must not depend on the notifier: %v", err)
	}
	notifier.wait(t)

	stored, err := orders.GetByID(created.ID)
	if err != nil {
		t.Fatalf("order must be persisted despite notifier failure: %v", err)
	}
	if stored.Status != StatusReceived {
		t.Fatalf("unexpected status %q", stored.Status)
	}
}

func TestUpdateStatus_ValidatesStatus(t *testing.T) {
	orders := NewInMemoryRepository([]Order{{ID: "o-1", Status: StatusReceived}})
	svc := NewService(orders, seedCatalog(), newRecordingNotifier(nil))

	if _, err := svc.UpdateStatus("o-1", "on-fire"); err == nil {
		t.Fatal("unknown status must be rejected")
	}

	updated, err := svc.UpdateStatus("o-1", StatusShipped)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != StatusShipped {
		t.Fatalf("expected shipped, got %q", updated.Status)
	}
}
