package order

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/whycurls/wholesale-backend/internal/user"
)

func makeOrderApp(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"user_id": id}})
			}
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func orderFixture() (*Handler, *InMemoryRepository) {
	users := user.NewService(user.NewInMemoryRepository([]user.User{
		{ID: 1, Email: "admin@example.com", Role: user.RoleAdmin},
		{ID: 2, Email: "reseller@example.com", Role: user.RoleReseller},
		{ID: 3, Email: "other@example.com", Role: user.RoleReseller},
	}))
	orders := NewInMemoryRepository(nil)
	svc := NewService(orders, seedCatalog(), newRecordingNotifier(nil))
	return NewHandler(svc, users), orders
}

func TestCreateOrderRoute_RequiresAuth(t *testing.T) {
	handler, _ := orderFixture()
	app := makeOrderApp(handler)

	req := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}
}

func TestCreateOrderRoute_Creates(t *testing.T) {
	handler, _ := orderFixture()
	app := makeOrderApp(handler)

	body := `{
		"customerName": "Maria",
		"customerWhatsapp": "+5511999990000",
		"customerEmail": "maria@example.com",
		"items": [{"productId": "p-1", "qty": 2}]
	}`
	req := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "2")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		raw, _ := io.ReadAll(res.Body)
		t.Fatalf("expected 201, got %d: %s", res.StatusCode, raw)
	}

	var created Order
	raw, _ := io.ReadAll(res.Body)
	if err := json.Unmarshal(raw, &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if created.UserID != 2 || created.Subtotal != 99.8 {
		t.Fatalf("unexpected order %+v", created)
	}
}

func TestCreateOrderRoute_UnknownProduct(t *testing.T) {
	handler, orders := orderFixture()
	app := makeOrderApp(handler)

	body := `{"customerName": "Maria", "customerWhatsapp": "+55", "items": [{"productId": "nope", "qty": 1}]}`
	req := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "2")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.StatusCode)
	}
	all, _ := orders.ListAll()
	if len(all) != 0 {
		t.Fatalf("rejected order must not persist, found %d", len(all))
	}
}

func TestListOrders_OnlyOwn(t *testing.T) {
	handler, orders := orderFixture()
	app := makeOrderApp(handler)

	orders.Create(Order{ID: "o-mine", UserID: 2, Status: StatusReceived})
	orders.Create(Order{ID: "o-other", UserID: 3, Status: StatusReceived})

	req := httptest.NewRequest("GET", "/api/v1/orders", nil)
	req.Header.Set("X-User-ID", "2")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	var listed []Order
	raw, _ := io.ReadAll(res.Body)
	if err := json.Unmarshal(raw, &listed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != "o-mine" {
		t.Fatalf("listing must be scoped to the caller, got %+v", listed)
	}
}

func TestGetOrder_OwnerAndAdminOnly(t *testing.T) {
	handler, orders := orderFixture()
	app := makeOrderApp(handler)

	orders.Create(Order{ID: "o-mine", UserID: 2, Status: StatusReceived})

	cases := []struct {
		name   string
		caller string
		want   int
	}{
		{"owner", "2", fiber.StatusOK},
		{"admin", "1", fiber.StatusOK},
		{"stranger", "3", fiber.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/orders/o-mine", nil)
			req.Header.Set("X-User-ID", tc.caller)
			res, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if res.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, res.StatusCode)
			}
		})
	}
}

func TestAdminOrderRoutes_Gated(t *testing.T) {
	handler, orders := orderFixture()
	app := makeOrderApp(handler)

	orders.Create(Order{ID: "o-1", UserID: 3, Status: StatusReceived})

	req := httptest.NewRequest("GET", "/api/v1/admin/orders", nil)
	req.Header.Set("X-User-ID", "2")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for reseller, got %d", res.StatusCode)
	}

	req = httptest.NewRequest("PUT", "/api/v1/admin/orders/o-1/status", strings.NewReader(`{"status":"shipped"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "1")
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	updated, _ := orders.GetByID("o-1")
	if updated.Status != StatusShipped {
		t.Fatalf("status not updated, got %q", updated.Status)
	}
}
