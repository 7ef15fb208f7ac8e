package order

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/whycurls/wholesale-backend/internal/catalog"
	"github.com/whycurls/wholesale-backend/internal/user"
)

type Handler struct {
	service *Service
	users   *user.Service
}

func NewHandler(service *Service, users *user.Service) *Handler {
	return &Handler{service: service, users: users}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/orders", h.createOrder)
	app.Get("/api/v1/orders", h.listOwnOrders)
	app.Get("/api/v1/orders/:id", h.getOrder)

	app.Get("/api/v1/admin/orders", h.listAllOrders)
	app.Put("/api/v1/admin/orders/:id/status", h.updateStatus)
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	payload := new(CreateOrderInput)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if payload.CustomerName == "" || payload.CustomerWhatsApp == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing required fields"})
	}

	created, err := h.service.CreateOrder(userID, *payload)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyOrder), errors.Is(err, ErrInvalidQuantity):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, catalog.ErrNotFound):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) listOwnOrders(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	orders, err := h.service.ListByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(orders)
}

// getOrder lets the owner or an admin fetch a single order.
func (h *Handler) getOrder(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	o, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}
	if o.UserID != userID {
		admin, aerr := h.users.IsAdmin(userID)
		if aerr != nil || !admin {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
		}
	}
	return c.JSON(o)
}

func (h *Handler) listAllOrders(c *fiber.Ctx) error {
	if !user.RequireAdmin(c, h.users) {
		return nil
	}

	orders, err := h.service.ListAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(orders)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	if !user.RequireAdmin(c, h.users) {
		return nil
	}

	payload := new(statusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !ValidStatus(payload.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown status"})
	}

	updated, err := h.service.UpdateStatus(c.Params("id"), payload.Status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(updated)
}
