package lead

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/whycurls/wholesale-backend/internal/user"
)

type Handler struct {
	repo  Repository
	users *user.Service
}

type leadRequest struct {
	Name     string `json:"nome"`
	WhatsApp string `json:"whatsapp"`
	CpfCnpj  string `json:"cpfCnpj"`
	Email    string `json:"email"`
}

func NewHandler(repo Repository, users *user.Service) *Handler {
	return &Handler{repo: repo, users: users}
}

// The capture form is public, the listing is admin only.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/leads", h.createLead)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/admin/leads", h.listLeads)
}

func (h *Handler) createLead(c *fiber.Ctx) error {
	payload := new(leadRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if payload.Name == "" || payload.WhatsApp == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing required fields"})
	}

	created, err := h.repo.Create(Lead{
		ID:        uuid.NewString(),
		Name:      payload.Name,
		WhatsApp:  payload.WhatsApp,
		CpfCnpj:   payload.CpfCnpj,
		Email:     payload.Email,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) listLeads(c *fiber.Ctx) error {
	if !user.RequireAdmin(c, h.users) {
		return nil
	}

	leads, err := h.repo.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(leads)
}
