package catalog

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/whycurls/wholesale-backend/internal/user"
)

type Handler struct {
	service *Service
	users   *user.Service
}

func NewHandler(service *Service, users *user.Service) *Handler {
	return &Handler{service: service, users: users}
}

// Catalog reads require a signed-in reseller, so every route is registered
// behind the jwt middleware; admin routes additionally check the stored role.
func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/catalog", h.listCatalog)
	app.Get("/api/v1/catalog/:id", h.getProduct)

	app.Get("/api/v1/admin/products", h.adminListProducts)
	app.Post("/api/v1/admin/products", h.adminCreateProduct)
	app.Put("/api/v1/admin/products/:id", h.adminUpdateProduct)
	app.Delete("/api/v1/admin/products/:id", h.adminDeleteProduct)
}

// catalogItem is the public read shape: the description is normalized at
// render time and inactive rows never reach resellers.
type catalogItem struct {
	Product
	Description string `json:"description"`
}

func (h *Handler) listCatalog(c *fiber.Ctx) error {
	products, err := h.service.List(true)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	items := make([]catalogItem, 0, len(products))
	for _, p := range products {
		items = append(items, catalogItem{Product: p, Description: RenderDescription(p.DescriptionHTML)})
	}
	return c.JSON(items)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	p, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	if !p.IsActive {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	return c.JSON(catalogItem{Product: p, Description: RenderDescription(p.DescriptionHTML)})
}

func (h *Handler) adminListProducts(c *fiber.Ctx) error {
	if !user.RequireAdmin(c, h.users) {
		return nil
	}
	products, err := h.service.List(false)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(products)
}

type adminProductRequest struct {
	Name            string   `json:"name"`
	DescriptionHTML string   `json:"descriptionHtml"`
	Price           float64  `json:"price"`
	CompareAtPrice  *float64 `json:"compareAtPrice"`
	Images          []string `json:"images"`
	IsActive        *bool    `json:"isActive"`
}

func (h *Handler) adminCreateProduct(c *fiber.Ctx) error {
	if !user.RequireAdmin(c, h.users) {
		return nil
	}

	payload := new(adminProductRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if payload.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	now := time.Now().UTC().Format(time.RFC3339)
	p := Product{
		ID:              uuid.NewString(),
		Name:            payload.Name,
		DescriptionHTML: payload.DescriptionHTML,
		Price:           payload.Price,
		CompareAtPrice:  payload.CompareAtPrice,
		Images:          payload.Images,
		IsActive:        payload.IsActive == nil || *payload.IsActive,
		Source:          SourceManual,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if len(p.Images) > 0 {
		p.MainImage = &p.Images[0]
	}

	created, err := h.service.Create(p)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) adminUpdateProduct(c *fiber.Ctx) error {
	if !user.RequireAdmin(c, h.users) {
		return nil
	}

	existing, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}

	payload := new(adminProductRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if payload.Name != "" {
		existing.Name = payload.Name
	}
	if payload.DescriptionHTML != "" {
		existing.DescriptionHTML = payload.DescriptionHTML
	}
	if payload.Price != 0 {
		existing.Price = payload.Price
	}
	if payload.CompareAtPrice != nil {
		existing.CompareAtPrice = payload.CompareAtPrice
	}
	if payload.Images != nil {
		existing.Images = payload.Images
		existing.MainImage = nil
		if len(payload.Images) > 0 {
			existing.MainImage = &payload.Images[0]
		}
	}
	if payload.IsActive != nil {
		existing.IsActive = *payload.IsActive
	}
	existing.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	updated, err := h.service.Update(existing.ID, existing)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(updated)
}

func (h *Handler) adminDeleteProduct(c *fiber.Ctx) error {
	if !user.RequireAdmin(c, h.users) {
		return nil
	}

	if err := h.service.Delete(c.Params("id")); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"deleted": true})
}
