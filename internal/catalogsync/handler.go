package catalogsync

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/whycurls/wholesale-backend/internal/user"
)

// Handler exposes the sync trigger and run history to the admin panel.
type Handler struct {
	service *Service
	users   *user.Service
	// configErr is the result of validating the feed credentials at wiring
	// time. A misconfigured deployment fails every trigger with a 500 before
	// any run record is created.
	configErr error
	// onSynced lets the catalog read cache drop stale listings after a run.
	onSynced func()
}

func NewHandler(service *Service, users *user.Service, configErr error, onSynced func()) *Handler {
	return &Handler{service: service, users: users, configErr: configErr, onSynced: onSynced}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/admin/sync", h.triggerSync)
	app.Get("/api/v1/admin/sync-runs", h.listRuns)
}

// triggerSync is the admin-facing entry point. Order matters: the auth gate
// and the config check run before any state is created, so a rejected call
// leaves no run record behind. Fetch failures still return the run id so the
// admin can correlate the audit row.
func (h *Handler) triggerSync(c *fiber.Ctx) error {
	if !user.RequireAdmin(c, h.users) {
		return nil
	}

	if h.configErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": h.configErr.Error()})
	}

	runID, result, err := h.service.Sync(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":     err.Error(),
			"syncRunId": runID,
		})
	}

	if h.onSynced != nil {
		h.onSynced()
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"syncRunId": runID,
		"result":    result,
	})
}

func (h *Handler) listRuns(c *fiber.Ctx) error {
	if !user.RequireAdmin(c, h.users) {
		return nil
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 20
	}

	runs, err := h.service.Runs(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(runs)
}
