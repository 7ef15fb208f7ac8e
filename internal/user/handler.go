package user

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type Handler struct {
	service   *Service
	jwtSecret string
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	WhatsApp string `json:"whatsapp"`
}

func NewHandler(service *Service, jwtSecret string) *Handler {
	return &Handler{service: service, jwtSecret: jwtSecret}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/sign-in", h.login)
	app.Post("/api/v1/sign-up", h.register)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/profile", h.getProfile)
	app.Get("/api/v1/admin/users", h.listUsers)
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	u, err := h.service.Authenticate(payload.Email, payload.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
	}

	claims := jwt.MapClaims{
		"user_id": u.ID,
		"email":   u.Email,
		"role":    u.Role,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"user":  sanitizeUser(u),
		"token": signed,
	})
}

func (h *Handler) register(c *fiber.Ctx) error {
	payload := new(registerRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if payload.Email == "" || payload.Password == "" || payload.FullName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing required fields"})
	}

	now := time.Now().UTC().Format(time.RFC3339)
	created, err := h.service.Register(User{
		Email:     payload.Email,
		Password:  payload.Password,
		FullName:  payload.FullName,
		WhatsApp:  payload.WhatsApp,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if err == ErrEmailExists {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "email already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(sanitizeUser(created))
}

func (h *Handler) getProfile(c *fiber.Ctx) error {
	userID, err := GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	u, err := h.service.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}

	return c.JSON(sanitizeUser(u))
}

func (h *Handler) listUsers(c *fiber.Ctx) error {
	if !RequireAdmin(c, h.service) {
		return nil
	}

	users := h.service.List()
	response := make([]User, 0, len(users))
	for _, u := range users {
		response = append(response, sanitizeUser(u))
	}
	return c.JSON(response)
}

// GetUserIDFromCtx extracts the user_id claim from the JWT token stored in
// `c.Locals("user")` by the jwt middleware. Several packages gate on the
// caller's identity, so it is exported here for reuse.
func GetUserIDFromCtx(c *fiber.Ctx) (int, error) {
	u := c.Locals("user")
	if u == nil {
		return 0, fiber.ErrUnauthorized
	}
	tok, ok := u.(*jwt.Token)
	if !ok {
		return 0, fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fiber.ErrUnauthorized
	}
	if raw, ok := claims["user_id"]; ok {
		switch v := raw.(type) {
		case float64:
			return int(v), nil
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case string:
			id, err := strconv.Atoi(v)
			if err != nil {
				return 0, fiber.ErrUnauthorized
			}
			return id, nil
		default:
			return 0, fiber.ErrUnauthorized
		}
	}
	return 0, fiber.ErrUnauthorized
}

// RequireAdmin resolves the caller from the JWT and checks the stored profile
// role. The lookup goes through the service so a stale token cannot keep admin
// access after a demotion. When access is denied the 401/403 response has
// already been written and false is returned; the handler must stop.
func RequireAdmin(c *fiber.Ctx, service *Service) bool {
	userID, err := GetUserIDFromCtx(c)
	if err != nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		return false
	}

	admin, err := service.IsAdmin(userID)
	if err != nil || !admin {
		_ = c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
		return false
	}
	return true
}

func sanitizeUser(u User) User {
	u.Password = ""
	return u
}
