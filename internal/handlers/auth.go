package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return writeError(c, err)
	}

	u, err := h.Auth.Register(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, fiber.StatusCreated, "Registration successful", fiber.Map{"user": u})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := parseBody(c, &req); err != nil {
		return writeError(c, err)
	}

	res, err := h.Auth.Login(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, fiber.StatusOK, "Login successful", res)
}

// Logout is stateless; the client drops its token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, "Logout successful", nil)
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}

	u, err := h.Auth.CurrentUser(c.UserContext(), uid)
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, fiber.StatusOK, "", fiber.Map{"user": u, "role": c.Locals("role")})
}

type switchRoleReq struct {
	Role string `json:"role"`
}

func (h *AuthHandler) SwitchRole(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req switchRoleReq
	if err := parseBody(c, &req); err != nil {
		return writeError(c, err)
	}

	res, err := h.Auth.SwitchRole(c.UserContext(), uid, req.Role)
	if err != nil {
		return writeError(c, err)
	}

	return ok(c, fiber.StatusOK, "Role switched", res)
}
