package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/services"
)

// UserHandler serves profiles and contact methods.
type UserHandler struct {
	Users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	u, err := h.Users.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "", u)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req services.UserUpdateInput
	if perr := parseBody(c, &req); perr != nil {
		// a non-owner gets 403 whatever the body holds
		if err := h.Users.CheckSelf(uid, id); err != nil {
			return writeError(c, err)
		}
		return writeError(c, perr)
	}

	u, err := h.Users.Update(c.UserContext(), uid, id, req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "Profile updated", u)
}

func (h *UserHandler) UpsertContact(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req services.ContactInput
	if err := parseBody(c, &req); err != nil {
		return writeError(c, err)
	}

	cm, err := h.Users.UpsertContact(c.UserContext(), uid, req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "Contact updated", cm)
}

// GetContact looks up a contact method by its owner's user id.
func (h *UserHandler) GetContact(c *fiber.Ctx) error {
	userID, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	cm, err := h.Users.GetContact(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "", cm)
}
