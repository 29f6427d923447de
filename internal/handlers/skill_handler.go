package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/services"
)

type SkillHandler struct {
	Skills *services.SkillService
}

func NewSkillHandler(skills *services.SkillService) *SkillHandler {
	return &SkillHandler{Skills: skills}
}

func (h *SkillHandler) Create(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req services.SkillInput
	if err := parseBody(c, &req); err != nil {
		return writeError(c, err)
	}

	sk, err := h.Skills.Create(c.UserContext(), uid, req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusCreated, "Skill added", sk)
}

func (h *SkillHandler) ListMine(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}

	skills, err := h.Skills.ListByUser(c.UserContext(), uid)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "", skills)
}

// ListByUser is the public portfolio of any user.
func (h *SkillHandler) ListByUser(c *fiber.Ctx) error {
	userID, err := paramUUID(c, "user_id")
	if err != nil {
		return writeError(c, err)
	}

	skills, err := h.Skills.ListByUser(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "", skills)
}

func (h *SkillHandler) Update(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req services.SkillInput
	if perr := parseBody(c, &req); perr != nil {
		// a non-owner gets 403 whatever the body holds
		if err := h.Skills.CheckOwner(c.UserContext(), uid, id); err != nil {
			return writeError(c, err)
		}
		return writeError(c, perr)
	}

	sk, err := h.Skills.Update(c.UserContext(), uid, id, req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "Skill updated", sk)
}

func (h *SkillHandler) Delete(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.Skills.Delete(c.UserContext(), uid, id); err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "Skill deleted", nil)
}
