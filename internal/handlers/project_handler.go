package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/services"
)

type ProjectHandler struct {
	Projects *services.ProjectService
}

func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{Projects: projects}
}

func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req services.ProjectInput
	if err := parseBody(c, &req); err != nil {
		return writeError(c, err)
	}

	p, err := h.Projects.Create(c.UserContext(), uid, req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusCreated, "Project added", p)
}

func (h *ProjectHandler) ListBySkill(c *fiber.Ctx) error {
	skillID, err := paramUUID(c, "skill_id")
	if err != nil {
		return writeError(c, err)
	}

	projects, err := h.Projects.ListBySkill(c.UserContext(), skillID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "", projects)
}

func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req services.ProjectUpdateInput
	if perr := parseBody(c, &req); perr != nil {
		// a non-owner gets 403 whatever the body holds
		if err := h.Projects.CheckOwner(c.UserContext(), uid, id); err != nil {
			return writeError(c, err)
		}
		return writeError(c, perr)
	}

	p, err := h.Projects.Update(c.UserContext(), uid, id, req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "Project updated", p)
}

func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.Projects.Delete(c.UserContext(), uid, id); err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "Project deleted", nil)
}
