package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/services"
)

type CategoryHandler struct {
	Jobs *services.JobService
}

func NewCategoryHandler(jobs *services.JobService) *CategoryHandler {
	return &CategoryHandler{Jobs: jobs}
}

// GetCategories lists the categories that currently have open jobs.
func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.Jobs.Categories(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "", categories)
}
