package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/services"
)

type DashboardHandler struct {
	Dashboard *services.DashboardService
}

func NewDashboardHandler(d *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Dashboard: d}
}

// Routes mounts the dashboard under /dashboard; auth runs before role checks.
func (h *DashboardHandler) Routes(r fiber.Router, auth []fiber.Handler, client, freelancer fiber.Handler) {
	g := r.Group("/dashboard", auth...)
	g.Get("/freelancer/stats", freelancer, h.FreelancerStats)
	g.Get("/client/stats", client, h.ClientStats)
}

func (h *DashboardHandler) FreelancerStats(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	stats, err := h.Dashboard.Freelancer(c.UserContext(), uid)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "", stats)
}

func (h *DashboardHandler) ClientStats(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	stats, err := h.Dashboard.Client(c.UserContext(), uid)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "", stats)
}
