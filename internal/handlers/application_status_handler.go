package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/services"
)

type ApplicationStatusHandler struct {
	Hiring *services.HiringService
}

func NewApplicationStatusHandler(hiring *services.HiringService) *ApplicationStatusHandler {
	return &ApplicationStatusHandler{Hiring: hiring}
}

func (h *ApplicationStatusHandler) Hire(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	res, err := h.Hiring.Hire(c.UserContext(), uid, id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "Freelancer hired", fiber.Map{
		"application":    toApplicationResponse(&res.Application),
		"job_id":         res.JobID,
		"job_status":     res.JobStatus,
		"rejected_count": res.Rejected,
	})
}

func (h *ApplicationStatusHandler) Reject(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	app, err := h.Hiring.Reject(c.UserContext(), uid, id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "Application rejected", toApplicationResponse(app))
}

func (h *ApplicationStatusHandler) Status(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	jobID, err := paramUUID(c, "jobId")
	if err != nil {
		return writeError(c, err)
	}

	st, err := h.Hiring.Status(c.UserContext(), uid, jobID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "", st)
}
