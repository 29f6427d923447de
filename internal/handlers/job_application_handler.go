package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/services"
)

type JobApplicationHandler struct {
	Hiring *services.HiringService
}

func NewJobApplicationHandler(hiring *services.HiringService) *JobApplicationHandler {
	return &JobApplicationHandler{Hiring: hiring}
}

func (h *JobApplicationHandler) Apply(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req services.ApplyInput
	if err := parseBody(c, &req); err != nil {
		return writeError(c, err)
	}

	app, err := h.Hiring.Apply(c.UserContext(), uid, req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusCreated, "Application submitted", toApplicationResponse(app))
}

func (h *JobApplicationHandler) ListForJob(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	jobID, err := paramUUID(c, "job_id")
	if err != nil {
		return writeError(c, err)
	}

	apps, err := h.Hiring.ListForJob(c.UserContext(), uid, jobID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "", toApplicationList(apps))
}

func (h *JobApplicationHandler) ListMine(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}

	apps, err := h.Hiring.ListMine(c.UserContext(), uid)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "", toApplicationList(apps))
}
