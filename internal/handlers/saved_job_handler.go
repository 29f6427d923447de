package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/services"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/utils"
)

type SavedJobHandler struct {
	Saved *services.SavedJobService
}

func NewSavedJobHandler(saved *services.SavedJobService) *SavedJobHandler {
	return &SavedJobHandler{Saved: saved}
}

type toggleSavedReq struct {
	JobID string `json:"job_id"`
}

func (h *SavedJobHandler) Toggle(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req toggleSavedReq
	if err := parseBody(c, &req); err != nil {
		return writeError(c, err)
	}
	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return writeError(c, utils.Invalid("SavedJobHandler.Toggle", utils.FieldErrors{"job_id": {"job_id must be a valid id"}}))
	}

	saved, err := h.Saved.Toggle(c.UserContext(), uid, jobID)
	if err != nil {
		return writeError(c, err)
	}

	state, msg := "unsaved", "Job removed from saved jobs"
	if saved {
		state, msg = "saved", "Job saved"
	}
	return ok(c, fiber.StatusOK, msg, fiber.Map{"job_id": jobID, "status": state})
}

func (h *SavedJobHandler) List(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}

	rows, err := h.Saved.List(c.UserContext(), uid)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "", toSavedJobList(rows))
}

func (h *SavedJobHandler) Remove(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	jobID, err := paramUUID(c, "job_id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.Saved.Remove(c.UserContext(), uid, jobID); err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "Job removed from saved jobs", nil)
}
