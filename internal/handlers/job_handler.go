package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/services"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/utils"
)

type JobHandler struct {
	Jobs *services.JobService
}

func NewJobHandler(jobs *services.JobService) *JobHandler {
	return &JobHandler{Jobs: jobs}
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req services.JobInput
	if err := parseBody(c, &req); err != nil {
		return writeError(c, err)
	}

	job, err := h.Jobs.Create(c.UserContext(), uid, req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusCreated, "Job posted", toJobResponse(job))
}

// ListOpen is the public job board.
func (h *JobHandler) ListOpen(c *fiber.Ctx) error {
	var f services.JobFilter
	if err := c.QueryParser(&f); err != nil {
		return writeError(c, utils.Invalid("JobHandler.ListOpen", utils.FieldErrors{"query": {"invalid query parameters"}}))
	}

	page, err := h.Jobs.ListOpen(c.UserContext(), f)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "", toJobPage(page))
}

func (h *JobHandler) ListMine(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}

	jobs, err := h.Jobs.ListMine(c.UserContext(), uid)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "", toJobList(jobs))
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	job, err := h.Jobs.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "", toJobResponse(job))
}

func (h *JobHandler) Update(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req services.JobInput
	if perr := parseBody(c, &req); perr != nil {
		// a non-owner gets 403 whatever the body holds
		if err := h.Jobs.CheckOwner(c.UserContext(), uid, id); err != nil {
			return writeError(c, err)
		}
		return writeError(c, perr)
	}

	job, err := h.Jobs.Update(c.UserContext(), uid, id, req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "Job updated", toJobResponse(job))
}

func (h *JobHandler) Delete(c *fiber.Ctx) error {
	uid, err := authUserID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.Jobs.Delete(c.UserContext(), uid, id); err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, "Job deleted", nil)
}
