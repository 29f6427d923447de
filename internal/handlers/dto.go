package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/services"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/utils"
)

type UserSummary struct {
	ID             uuid.UUID             `json:"id"`
	FirstName      string                `json:"first_name"`
	LastName       string                `json:"last_name"`
	ProfilePicture string                `json:"profile_picture,omitempty"`
	ContactMethod  *models.ContactMethod `json:"contact_method,omitempty"`
}

type JobResponse struct {
	ID          uuid.UUID        `json:"id"`
	ClientID    uuid.UUID        `json:"client_id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Budget      int64            `json:"budget"`
	Category    string           `json:"category"`
	Deadline    string           `json:"deadline"`
	Status      models.JobStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Client      *UserSummary     `json:"client,omitempty"`
}

type ApplicationResponse struct {
	ID                uuid.UUID                `json:"id"`
	JobID             uuid.UUID                `json:"job_id"`
	FreelancerID      uuid.UUID                `json:"freelancer_id"`
	Proposal          string                   `json:"proposal"`
	ExpectedBudget    int64                    `json:"expected_budget"`
	FreelancerContact string                   `json:"freelancer_contact"`
	Status            models.ApplicationStatus `json:"status"`
	CreatedAt         time.Time                `json:"created_at"`
	Job               *JobResponse             `json:"job,omitempty"`
	Freelancer        *UserSummary             `json:"freelancer,omitempty"`
}

type SavedJobResponse struct {
	ID        uuid.UUID    `json:"id"`
	JobID     uuid.UUID    `json:"job_id"`
	CreatedAt time.Time    `json:"created_at"`
	Job       *JobResponse `json:"job,omitempty"`
}

type JobPageResponse struct {
	Items []JobResponse `json:"items"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int64         `json:"total"`
}

func toUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
		ContactMethod:  u.ContactMethod,
	}
}

func toJobResponse(j *models.Job) *JobResponse {
	if j == nil {
		return nil
	}
	return &JobResponse{
		ID:          j.ID,
		ClientID:    j.ClientID,
		Title:       j.Title,
		Description: j.Description,
		Budget:      j.Budget,
		Category:    j.Category,
		Deadline:    time.Time(j.Deadline).Format(utils.DateLayout),
		Status:      j.Status,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
		Client:      toUserSummary(j.Client),
	}
}

func toJobList(jobs []models.Job) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, *toJobResponse(&jobs[i]))
	}
	return out
}

func toJobPage(p *services.JobPage) JobPageResponse {
	return JobPageResponse{Items: toJobList(p.Items), Page: p.Page, Limit: p.Limit, Total: p.Total}
}

func toApplicationResponse(a *models.JobApplication) ApplicationResponse {
	return ApplicationResponse{
		ID:                a.ID,
		JobID:             a.JobID,
		FreelancerID:      a.FreelancerID,
		Proposal:          a.Proposal,
		ExpectedBudget:    a.ExpectedBudget,
		FreelancerContact: a.FreelancerContact,
		Status:            a.Status,
		CreatedAt:         a.CreatedAt,
		Job:               toJobResponse(a.Job),
		Freelancer:        toUserSummary(a.Freelancer),
	}
}

func toApplicationList(apps []models.JobApplication) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, toApplicationResponse(&apps[i]))
	}
	return out
}

func toSavedJobList(rows []models.SavedJob) []SavedJobResponse {
	out := make([]SavedJobResponse, 0, len(rows))
	for i := range rows {
		out = append(out, SavedJobResponse{
			ID:        rows[i].ID,
			JobID:     rows[i].JobID,
			CreatedAt: rows[i].CreatedAt,
			Job:       toJobResponse(rows[i].Job),
		})
	}
	return out
}
