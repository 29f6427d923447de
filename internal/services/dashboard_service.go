package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/models"
)

type DashboardService struct {
	DB *gorm.DB
}

func NewDashboardService(gdb *gorm.DB) *DashboardService {
	return &DashboardService{DB: gdb}
}

type FreelancerStats struct {
	Applications int64 `json:"applications"`
	Pending      int64 `json:"pending"`
	Hired        int64 `json:"hired"`
	Rejected     int64 `json:"rejected"`
	SavedJobs    int64 `json:"saved_jobs"`
	Skills       int64 `json:"skills"`
	Projects     int64 `json:"projects"`
}

type ClientStats struct {
	Jobs               int64 `json:"jobs"`
	OpenJobs           int64 `json:"open_jobs"`
	ClosedJobs         int64 `json:"closed_jobs"`
	Applications       int64 `json:"applications_received"`
	PendingApplication int64 `json:"pending_applications"`
}

type statusCount struct {
	Status string
	N      int64
}

func (s *DashboardService) Freelancer(ctx context.Context, userID uuid.UUID) (*FreelancerStats, error) {
	const op = "DashboardService.Freelancer"
	db := s.DB.WithContext(ctx)

	var rows []statusCount
	if err := db.Model(&models.JobApplication{}).
		Select("status, COUNT(*) AS n").
		Where("freelancer_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, internal(op, err)
	}

	out := &FreelancerStats{}
	for _, r := range rows {
		out.Applications += r.N
		switch models.ApplicationStatus(r.Status) {
		case models.ApplicationPending:
			out.Pending = r.N
		case models.ApplicationHired:
			out.Hired = r.N
		case models.ApplicationRejected:
			out.Rejected = r.N
		}
	}

	if err := db.Model(&models.SavedJob{}).Where("freelancer_id = ?", userID).Count(&out.SavedJobs).Error; err != nil {
		return nil, internal(op, err)
	}
	if err := db.Model(&models.Skill{}).Where("user_id = ?", userID).Count(&out.Skills).Error; err != nil {
		return nil, internal(op, err)
	}
	if err := db.Model(&models.Project{}).
		Joins("JOIN skills ON skills.id = projects.skill_id").
		Where("skills.user_id = ?", userID).
		Count(&out.Projects).Error; err != nil {
		return nil, internal(op, err)
	}
	return out, nil
}

func (s *DashboardService) Client(ctx context.Context, userID uuid.UUID) (*ClientStats, error) {
	const op = "DashboardService.Client"
	db := s.DB.WithContext(ctx)

	var rows []statusCount
	if err := db.Model(&models.Job{}).
		Select("status, COUNT(*) AS n").
		Where("client_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, internal(op, err)
	}

	out := &ClientStats{}
	for _, r := range rows {
		out.Jobs += r.N
		switch models.JobStatus(r.Status) {
		case models.JobStatusOpen:
			out.OpenJobs = r.N
		case models.JobStatusClosed:
			out.ClosedJobs = r.N
		}
	}

	apps := db.Model(&models.JobApplication{}).
		Joins("JOIN jobs ON jobs.id = job_applications.job_id").
		Where("jobs.client_id = ?", userID)
	if err := apps.Session(&gorm.Session{}).Count(&out.Applications).Error; err != nil {
		return nil, internal(op, err)
	}
	if err := apps.Session(&gorm.Session{}).
		Where("job_applications.status = ?", models.ApplicationPending).
		Count(&out.PendingApplication).Error; err != nil {
		return nil, internal(op, err)
	}
	return out, nil
}
