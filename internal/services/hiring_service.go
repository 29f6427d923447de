package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/db"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/utils"
)

const alreadyApplied = "you have already applied to this job"

// HiringService owns the application lifecycle: pending -> hired | rejected.
type HiringService struct {
	DB       *gorm.DB
	Jobs     *JobService
	Notifier Notifier
}

func NewHiringService(gdb *gorm.DB, jobs *JobService, n Notifier) *HiringService {
	if n == nil {
		n = NopNotifier{}
	}
	return &HiringService{DB: gdb, Jobs: jobs, Notifier: n}
}

type ApplyInput struct {
	JobID             string `json:"job_id" validate:"required,uuid"`
	Proposal          string `json:"proposal" validate:"required,min=20"`
	ExpectedBudget    int64  `json:"expected_budget" validate:"gt=0"`
	FreelancerContact string `json:"freelancer_contact" validate:"required,max=150"`
}

type HireResult struct {
	Application models.JobApplication `json:"application"`
	JobID       uuid.UUID             `json:"job_id"`
	JobStatus   models.JobStatus      `json:"job_status"`
	Rejected    int64                 `json:"rejected_count"`
}

type ApplicationStatusView struct {
	JobID         uuid.UUID                `json:"job_id"`
	ApplicationID uuid.UUID                `json:"application_id"`
	Status        models.ApplicationStatus `json:"status"`
}

func (s *HiringService) Apply(ctx context.Context, freelancerID uuid.UUID, in ApplyInput) (*models.JobApplication, error) {
	const op = "HiringService.Apply"

	in.Proposal = strings.TrimSpace(in.Proposal)
	in.FreelancerContact = strings.TrimSpace(in.FreelancerContact)
	if err := validate(op, in); err != nil {
		return nil, err
	}
	jobID := uuid.MustParse(in.JobID)

	var (
		job models.Job
		app models.JobApplication
	)
	// FOR SHARE on the job row waits out a running hire, which holds FOR UPDATE,
	// so a pending application can never land on a job that was just closed.
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).First(&job, "id = ?", jobID).Error; err != nil {
			return dbErr(op, "job not found", err)
		}
		if job.ClientID == freelancerID {
			return utils.E(utils.CodeForbidden, op, "you cannot apply to your own job", nil)
		}
		if job.Status != models.JobStatusOpen {
			return utils.E(utils.CodeConflict, op, "job is closed", nil)
		}

		var n int64
		if err := tx.Model(&models.JobApplication{}).
			Where("job_id = ? AND freelancer_id = ?", jobID, freelancerID).
			Count(&n).Error; err != nil {
			return internal(op, err)
		}
		if n > 0 {
			return utils.E(utils.CodeConflict, op, alreadyApplied, nil)
		}

		app = models.JobApplication{
			JobID:             jobID,
			FreelancerID:      freelancerID,
			Proposal:          in.Proposal,
			ExpectedBudget:    in.ExpectedBudget,
			FreelancerContact: in.FreelancerContact,
			Status:            models.ApplicationPending,
		}
		if err := tx.Create(&app).Error; err != nil {
			if db.IsUniqueViolation(err) {
				return utils.E(utils.CodeConflict, op, alreadyApplied, err)
			}
			return internal(op, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Notify(ctx, job.ClientID, realtime.Event{
		Type: realtime.EventApplicationReceived,
		Data: map[string]any{"job_id": job.ID, "application_id": app.ID, "job_title": job.Title},
	})
	return &app, nil
}

// Hire marks one application hired, rejects its siblings and closes the job,
// all under a lock on the job row.
func (s *HiringService) Hire(ctx context.Context, clientID, applicationID uuid.UUID) (*HireResult, error) {
	const op = "HiringService.Hire"

	var (
		res      HireResult
		job      models.Job
		rejected []uuid.UUID
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var app models.JobApplication
		if err := tx.First(&app, "id = ?", applicationID).Error; err != nil {
			return dbErr(op, "application not found", err)
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&job, "id = ?", app.JobID).Error; err != nil {
			return dbErr(op, "job not found", err)
		}
		if job.ClientID != clientID {
			return utils.E(utils.CodeForbidden, op, "you do not own this job", nil)
		}

		// re-read under the lock
		if err := tx.First(&app, "id = ?", applicationID).Error; err != nil {
			return dbErr(op, "application not found", err)
		}
		var hired int64
		if err := tx.Model(&models.JobApplication{}).
			Where("job_id = ? AND status = ?", job.ID, models.ApplicationHired).
			Count(&hired).Error; err != nil {
			return internal(op, err)
		}
		if hired > 0 || job.Status == models.JobStatusClosed {
			return utils.E(utils.CodeConflict, op, "a freelancer has already been hired for this job", nil)
		}
		if app.Status != models.ApplicationPending {
			return utils.E(utils.CodeConflict, op, "application is already "+string(app.Status), nil)
		}

		if err := tx.Model(&app).Update("status", models.ApplicationHired).Error; err != nil {
			if db.IsUniqueViolation(err) {
				return utils.E(utils.CodeConflict, op, "a freelancer has already been hired for this job", err)
			}
			return internal(op, err)
		}

		if err := tx.Model(&models.JobApplication{}).
			Where("job_id = ? AND id <> ? AND status = ?", job.ID, app.ID, models.ApplicationPending).
			Pluck("freelancer_id", &rejected).Error; err != nil {
			return internal(op, err)
		}
		upd := tx.Model(&models.JobApplication{}).
			Where("job_id = ? AND id <> ? AND status = ?", job.ID, app.ID, models.ApplicationPending).
			Update("status", models.ApplicationRejected)
		if upd.Error != nil {
			return internal(op, upd.Error)
		}

		if err := tx.Model(&job).Update("status", models.JobStatusClosed).Error; err != nil {
			return internal(op, err)
		}

		app.Status = models.ApplicationHired
		res = HireResult{
			Application: app,
			JobID:       job.ID,
			JobStatus:   models.JobStatusClosed,
			Rejected:    upd.RowsAffected,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.Jobs != nil {
		s.Jobs.InvalidateBoard(ctx)
	}
	s.Notifier.Notify(ctx, res.Application.FreelancerID, realtime.Event{
		Type: realtime.EventApplicationHired,
		Data: map[string]any{"job_id": job.ID, "application_id": res.Application.ID, "job_title": job.Title},
	})
	for _, fid := range rejected {
		s.Notifier.Notify(ctx, fid, realtime.Event{
			Type: realtime.EventApplicationRejected,
			Data: map[string]any{"job_id": job.ID, "job_title": job.Title},
		})
	}
	return &res, nil
}

func (s *HiringService) Reject(ctx context.Context, clientID, applicationID uuid.UUID) (*models.JobApplication, error) {
	const op = "HiringService.Reject"

	var app models.JobApplication
	var job models.Job
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&app, "id = ?", applicationID).Error; err != nil {
			return dbErr(op, "application not found", err)
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&job, "id = ?", app.JobID).Error; err != nil {
			return dbErr(op, "job not found", err)
		}
		if job.ClientID != clientID {
			return utils.E(utils.CodeForbidden, op, "you do not own this job", nil)
		}
		if err := tx.First(&app, "id = ?", applicationID).Error; err != nil {
			return dbErr(op, "application not found", err)
		}
		if app.Status != models.ApplicationPending {
			return utils.E(utils.CodeConflict, op, "application is already "+string(app.Status), nil)
		}
		if err := tx.Model(&app).Update("status", models.ApplicationRejected).Error; err != nil {
			return internal(op, err)
		}
		app.Status = models.ApplicationRejected
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Notify(ctx, app.FreelancerID, realtime.Event{
		Type: realtime.EventApplicationRejected,
		Data: map[string]any{"job_id": job.ID, "application_id": app.ID, "job_title": job.Title},
	})
	return &app, nil
}

// Status reports the caller's own application on a job.
func (s *HiringService) Status(ctx context.Context, freelancerID, jobID uuid.UUID) (*ApplicationStatusView, error) {
	var app models.JobApplication
	err := s.DB.WithContext(ctx).
		Where("job_id = ? AND freelancer_id = ?", jobID, freelancerID).
		First(&app).Error
	if err != nil {
		return nil, dbErr("HiringService.Status", "you have not applied to this job", err)
	}
	return &ApplicationStatusView{JobID: app.JobID, ApplicationID: app.ID, Status: app.Status}, nil
}

// ListForJob returns every application on a job the caller owns.
func (s *HiringService) ListForJob(ctx context.Context, clientID, jobID uuid.UUID) ([]models.JobApplication, error) {
	const op = "HiringService.ListForJob"

	var job models.Job
	if err := s.DB.WithContext(ctx).Select("id", "client_id").First(&job, "id = ?", jobID).Error; err != nil {
		return nil, dbErr(op, "job not found", err)
	}
	if job.ClientID != clientID {
		return nil, utils.E(utils.CodeForbidden, op, "you do not own this job", nil)
	}

	apps := []models.JobApplication{}
	err := s.DB.WithContext(ctx).
		Preload("Freelancer").
		Preload("Freelancer.ContactMethod").
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&apps).Error
	if err != nil {
		return nil, internal(op, err)
	}
	return apps, nil
}

func (s *HiringService) ListMine(ctx context.Context, freelancerID uuid.UUID) ([]models.JobApplication, error) {
	apps := []models.JobApplication{}
	err := s.DB.WithContext(ctx).
		Preload("Job").
		Where("freelancer_id = ?", freelancerID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, internal("HiringService.ListMine", err)
	}
	return apps, nil
}
