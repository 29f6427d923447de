package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/db"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/models"
)

type SavedJobService struct {
	DB *gorm.DB
}

func NewSavedJobService(gdb *gorm.DB) *SavedJobService {
	return &SavedJobService{DB: gdb}
}

// Toggle saves the job when it is not saved and unsaves it otherwise.
// It reports whether the job ends up saved.
func (s *SavedJobService) Toggle(ctx context.Context, freelancerID, jobID uuid.UUID) (bool, error) {
	const op = "SavedJobService.Toggle"

	var job models.Job
	if err := s.DB.WithContext(ctx).Select("id").First(&job, "id = ?", jobID).Error; err != nil {
		return false, dbErr(op, "job not found", err)
	}

	res := s.DB.WithContext(ctx).
		Where("freelancer_id = ? AND job_id = ?", freelancerID, jobID).
		Delete(&models.SavedJob{})
	if res.Error != nil {
		return false, internal(op, res.Error)
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	row := models.SavedJob{FreelancerID: freelancerID, JobID: jobID}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		// a concurrent toggle inserted the same row first
		if db.IsUniqueViolation(err) {
			return true, nil
		}
		return false, internal(op, err)
	}
	return true, nil
}

func (s *SavedJobService) List(ctx context.Context, freelancerID uuid.UUID) ([]models.SavedJob, error) {
	rows := []models.SavedJob{}
	err := s.DB.WithContext(ctx).
		Preload("Job").
		Where("freelancer_id = ?", freelancerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, internal("SavedJobService.List", err)
	}
	return rows, nil
}

// Remove is idempotent.
func (s *SavedJobService) Remove(ctx context.Context, freelancerID, jobID uuid.UUID) error {
	err := s.DB.WithContext(ctx).
		Where("freelancer_id = ? AND job_id = ?", freelancerID, jobID).
		Delete(&models.SavedJob{}).Error
	if err != nil {
		return internal("SavedJobService.Remove", err)
	}
	return nil
}
