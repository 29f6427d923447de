package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/utils"
)

type ProjectService struct {
	DB *gorm.DB
}

func NewProjectService(gdb *gorm.DB) *ProjectService {
	return &ProjectService{DB: gdb}
}

type ProjectInput struct {
	SkillID         string `json:"skill_id" validate:"required,uuid"`
	Title           string `json:"title" validate:"required,max=150"`
	Description     string `json:"description" validate:"max=5000"`
	MediaURL        string `json:"media_url" validate:"omitempty,url"`
	PriceMin        int64  `json:"price_min" validate:"gte=0"`
	PriceMax        int64  `json:"price_max" validate:"gte=0,gtefield=PriceMin"`
	ContactMethodID string `json:"contact_method_id" validate:"omitempty,uuid"`
}

// ProjectUpdateInput has no skill_id; projects do not move between skills.
type ProjectUpdateInput struct {
	Title           string `json:"title" validate:"required,max=150"`
	Description     string `json:"description" validate:"max=5000"`
	MediaURL        string `json:"media_url" validate:"omitempty,url"`
	PriceMin        int64  `json:"price_min" validate:"gte=0"`
	PriceMax        int64  `json:"price_max" validate:"gte=0,gtefield=PriceMin"`
	ContactMethodID string `json:"contact_method_id" validate:"omitempty,uuid"`
}

type ownedProject struct {
	models.Project
	OwnerID uuid.UUID
}

func (s *ProjectService) Create(ctx context.Context, userID uuid.UUID, in ProjectInput) (*models.Project, error) {
	const op = "ProjectService.Create"

	in.Title = strings.TrimSpace(in.Title)
	in.MediaURL = strings.TrimSpace(in.MediaURL)
	if err := validate(op, in); err != nil {
		return nil, err
	}

	var sk models.Skill
	if err := s.DB.WithContext(ctx).First(&sk, "id = ?", in.SkillID).Error; err != nil {
		return nil, dbErr(op, "skill not found", err)
	}
	if sk.UserID != userID {
		return nil, utils.E(utils.CodeForbidden, op, "you do not own this skill", nil)
	}

	contactID, err := s.contactFor(ctx, op, userID, in.ContactMethodID)
	if err != nil {
		return nil, err
	}

	p := models.Project{
		SkillID:         sk.ID,
		Title:           in.Title,
		Description:     strings.TrimSpace(in.Description),
		MediaURL:        in.MediaURL,
		PriceMin:        in.PriceMin,
		PriceMax:        in.PriceMax,
		ContactMethodID: contactID,
	}
	if err := s.DB.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, internal(op, err)
	}
	return &p, nil
}

func (s *ProjectService) ListBySkill(ctx context.Context, skillID uuid.UUID) ([]models.Project, error) {
	const op = "ProjectService.ListBySkill"

	var sk models.Skill
	if err := s.DB.WithContext(ctx).Select("id").First(&sk, "id = ?", skillID).Error; err != nil {
		return nil, dbErr(op, "skill not found", err)
	}

	projects := []models.Project{}
	err := s.DB.WithContext(ctx).
		Preload("ContactMethod").
		Where("skill_id = ?", skillID).
		Order("created_at ASC").
		Find(&projects).Error
	if err != nil {
		return nil, internal(op, err)
	}
	return projects, nil
}

func (s *ProjectService) Update(ctx context.Context, userID, id uuid.UUID, in ProjectUpdateInput) (*models.Project, error) {
	const op = "ProjectService.Update"

	p, err := s.owned(ctx, op, userID, id)
	if err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	in.MediaURL = strings.TrimSpace(in.MediaURL)
	if err := validate(op, in); err != nil {
		return nil, err
	}

	contactID := p.ContactMethodID
	if in.ContactMethodID != "" {
		if contactID, err = s.contactFor(ctx, op, userID, in.ContactMethodID); err != nil {
			return nil, err
		}
	}

	if err := s.DB.WithContext(ctx).Model(&p.Project).Updates(map[string]any{
		"title":             in.Title,
		"description":       strings.TrimSpace(in.Description),
		"media_url":         in.MediaURL,
		"price_min":         in.PriceMin,
		"price_max":         in.PriceMax,
		"contact_method_id": contactID,
	}).Error; err != nil {
		return nil, internal(op, err)
	}

	var out models.Project
	if err := s.DB.WithContext(ctx).Preload("ContactMethod").First(&out, "id = ?", id).Error; err != nil {
		return nil, dbErr(op, "project not found", err)
	}
	return &out, nil
}

func (s *ProjectService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const op = "ProjectService.Delete"

	p, err := s.owned(ctx, op, userID, id)
	if err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Delete(&p.Project).Error; err != nil {
		return internal(op, err)
	}
	return nil
}

// CheckOwner reports NotFound or Forbidden unless userID owns the project.
func (s *ProjectService) CheckOwner(ctx context.Context, userID, id uuid.UUID) error {
	_, err := s.owned(ctx, "ProjectService.CheckOwner", userID, id)
	return err
}

// owned loads a project with its owner resolved through the parent skill.
func (s *ProjectService) owned(ctx context.Context, op string, userID, id uuid.UUID) (*ownedProject, error) {
	var p ownedProject
	err := s.DB.WithContext(ctx).
		Model(&models.Project{}).
		Select("projects.*, skills.user_id AS owner_id").
		Joins("JOIN skills ON skills.id = projects.skill_id").
		Where("projects.id = ?", id).
		Take(&p).Error
	if err != nil {
		return nil, dbErr(op, "project not found", err)
	}
	if p.OwnerID != userID {
		return nil, utils.E(utils.CodeForbidden, op, "you do not own this project", nil)
	}
	return &p, nil
}

// contactFor resolves the contact method a project points at. An explicit id
// must belong to the caller; otherwise the caller's own row is used when present.
func (s *ProjectService) contactFor(ctx context.Context, op string, userID uuid.UUID, raw string) (*uuid.UUID, error) {
	var cm models.ContactMethod
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if raw != "" {
		q = q.Where("id = ?", raw)
	}
	err := q.First(&cm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if raw != "" {
			return nil, utils.E(utils.CodeForbidden, op, "contact method does not belong to you", nil)
		}
		return nil, nil
	}
	if err != nil {
		return nil, internal(op, err)
	}
	return &cm.ID, nil
}
