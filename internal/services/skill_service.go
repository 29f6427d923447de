package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/utils"
)

type SkillService struct {
	DB *gorm.DB
}

func NewSkillService(gdb *gorm.DB) *SkillService {
	return &SkillService{DB: gdb}
}

type SkillInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=2000"`
}

func (s *SkillService) Create(ctx context.Context, userID uuid.UUID, in SkillInput) (*models.Skill, error) {
	const op = "SkillService.Create"

	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := validate(op, in); err != nil {
		return nil, err
	}

	sk := models.Skill{UserID: userID, Name: in.Name, Description: in.Description}
	if err := s.DB.WithContext(ctx).Create(&sk).Error; err != nil {
		return nil, internal(op, err)
	}
	return &sk, nil
}

// ListByUser returns a user's skills with their projects.
func (s *SkillService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Skill, error) {
	skills := []models.Skill{}
	err := s.DB.WithContext(ctx).
		Preload("Projects", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at ASC") }).
		Preload("Projects.ContactMethod").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&skills).Error
	if err != nil {
		return nil, internal("SkillService.ListByUser", err)
	}
	return skills, nil
}

func (s *SkillService) Update(ctx context.Context, userID, id uuid.UUID, in SkillInput) (*models.Skill, error) {
	const op = "SkillService.Update"

	sk, err := s.owned(ctx, s.DB, op, userID, id)
	if err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := validate(op, in); err != nil {
		return nil, err
	}

	if err := s.DB.WithContext(ctx).Model(sk).Updates(map[string]any{
		"name":        in.Name,
		"description": in.Description,
	}).Error; err != nil {
		return nil, internal(op, err)
	}
	sk.Name, sk.Description = in.Name, in.Description
	return sk, nil
}

// Delete removes the skill and every project under it.
func (s *SkillService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const op = "SkillService.Delete"

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sk, err := s.owned(ctx, tx.Clauses(clause.Locking{Strength: "UPDATE"}), op, userID, id)
		if err != nil {
			return err
		}
		if err := tx.Where("skill_id = ?", sk.ID).Delete(&models.Project{}).Error; err != nil {
			return internal(op, err)
		}
		if err := tx.Delete(sk).Error; err != nil {
			return internal(op, err)
		}
		return nil
	})
}

// CheckOwner reports NotFound or Forbidden unless userID owns the skill.
func (s *SkillService) CheckOwner(ctx context.Context, userID, id uuid.UUID) error {
	_, err := s.owned(ctx, s.DB, "SkillService.CheckOwner", userID, id)
	return err
}

func (s *SkillService) owned(ctx context.Context, tx *gorm.DB, op string, userID, id uuid.UUID) (*models.Skill, error) {
	var sk models.Skill
	if err := tx.WithContext(ctx).First(&sk, "id = ?", id).Error; err != nil {
		return nil, dbErr(op, "skill not found", err)
	}
	if sk.UserID != userID {
		return nil, utils.E(utils.CodeForbidden, op, "you do not own this skill", nil)
	}
	return &sk, nil
}
