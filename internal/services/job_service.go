package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/cache"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/utils"
)

const boardVersionKey = "jobs:board:version"

type JobService struct {
	DB       *gorm.DB
	Cache    cache.Cache
	CacheTTL time.Duration
}

func NewJobService(gdb *gorm.DB, c cache.Cache, ttl time.Duration) *JobService {
	if c == nil {
		c = cache.Nop{}
	}
	return &JobService{DB: gdb, Cache: c, CacheTTL: ttl}
}

type JobInput struct {
	Title       string `json:"title" validate:"required,min=5,max=150"`
	Description string `json:"description" validate:"required,min=20"`
	Budget      int64  `json:"budget" validate:"gt=0"`
	Category    string `json:"category" validate:"required,max=80"`
	Deadline    string `json:"deadline" validate:"required,futuredate"`
}

func (in *JobInput) trim() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Deadline = strings.TrimSpace(in.Deadline)
}

type JobFilter struct {
	Q         string `query:"q" json:"q"`
	Category  string `query:"category" json:"category"`
	MinBudget int64  `query:"min_budget" json:"min_budget" validate:"gte=0"`
	MaxBudget int64  `query:"max_budget" json:"max_budget" validate:"gte=0"`
	Sort      string `query:"sort" json:"sort" validate:"omitempty,oneof=latest budget_low budget_high"`
	Page      int    `query:"page" json:"page"`
	Limit     int    `query:"limit" json:"limit"`
}

type JobPage struct {
	Items []models.Job `json:"items"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
	Total int64        `json:"total"`
}

func (s *JobService) Create(ctx context.Context, clientID uuid.UUID, in JobInput) (*models.Job, error) {
	const op = "JobService.Create"

	in.trim()
	if err := validate(op, in); err != nil {
		return nil, err
	}
	deadline, _ := time.Parse(utils.DateLayout, in.Deadline)

	job := models.Job{
		ClientID:    clientID,
		Title:       in.Title,
		Description: in.Description,
		Budget:      in.Budget,
		Category:    in.Category,
		Deadline:    datatypes.Date(deadline),
		Status:      models.JobStatusOpen,
	}
	if err := s.DB.WithContext(ctx).Create(&job).Error; err != nil {
		return nil, internal(op, err)
	}
	s.InvalidateBoard(ctx)
	return &job, nil
}

// ListOpen serves the public job board. Pages are cached under the current
// board version; any job write bumps the version.
func (s *JobService) ListOpen(ctx context.Context, f JobFilter) (*JobPage, error) {
	const op = "JobService.ListOpen"

	f.Q = strings.TrimSpace(f.Q)
	f.Category = strings.TrimSpace(f.Category)
	if f.Sort == "" {
		f.Sort = "latest"
	}
	f.Page, f.Limit = normalizePage(f.Page, f.Limit)
	if err := validate(op, f); err != nil {
		return nil, err
	}
	if f.MaxBudget > 0 && f.MinBudget > f.MaxBudget {
		return nil, utils.Invalid(op, utils.FieldErrors{"max_budget": {"max_budget must not be less than min_budget"}})
	}

	key := s.boardKey(ctx, f)
	var page JobPage
	if hit, err := s.Cache.GetJSON(ctx, key, &page); err == nil && hit {
		return &page, nil
	}

	filter := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("status = ?", models.JobStatusOpen)
		if f.Q != "" {
			like := "%" + escapeLike(f.Q) + "%"
			tx = tx.Where("(title ILIKE ? OR description ILIKE ?)", like, like)
		}
		if f.Category != "" {
			tx = tx.Where("LOWER(category) = LOWER(?)", f.Category)
		}
		if f.MinBudget > 0 {
			tx = tx.Where("budget >= ?", f.MinBudget)
		}
		if f.MaxBudget > 0 {
			tx = tx.Where("budget <= ?", f.MaxBudget)
		}
		return tx
	}

	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.Job{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, internal(op, err)
	}

	items := []models.Job{}
	err := s.DB.WithContext(ctx).
		Scopes(filter).
		Preload("Client").
		Order(sortClause(f.Sort)).
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&items).Error
	if err != nil {
		return nil, internal(op, err)
	}

	page = JobPage{Items: items, Page: f.Page, Limit: f.Limit, Total: total}
	_ = s.Cache.SetJSON(ctx, key, page, s.CacheTTL)
	return &page, nil
}

func (s *JobService) ListMine(ctx context.Context, clientID uuid.UUID) ([]models.Job, error) {
	jobs := []models.Job{}
	if err := s.DB.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&jobs).Error; err != nil {
		return nil, internal("JobService.ListMine", err)
	}
	return jobs, nil
}

func (s *JobService) Get(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := s.DB.WithContext(ctx).Preload("Client").First(&job, "id = ?", id).Error; err != nil {
		return nil, dbErr("JobService.Get", "job not found", err)
	}
	return &job, nil
}

// Update replaces the editable fields of an open job. Ownership is checked
// before the payload is looked at.
func (s *JobService) Update(ctx context.Context, clientID, id uuid.UUID, in JobInput) (*models.Job, error) {
	const op = "JobService.Update"

	job, err := s.owned(ctx, op, clientID, id)
	if err != nil {
		return nil, err
	}
	if job.Status == models.JobStatusClosed {
		return nil, utils.E(utils.CodeConflict, op, "closed jobs cannot be edited", nil)
	}

	in.trim()
	if err := validate(op, in); err != nil {
		return nil, err
	}
	deadline, _ := time.Parse(utils.DateLayout, in.Deadline)

	res := s.DB.WithContext(ctx).
		Model(job).
		Where("status = ?", models.JobStatusOpen).
		Updates(map[string]any{
			"title":       in.Title,
			"description": in.Description,
			"budget":      in.Budget,
			"category":    in.Category,
			"deadline":    datatypes.Date(deadline),
		})
	if res.Error != nil {
		return nil, internal(op, res.Error)
	}
	if res.RowsAffected == 0 {
		// closed by a hire between the read and the write
		return nil, utils.E(utils.CodeConflict, op, "closed jobs cannot be edited", nil)
	}
	s.InvalidateBoard(ctx)
	return s.Get(ctx, id)
}

// CheckOwner reports NotFound or Forbidden unless clientID owns the job.
func (s *JobService) CheckOwner(ctx context.Context, clientID, id uuid.UUID) error {
	_, err := s.owned(ctx, "JobService.CheckOwner", clientID, id)
	return err
}

func (s *JobService) owned(ctx context.Context, op string, clientID, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := s.DB.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, dbErr(op, "job not found", err)
	}
	if job.ClientID != clientID {
		return nil, utils.E(utils.CodeForbidden, op, "you do not own this job", nil)
	}
	return &job, nil
}

// Delete removes the job with its applications and saved-job rows.
func (s *JobService) Delete(ctx context.Context, clientID, id uuid.UUID) error {
	const op = "JobService.Delete"

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&job, "id = ?", id).Error; err != nil {
			return dbErr(op, "job not found", err)
		}
		if job.ClientID != clientID {
			return utils.E(utils.CodeForbidden, op, "you do not own this job", nil)
		}
		if err := tx.Where("job_id = ?", id).Delete(&models.SavedJob{}).Error; err != nil {
			return internal(op, err)
		}
		if err := tx.Where("job_id = ?", id).Delete(&models.JobApplication{}).Error; err != nil {
			return internal(op, err)
		}
		if err := tx.Delete(&job).Error; err != nil {
			return internal(op, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.InvalidateBoard(ctx)
	return nil
}

// InvalidateBoard drops every cached board page by moving to a new version.
func (s *JobService) InvalidateBoard(ctx context.Context) {
	_, _ = s.Cache.Incr(ctx, boardVersionKey)
}

func (s *JobService) boardKey(ctx context.Context, f JobFilter) string {
	ver, err := s.Cache.Get(ctx, boardVersionKey)
	if err != nil || ver == "" {
		ver = "0"
	}
	raw, _ := json.Marshal(f)
	sum := sha1.Sum(raw)
	return "jobs:board:v" + ver + ":" + hex.EncodeToString(sum[:])
}

func sortClause(sort string) string {
	switch sort {
	case "budget_low":
		return "budget ASC, created_at DESC"
	case "budget_high":
		return "budget DESC, created_at DESC"
	default:
		return "created_at DESC"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Categories lists the distinct categories of open jobs.
func (s *JobService) Categories(ctx context.Context) ([]string, error) {
	categories := []string{}
	err := s.DB.WithContext(ctx).
		Model(&models.Job{}).
		Where("status = ?", models.JobStatusOpen).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, internal("JobService.Categories", err)
	}
	return categories, nil
}
