package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/utils"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{DB: gdb}
}

type ContactInput struct {
	Whatsapp string `json:"whatsapp" validate:"max=30"`
	Email    string `json:"email" validate:"omitempty,email,max=150"`
	Linkedin string `json:"linkedin" validate:"omitempty,url"`
}

func (in *ContactInput) trim() {
	in.Whatsapp = strings.TrimSpace(in.Whatsapp)
	in.Email = strings.TrimSpace(in.Email)
	in.Linkedin = strings.TrimSpace(in.Linkedin)
}

// UserUpdateInput is a partial update: nil fields are left alone.
type UserUpdateInput struct {
	FirstName      *string       `json:"first_name" validate:"omitempty,min=1,max=80"`
	LastName       *string       `json:"last_name" validate:"omitempty,min=1,max=80"`
	Bio            *string       `json:"bio" validate:"omitempty,max=2000"`
	ProfilePicture *string       `json:"profile_picture" validate:"omitempty,url"`
	Roles          *[]string     `json:"roles" validate:"omitempty,min=1,dive,oneof=client freelancer"`
	Contact        *ContactInput `json:"contact"`
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Preload("ContactMethod").First(&u, "id = ?", id).Error; err != nil {
		return nil, dbErr("UserService.Get", "user not found", err)
	}
	return &u, nil
}

// Update changes the caller's own profile and contact method in one transaction.
func (s *UserService) Update(ctx context.Context, callerID, id uuid.UUID, in UserUpdateInput) (*models.User, error) {
	const op = "UserService.Update"

	if err := checkSelf(op, callerID, id); err != nil {
		return nil, err
	}
	if in.Contact != nil {
		in.Contact.trim()
	}
	if err := validate(op, in); err != nil {
		return nil, err
	}
	// a wrongly typed roles value decodes to a non-nil pointer to a nil slice
	if in.Roles != nil && len(*in.Roles) == 0 {
		return nil, utils.Invalid(op, utils.FieldErrors{"roles": {"roles must contain at least one role"}})
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Select("id").First(&u, "id = ?", id).Error; err != nil {
			return dbErr(op, "user not found", err)
		}

		fields := map[string]any{}
		if in.FirstName != nil {
			fields["first_name"] = strings.TrimSpace(*in.FirstName)
		}
		if in.LastName != nil {
			fields["last_name"] = strings.TrimSpace(*in.LastName)
		}
		if in.Bio != nil {
			fields["bio"] = strings.TrimSpace(*in.Bio)
		}
		if in.ProfilePicture != nil {
			fields["profile_picture"] = strings.TrimSpace(*in.ProfilePicture)
		}
		if in.Roles != nil {
			fields["roles"] = pq.StringArray(dedupe(*in.Roles))
		}
		if len(fields) > 0 {
			if err := tx.Model(&u).Updates(fields).Error; err != nil {
				return internal(op, err)
			}
		}

		if in.Contact != nil {
			if _, err := upsertContact(tx, id, *in.Contact); err != nil {
				return internal(op, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// CheckSelf reports Forbidden unless the caller is editing their own profile.
func (s *UserService) CheckSelf(callerID, id uuid.UUID) error {
	return checkSelf("UserService.CheckSelf", callerID, id)
}

func checkSelf(op string, callerID, id uuid.UUID) error {
	if callerID != id {
		return utils.E(utils.CodeForbidden, op, "you can only update your own profile", nil)
	}
	return nil
}

// UpsertContact creates or replaces the caller's contact method.
func (s *UserService) UpsertContact(ctx context.Context, userID uuid.UUID, in ContactInput) (*models.ContactMethod, error) {
	const op = "UserService.UpsertContact"

	in.trim()
	if err := validate(op, in); err != nil {
		return nil, err
	}
	cm, err := upsertContact(s.DB.WithContext(ctx), userID, in)
	if err != nil {
		return nil, internal(op, err)
	}
	return cm, nil
}

func (s *UserService) GetContact(ctx context.Context, userID uuid.UUID) (*models.ContactMethod, error) {
	var cm models.ContactMethod
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cm).Error; err != nil {
		return nil, dbErr("UserService.GetContact", "contact method not found", err)
	}
	return &cm, nil
}

func upsertContact(tx *gorm.DB, userID uuid.UUID, in ContactInput) (*models.ContactMethod, error) {
	cm := models.ContactMethod{
		UserID:   userID,
		Whatsapp: in.Whatsapp,
		Email:    in.Email,
		Linkedin: in.Linkedin,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"whatsapp", "email", "linkedin", "updated_at"}),
	}).Create(&cm).Error
	if err != nil {
		return nil, err
	}
	// reload so an existing row reports its original created_at
	if err := tx.Where("user_id = ?", userID).First(&cm).Error; err != nil {
		return nil, err
	}
	return &cm, nil
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, r := range in {
		r = strings.ToLower(strings.TrimSpace(r))
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}
