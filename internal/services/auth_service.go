package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/db"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/models"
	"github.com/Windi-Fikriyansyah/gigboard_be/internal/utils"
)

const invalidCredentials = "invalid email or password"

type AuthService struct {
	DB         *gorm.DB
	JWTSecret  string
	ExpiresMin int
	BcryptCost int
}

func NewAuthService(gdb *gorm.DB, secret string, expiresMin, bcryptCost int) *AuthService {
	return &AuthService{DB: gdb, JWTSecret: secret, ExpiresMin: expiresMin, BcryptCost: bcryptCost}
}

type RegisterInput struct {
	FirstName      string `json:"first_name" validate:"required,max=80"`
	LastName       string `json:"last_name" validate:"required,max=80"`
	Email          string `json:"email" validate:"required,email,max=150"`
	Password       string `json:"password" validate:"required,min=6,max=72"`
	Role           string `json:"role" validate:"required,oneof=client freelancer"`
	Bio            string `json:"bio" validate:"max=2000"`
	ProfilePicture string `json:"profile_picture" validate:"omitempty,url"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	// Role optionally picks the active role; it must be one the user holds.
	Role string `json:"role" validate:"omitempty,oneof=client freelancer"`
}

type AuthResult struct {
	Token string       `json:"token"`
	Role  models.Role  `json:"role"`
	User  *models.User `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	const op = "AuthService.Register"

	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	if err := validate(op, in); err != nil {
		return nil, err
	}

	pw, err := utils.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to process password", err)
	}

	u := models.User{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Password:       pw,
		Roles:          pq.StringArray{in.Role},
		IsActive:       true,
		Bio:            strings.TrimSpace(in.Bio),
		ProfilePicture: strings.TrimSpace(in.ProfilePicture),
	}
	if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return nil, &utils.AppError{
				Code:    utils.CodeConflict,
				Op:      op,
				Message: "email is already registered",
				Err:     err,
				Fields:  utils.FieldErrors{"email": {"email is already registered"}},
			}
		}
		return nil, internal(op, err)
	}
	return &u, nil
}

// Login never tells a missing account apart from a wrong password.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	const op = "AuthService.Login"

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validate(op, in); err != nil {
		return nil, err
	}

	var u models.User
	err := s.DB.WithContext(ctx).Where("email = ?", in.Email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.E(utils.CodeUnauthorized, op, invalidCredentials, nil)
	}
	if err != nil {
		return nil, internal(op, err)
	}
	if !utils.CheckPassword(u.Password, in.Password) {
		return nil, utils.E(utils.CodeUnauthorized, op, invalidCredentials, nil)
	}
	if !u.IsActive {
		return nil, utils.E(utils.CodeForbidden, op, "account is inactive", nil)
	}

	role := u.PrimaryRole()
	if in.Role != "" {
		if !u.HasRole(models.Role(in.Role)) {
			return nil, utils.E(utils.CodeForbidden, op, "you do not have the "+in.Role+" role", nil)
		}
		role = models.Role(in.Role)
	}
	return s.issue(op, &u, role)
}

// SwitchRole re-issues the caller's token with another role they hold.
func (s *AuthService) SwitchRole(ctx context.Context, userID uuid.UUID, role string) (*AuthResult, error) {
	const op = "AuthService.SwitchRole"

	r := models.Role(strings.ToLower(strings.TrimSpace(role)))
	if !r.Valid() {
		return nil, utils.Invalid(op, utils.FieldErrors{"role": {"role must be one of: client, freelancer"}})
	}

	u, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, utils.E(utils.CodeForbidden, op, "account is inactive", nil)
	}
	if !u.HasRole(r) {
		return nil, utils.E(utils.CodeForbidden, op, "you do not have the "+string(r)+" role", nil)
	}
	return s.issue(op, u, r)
}

func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	const op = "AuthService.CurrentUser"

	var u models.User
	if err := s.DB.WithContext(ctx).Preload("ContactMethod").First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.E(utils.CodeUnauthorized, op, "user not found", err)
		}
		return nil, internal(op, err)
	}
	return &u, nil
}

// HeldRoles returns the roles currently stored for an active user. Tokens keep
// the roles from when they were issued; role gates check against this instead.
func (s *AuthService) HeldRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	const op = "AuthService.HeldRoles"

	var u models.User
	if err := s.DB.WithContext(ctx).Select("id", "roles", "is_active").First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.E(utils.CodeUnauthorized, op, "user not found", err)
		}
		return nil, internal(op, err)
	}
	if !u.IsActive {
		return nil, utils.E(utils.CodeForbidden, op, "account is inactive", nil)
	}
	return []string(u.Roles), nil
}

// LoginWithGoogle finds the user by verified email or creates a client account.
func (s *AuthService) LoginWithGoogle(ctx context.Context, email, firstName, lastName, picture string) (*AuthResult, error) {
	const op = "AuthService.LoginWithGoogle"

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "google account has no email", nil)
	}

	var u models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		pw, err := utils.HashPassword(randomSecret(24), s.BcryptCost)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to process password", err)
		}
		if strings.TrimSpace(firstName) == "" {
			firstName = strings.SplitN(email, "@", 2)[0]
		}
		u = models.User{
			FirstName:      firstName,
			LastName:       lastName,
			Email:          email,
			Password:       pw,
			Roles:          pq.StringArray{string(models.RoleClient)},
			IsActive:       true,
			ProfilePicture: picture,
		}
		if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
			return nil, internal(op, err)
		}
	} else if err != nil {
		return nil, internal(op, err)
	}

	if !u.IsActive {
		return nil, utils.E(utils.CodeForbidden, op, "account is inactive", nil)
	}
	return s.issue(op, &u, u.PrimaryRole())
}

func (s *AuthService) issue(op string, u *models.User, role models.Role) (*AuthResult, error) {
	token, err := utils.SignJWT(s.JWTSecret, u.ID.String(), u.Email, string(role), []string(u.Roles), s.ExpiresMin)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create token", err)
	}
	return &AuthResult{Token: token, Role: role, User: u}, nil
}

func randomSecret(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
