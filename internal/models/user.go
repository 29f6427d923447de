package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
)

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleFreelancer
}

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FirstName string    `gorm:"type:varchar(80);not null" json:"first_name"`
	LastName  string    `gorm:"type:varchar(80);not null" json:"last_name"`
	Email     string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"email"`

	Password string         `gorm:"not null" json:"-"`
	Roles    pq.StringArray `gorm:"type:text[];not null" json:"roles"`
	IsActive bool           `gorm:"default:true" json:"is_active"`

	Bio            string `gorm:"type:text" json:"bio"`
	ProfilePicture string `gorm:"type:text" json:"profile_picture"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ContactMethod *ContactMethod `gorm:"foreignKey:UserID;references:ID" json:"contact_method,omitempty"`
}

func (u *User) HasRole(r Role) bool {
	return slices.Contains([]string(u.Roles), string(r))
}

// PrimaryRole is the role a fresh login starts in.
func (u *User) PrimaryRole() Role {
	if len(u.Roles) == 0 {
		return RoleClient
	}
	return Role(u.Roles[0])
}

// ContactMethod is one-to-one with User.
type ContactMethod struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Whatsapp string    `gorm:"type:varchar(30)" json:"whatsapp"`
	Email    string    `gorm:"type:varchar(150)" json:"email"`
	Linkedin string    `gorm:"type:text" json:"linkedin"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
