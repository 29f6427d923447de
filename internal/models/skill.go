package models

import (
	"time"

	"github.com/google/uuid"
)

type Skill struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Projects []Project `gorm:"foreignKey:SkillID" json:"projects,omitempty"`
}

// Project is a portfolio item under a skill. Its owner is the skill's user.
type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SkillID     uuid.UUID `gorm:"type:uuid;not null;index" json:"skill_id"`
	Title       string    `gorm:"type:varchar(150);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	MediaURL    string    `gorm:"type:text" json:"media_url"`
	PriceMin    int64     `gorm:"not null;default:0" json:"price_min"`
	PriceMax    int64     `gorm:"not null;default:0" json:"price_max"`

	ContactMethodID *uuid.UUID `gorm:"type:uuid;index" json:"contact_method_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ContactMethod *ContactMethod `gorm:"foreignKey:ContactMethodID" json:"contact_method,omitempty"`
}
