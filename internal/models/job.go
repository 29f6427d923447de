package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed" // set only by a hire
)

type Job struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"client_id"`
	Title       string         `gorm:"type:varchar(150);not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Budget      int64          `gorm:"not null" json:"budget"`
	Category    string         `gorm:"type:varchar(80);not null;index" json:"category"`
	Deadline    datatypes.Date `json:"deadline"`
	Status      JobStatus      `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Client *User `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationHired    ApplicationStatus = "hired"
	ApplicationRejected ApplicationStatus = "rejected"
)

// JobApplication rows are unique per (job, freelancer); at most one per job is hired.
// Both rules are enforced by indexes created in db.Migrate.
type JobApplication struct {
	ID                uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	JobID             uuid.UUID         `gorm:"type:uuid;not null;index" json:"job_id"`
	FreelancerID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"freelancer_id"`
	Proposal          string            `gorm:"type:text;not null" json:"proposal"`
	ExpectedBudget    int64             `gorm:"not null" json:"expected_budget"`
	FreelancerContact string            `gorm:"type:varchar(150);not null" json:"freelancer_contact"`
	Status            ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Job        *Job  `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Freelancer *User `gorm:"foreignKey:FreelancerID" json:"freelancer,omitempty"`
}

type SavedJob struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FreelancerID uuid.UUID `gorm:"type:uuid;not null" json:"freelancer_id"`
	JobID        uuid.UUID `gorm:"type:uuid;not null;index" json:"job_id"`
	CreatedAt    time.Time `json:"created_at"`

	Job *Job `gorm:"foreignKey:JobID" json:"job,omitempty"`
}
