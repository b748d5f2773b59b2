// Package roleskill manages the catalog of candidate roles and the skills
// they call for.
package roleskill

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("role skill not found")
	ErrInvalid  = errors.New("invalid role skill")
)

// FieldError names the input field that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

func (e *FieldError) Unwrap() error { return ErrInvalid }

// RoleSkill is one catalog entry.
type RoleSkill struct {
	ID              uuid.UUID `json:"id"`
	Role            string    `json:"role"`
	Skills          []string  `json:"skills"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category,omitempty"`
	ExperienceLevel string    `json:"experienceLevel,omitempty"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CreateInput carries a new entry. Role and skills are required.
type CreateInput struct {
	Role            string   `json:"role"`
	Skills          []string `json:"skills"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	ExperienceLevel string   `json:"experienceLevel"`
}

// UpdateInput changes only the fields that are set.
type UpdateInput struct {
	Role            *string   `json:"role"`
	Skills          *[]string `json:"skills"`
	Description     *string   `json:"description"`
	Category        *string   `json:"category"`
	ExperienceLevel *string   `json:"experienceLevel"`
}
