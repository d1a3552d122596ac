package entity

import (
	"strings"
	"time"

	"github.com/oksasatya/task-manager-api/internal/domain/errs"
)

// Task belongs to exactly one user. Owner is set on creation and never changes.
type Task struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *Task) Normalize() {
	t.Description = strings.TrimSpace(t.Description)
}

func (t *Task) Validate() error {
	if t.Description == "" {
		return errs.Invalid("description", "is required")
	}
	if t.Owner == "" {
		return errs.Invalid("owner", "is required")
	}
	return nil
}
