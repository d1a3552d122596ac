package entity

import (
	"strings"
	"time"

	"github.com/oksasatya/task-manager-api/internal/domain/errs"
	"github.com/oksasatya/task-manager-api/pkg/validation"
)

// User is the aggregate root for the account domain.
// PasswordHash holds a bcrypt hash; Tokens holds every bearer token issued and not yet revoked,
// oldest first. Neither is ever serialized.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Age          int       `json:"age"`
	PasswordHash string    `json:"-"`
	Tokens       []string  `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Normalize trims name and email and lowercases the email.
func (u *User) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = NormalizeEmail(u.Email)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks the persisted fields. Call Normalize first.
func (u *User) Validate() error {
	if u.Name == "" {
		return errs.Invalid("name", "is required")
	}
	if u.Email == "" {
		return errs.Invalid("email", "is required")
	}
	if err := validation.Var(u.Email, "email"); err != nil {
		return errs.Invalid("email", "is invalid")
	}
	if u.PasswordHash == "" {
		return errs.Invalid("password", "is required")
	}
	return nil
}

// HasToken reports whether token is still in the user's active token list.
func (u *User) HasToken(token string) bool {
	for _, t := range u.Tokens {
		if t == token {
			return true
		}
	}
	return false
}

// NormalizePassword trims the plaintext the same way on create, update and login.
func NormalizePassword(plain string) string {
	return strings.TrimSpace(plain)
}

// ValidatePassword enforces the plaintext rules registered as the "pwd" validator
// alias: at least 7 characters, at most 72 bytes, no literal "password".
func ValidatePassword(plain string) error {
	if msg := validation.VarMessage(NormalizePassword(plain), "required,pwd"); msg != "" {
		return errs.Invalid("password", msg)
	}
	return nil
}
