package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the account domain
// Passwords are stored as bcrypt hashes in Password field and never serialized
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      *string   `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// NormalizeEmail lower-cases and trims an email before storage or lookup
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
