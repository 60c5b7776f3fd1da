package entity

import "strings"

// Role represents an authorization role carried by users and session tokens
type Role string

const (
	RoleJobSeeker Role = "JOBSEEKER"
	RoleEmployer  Role = "EMPLOYER"
	RoleAdmin     Role = "ADMIN"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleJobSeeker, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

// RegistrationRole resolves the role requested at sign-up.
// Only EMPLOYER (any casing) can be chosen; everything else, ADMIN included,
// becomes JOBSEEKER.
func RegistrationRole(requested string) Role {
	if strings.EqualFold(strings.TrimSpace(requested), string(RoleEmployer)) {
		return RoleEmployer
	}
	return RoleJobSeeker
}
