package application

import "github.com/pixelpursuit/pixelpursuit-api/pkg/apperror"

var (
	ErrMissingLoginFields = apperror.Validation("email and password are required")
	ErrPasswordTooLong    = apperror.Validation("password must be at most 72 bytes")
	ErrEmailTaken         = apperror.Conflict("user with this email is already registered")
	ErrInvalidCredentials = apperror.Authentication("invalid credentials")
	ErrUserNotFound       = apperror.NotFound("user not found")

	ErrMissingJobFields   = apperror.Validation("title and description are required")
	ErrInvalidSalaryRange = apperror.Validation("salaryMin must not exceed salaryMax")
	ErrNegativeSalary     = apperror.Validation("salary must not be negative")
	ErrJobNotFound        = apperror.NotFound("job not found")
	ErrNotJobOwner        = apperror.Authorization("you are not authorized to delete this job")
	ErrJobHasApplications = apperror.Conflict("cannot delete job post with active applications")
	ErrAlreadyApplied     = apperror.Conflict("you have already applied to this job")
)

var (
	ErrMissingCredential = apperror.Authentication("no token provided")
	ErrInvalidCredential = apperror.Authentication("invalid or expired token")
	ErrForbidden         = apperror.Authorization("you do not have permission to perform this action")
)
