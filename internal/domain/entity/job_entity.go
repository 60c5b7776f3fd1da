package entity

import "time"

// Poster is the public summary of the employer who posted a job
type Poster struct {
	ID    int64   `json:"id"`
	Name  *string `json:"name"`
	Email string  `json:"email"`
}

// Job is a posting owned by the employer in PostedBy. PostedBy never changes
// after creation.
type Job struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    *string   `json:"location"`
	SalaryMin   *int64    `json:"salaryMin"`
	SalaryMax   *int64    `json:"salaryMax"`
	PostedBy    int64     `json:"postedBy"`
	CreatedAt   time.Time `json:"createdAt"`

	Poster           *Poster `json:"poster,omitempty"`
	ApplicationCount *int64  `json:"applicationCount,omitempty"`
}

// Application links a job seeker to a job
type Application struct {
	ID          int64     `json:"id"`
	JobID       int64     `json:"jobId"`
	ApplicantID int64     `json:"applicantId"`
	CoverLetter *string   `json:"coverLetter"`
	CreatedAt   time.Time `json:"createdAt"`
}
