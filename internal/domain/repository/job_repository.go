package repository

import (
	"context"

	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/entity"
	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/jobsearch"
)

// JobSearcher runs a built job query and returns one page plus the total match count.
type JobSearcher interface {
	Search(ctx context.Context, q jobsearch.Query) ([]entity.Job, int64, error)
}

// JobRepository defines job persistence. Create fills ID, CreatedAt and Poster.
// GetByID fills Poster and ApplicationCount.
type JobRepository interface {
	JobSearcher
	Create(ctx context.Context, j *entity.Job) error
	GetByID(ctx context.Context, id int64) (*entity.Job, error)
	Delete(ctx context.Context, id int64) error
	// All streams every job, newest first, to fn. Used for reindexing.
	All(ctx context.Context, fn func(entity.Job) error) error
}

// ApplicationRepository defines persistence for job applications.
type ApplicationRepository interface {
	Create(ctx context.Context, a *entity.Application) error
	CountByJob(ctx context.Context, jobID int64) (int64, error)
}
