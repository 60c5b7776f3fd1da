package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/entity"
	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/jobsearch"
	repo "github.com/pixelpursuit/pixelpursuit-api/internal/domain/repository"
	"github.com/pixelpursuit/pixelpursuit-api/pkg/apperror"
)

// JobIndexer mirrors job writes into a secondary search index.
type JobIndexer interface {
	IndexJob(ctx context.Context, j entity.Job) error
	DeleteJob(ctx context.Context, id int64) error
}

// Principal is the authenticated caller of a protected operation.
type Principal struct {
	UserID int64
	Email  string
	Role   entity.Role
}

type JobService struct {
	Jobs         repo.JobRepository
	Applications repo.ApplicationRepository
	Searcher     repo.JobSearcher
	Indexer      JobIndexer
	Logger       *logrus.Logger
}

// NewJobService wires the job use cases. A nil searcher searches the job
// repository; a nil indexer disables index mirroring.
func NewJobService(jobs repo.JobRepository, apps repo.ApplicationRepository, searcher repo.JobSearcher, indexer JobIndexer, logger *logrus.Logger) *JobService {
	if searcher == nil {
		searcher = jobs
	}
	return &JobService{Jobs: jobs, Applications: apps, Searcher: searcher, Indexer: indexer, Logger: logger}
}

type CreateJobInput struct {
	Title       string
	Description string
	Location    *string
	SalaryMin   *int64
	SalaryMax   *int64
}

type SearchResult struct {
	Jobs       []entity.Job       `json:"jobs"`
	Pagination jobsearch.PageInfo `json:"pagination"`
}

// CreateJob posts a job owned by the caller.
func (s *JobService) CreateJob(ctx context.Context, p Principal, in CreateJobInput) (*entity.Job, error) {
	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.Description)
	if title == "" || desc == "" {
		return nil, ErrMissingJobFields
	}
	if (in.SalaryMin != nil && *in.SalaryMin < 0) || (in.SalaryMax != nil && *in.SalaryMax < 0) {
		return nil, ErrNegativeSalary
	}
	if in.SalaryMin != nil && in.SalaryMax != nil && *in.SalaryMin > *in.SalaryMax {
		return nil, ErrInvalidSalaryRange
	}

	j := &entity.Job{
		Title:       title,
		Description: desc,
		Location:    trimmedOrNil(in.Location),
		SalaryMin:   in.SalaryMin,
		SalaryMax:   in.SalaryMax,
		PostedBy:    p.UserID,
	}
	if err := s.Jobs.Create(ctx, j); err != nil {
		return nil, apperror.Internal(err)
	}
	s.index(ctx, *j)
	return j, nil
}

// Search runs the filtered, paginated job listing.
func (s *JobService) Search(ctx context.Context, f jobsearch.Filter) (*SearchResult, error) {
	q := jobsearch.Build(f)
	jobs, total, err := s.Searcher.Search(ctx, q)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if jobs == nil {
		jobs = []entity.Job{}
	}
	return &SearchResult{Jobs: jobs, Pagination: q.Page.Describe(total)}, nil
}

// GetJob loads a job with its poster summary and application count.
func (s *JobService) GetJob(ctx context.Context, id int64) (*entity.Job, error) {
	j, err := s.Jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, apperror.Internal(err)
	}
	return j, nil
}

// DeleteJob removes a job the caller owns that has no applications.
// The ownership and application checks are reads separate from the delete;
// a concurrent application is caught by the store's foreign key.
func (s *JobService) DeleteJob(ctx context.Context, p Principal, id int64) error {
	j, err := s.GetJob(ctx, id)
	if err != nil {
		return err
	}
	if j.PostedBy != p.UserID {
		return ErrNotJobOwner
	}

	n, err := s.Applications.CountByJob(ctx, id)
	if err != nil {
		return apperror.Internal(err)
	}
	if n > 0 {
		return ErrJobHasApplications
	}

	if err := s.Jobs.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repo.ErrReferenced):
			return ErrJobHasApplications.Wrap(err)
		case errors.Is(err, repo.ErrNotFound):
			return ErrJobNotFound
		}
		return apperror.Internal(err)
	}

	if s.Indexer != nil {
		if err := s.Indexer.DeleteJob(ctx, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("job_id", id).Warn("search index delete failed")
		}
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"job_id": id, "user_id": p.UserID}).Info("job deleted")
	}
	return nil
}

// Apply records the caller's application to a job.
func (s *JobService) Apply(ctx context.Context, p Principal, jobID int64, coverLetter *string) (*entity.Application, error) {
	if _, err := s.GetJob(ctx, jobID); err != nil {
		return nil, err
	}
	a := &entity.Application{
		JobID:       jobID,
		ApplicantID: p.UserID,
		CoverLetter: trimmedOrNil(coverLetter),
	}
	if err := s.Applications.Create(ctx, a); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return nil, ErrAlreadyApplied.Wrap(err)
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrJobNotFound
		}
		return nil, apperror.Internal(err)
	}
	return a, nil
}

func (s *JobService) index(ctx context.Context, j entity.Job) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.IndexJob(ctx, j); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("job_id", j.ID).Warn("search index failed")
	}
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
