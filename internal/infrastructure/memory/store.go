// Package memory implements the repository ports in memory for development and testing.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/entity"
	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/jobsearch"
	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/repository"
)

// Store holds users, jobs and applications. It enforces the same constraints
// the relational schema does: unique emails, one application per job and
// applicant, and no job deletion while applications reference it.
type Store struct {
	mu           sync.RWMutex
	users        map[int64]*entity.User
	usersByEmail map[string]int64
	jobs         map[int64]*entity.Job
	applications map[int64]*entity.Application

	userSeq int64
	jobSeq  int64
	appSeq  int64

	now func() time.Time
}

func New() *Store {
	return &Store{
		users:        make(map[int64]*entity.User),
		usersByEmail: make(map[string]int64),
		jobs:         make(map[int64]*entity.Job),
		applications: make(map[int64]*entity.Application),
		now:          time.Now,
	}
}

// WithClock makes the store stamp CreatedAt from now.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// Users, Jobs and Applications expose the store through each port.
func (s *Store) Users() *UserRepository               { return &UserRepository{s} }
func (s *Store) Jobs() *JobRepository                 { return &JobRepository{s} }
func (s *Store) Applications() *ApplicationRepository { return &ApplicationRepository{s} }

var (
	_ repository.UserRepository        = (*UserRepository)(nil)
	_ repository.JobRepository         = (*JobRepository)(nil)
	_ repository.ApplicationRepository = (*ApplicationRepository)(nil)
)

// --- UserRepository ---

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usersByEmail[u.Email]; ok {
		return repository.ErrDuplicate
	}
	s.userSeq++
	u.ID = s.userSeq
	u.CreatedAt = s.now().UTC()
	cp := *u
	s.users[u.ID] = &cp
	s.usersByEmail[u.Email] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.usersByEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r.s.users[id]
	return &cp, nil
}

// --- JobRepository ---

type JobRepository struct{ s *Store }

func (r *JobRepository) Create(_ context.Context, j *entity.Job) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	poster, ok := s.users[j.PostedBy]
	if !ok {
		return repository.ErrNotFound
	}
	s.jobSeq++
	j.ID = s.jobSeq
	j.CreatedAt = s.now().UTC()
	j.Poster = posterOf(poster)
	j.ApplicationCount = nil

	cp := *j
	cp.Poster = nil
	s.jobs[j.ID] = &cp
	return nil
}

func (r *JobRepository) GetByID(_ context.Context, id int64) (*entity.Job, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := s.withPoster(j)
	n := s.countApplications(id)
	out.ApplicationCount = &n
	return &out, nil
}

func (r *JobRepository) Search(_ context.Context, q jobsearch.Query) ([]entity.Job, int64, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]entity.Job, 0)
	for _, j := range s.jobs {
		if jobsearch.Matches(q.Where, j) {
			matched = append(matched, s.withPoster(j))
		}
	}
	jobsearch.SortJobs(matched, q.Order)

	total := int64(len(matched))
	start := q.Page.Skip
	if start < 0 {
		start = 0
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Page.Limit
	if end > len(matched) || end < start {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *JobRepository) Delete(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return repository.ErrNotFound
	}
	if s.countApplications(id) > 0 {
		return repository.ErrReferenced
	}
	delete(s.jobs, id)
	return nil
}

func (r *JobRepository) All(ctx context.Context, fn func(entity.Job) error) error {
	jobs, _, err := r.Search(ctx, jobsearch.Query{Where: jobsearch.And{}, Order: jobsearch.DefaultOrder, Page: jobsearch.Pagination{Limit: int(^uint(0) >> 1)}})
	if err != nil {
		return err
	}
	for _, j := range jobs {
		if err := fn(j); err != nil {
			return err
		}
	}
	return nil
}

// --- ApplicationRepository ---

type ApplicationRepository struct{ s *Store }

func (r *ApplicationRepository) Create(_ context.Context, a *entity.Application) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[a.JobID]; !ok {
		return repository.ErrNotFound
	}
	for _, existing := range s.applications {
		if existing.JobID == a.JobID && existing.ApplicantID == a.ApplicantID {
			return repository.ErrDuplicate
		}
	}
	s.appSeq++
	a.ID = s.appSeq
	a.CreatedAt = s.now().UTC()
	cp := *a
	s.applications[a.ID] = &cp
	return nil
}

func (r *ApplicationRepository) CountByJob(_ context.Context, jobID int64) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.countApplications(jobID), nil
}

// callers hold s.mu
func (s *Store) countApplications(jobID int64) int64 {
	var n int64
	for _, a := range s.applications {
		if a.JobID == jobID {
			n++
		}
	}
	return n
}

// callers hold s.mu
func (s *Store) withPoster(j *entity.Job) entity.Job {
	out := *j
	if u, ok := s.users[j.PostedBy]; ok {
		out.Poster = posterOf(u)
	}
	return out
}

func posterOf(u *entity.User) *entity.Poster {
	return &entity.Poster{ID: u.ID, Name: u.Name, Email: u.Email}
}
