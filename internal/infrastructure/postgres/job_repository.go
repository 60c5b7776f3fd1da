package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/entity"
	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/jobsearch"
	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/repository"
)

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

const jobSelect = `
	SELECT j.id, j.title, j.description, j.location, j.salary_min, j.salary_max,
	       j.posted_by, j.created_at, u.id, u.name, u.email
	FROM jobs j
	JOIN users u ON u.id = j.posted_by`

func (r *JobRepository) Create(ctx context.Context, j *entity.Job) error {
	row := r.pool.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO jobs (title, description, location, salary_min, salary_max, posted_by)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, posted_by
		)
		SELECT i.id, i.created_at, u.id, u.name, u.email
		FROM inserted i
		JOIN users u ON u.id = i.posted_by
	`, j.Title, j.Description, j.Location, j.SalaryMin, j.SalaryMax, j.PostedBy)

	p := &entity.Poster{}
	if err := row.Scan(&j.ID, &j.CreatedAt, &p.ID, &p.Name, &p.Email); err != nil {
		return translate(err, repository.ErrNotFound)
	}
	j.Poster = p
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id int64) (*entity.Job, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT j.id, j.title, j.description, j.location, j.salary_min, j.salary_max,
		       j.posted_by, j.created_at, u.id, u.name, u.email,
		       (SELECT count(*) FROM applications a WHERE a.job_id = j.id)
		FROM jobs j
		JOIN users u ON u.id = j.posted_by
		WHERE j.id = $1
	`, id)

	var n int64
	j, err := scanJob(row, &n)
	if err != nil {
		return nil, err
	}
	j.ApplicationCount = &n
	return j, nil
}

func (r *JobRepository) Search(ctx context.Context, q jobsearch.Query) ([]entity.Job, int64, error) {
	f := &sqlFilter{}
	where, err := f.compile(q.Where)
	if err != nil {
		return nil, 0, err
	}
	order, err := orderBy(q.Order)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM jobs j WHERE `+where, f.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}
	if total == 0 || q.Page.Skip < 0 || int64(q.Page.Skip) >= total {
		return []entity.Job{}, total, nil
	}

	args := append(append([]any{}, f.args...), q.Page.Limit, q.Page.Skip)
	sql := fmt.Sprintf("%s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d", jobSelect, where, order, len(f.args)+1, len(f.args)+2)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search jobs: %w", err)
	}
	jobs, err := collectJobs(rows)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *JobRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return translate(err, repository.ErrReferenced)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *JobRepository) All(ctx context.Context, fn func(entity.Job) error) error {
	rows, err := r.pool.Query(ctx, jobSelect+` ORDER BY j.created_at DESC, j.id ASC`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		j, err := scanJob(rows, nil)
		if err != nil {
			return err
		}
		if err := fn(*j); err != nil {
			return err
		}
	}
	return rows.Err()
}

func collectJobs(rows pgx.Rows) ([]entity.Job, error) {
	defer rows.Close()
	jobs := make([]entity.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows, nil)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// scanJob reads a jobSelect row; count, when non-nil, receives a trailing column.
func scanJob(row pgx.Row, count *int64) (*entity.Job, error) {
	j := &entity.Job{}
	p := &entity.Poster{}
	dest := []any{&j.ID, &j.Title, &j.Description, &j.Location, &j.SalaryMin, &j.SalaryMax,
		&j.PostedBy, &j.CreatedAt, &p.ID, &p.Name, &p.Email}
	if count != nil {
		dest = append(dest, count)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, translate(err, nil)
	}
	j.Poster = p
	return j, nil
}

var _ repository.JobRepository = (*JobRepository)(nil)
