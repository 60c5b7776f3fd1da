package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/entity"
	"github.com/pixelpursuit/pixelpursuit-api/internal/domain/repository"
)

type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *entity.Application) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO applications (job_id, applicant_id, cover_letter)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, a.JobID, a.ApplicantID, a.CoverLetter)
	return translate(row.Scan(&a.ID, &a.CreatedAt), repository.ErrNotFound)
}

func (r *ApplicationRepository) CountByJob(ctx context.Context, jobID int64) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM applications WHERE job_id = $1`, jobID).Scan(&n)
	return n, err
}

var _ repository.ApplicationRepository = (*ApplicationRepository)(nil)
