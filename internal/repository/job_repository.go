package repository

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"

	appErrors "github.com/zapleads/zapleads-backend/internal/errors"
	"github.com/zapleads/zapleads-backend/internal/model"
)

type JobRepositoryInterface interface {
	Create(job *model.ScheduledJob) error
	GetByID(id int) (*model.ScheduledJob, error)

	// Scheduler operations
	GetDue(limit int, now time.Time) ([]*model.ScheduledJob, error)
	Claim(id int, now time.Time) (bool, error)
	MarkCompleted(id int, now time.Time) error
	MarkFailed(id int, errorMessage string) error
}

type JobRepository struct {
	DB *sql.DB
}

func (r *JobRepository) Create(job *model.ScheduledJob) error {
	job.CreatedAt = time.Now()
	if job.Status == "" {
		job.Status = model.JobStatusPending
	}
	query := `
        INSERT INTO scheduled_jobs (campaign_id, status, scheduled_at, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	err := r.DB.QueryRow(query, job.CampaignID, job.Status, job.ScheduledAt, job.CreatedAt).Scan(&job.ID)
	return errors.Wrap(err, "failed to insert scheduled job")
}

func (r *JobRepository) GetByID(id int) (*model.ScheduledJob, error) {
	query := `
        SELECT id, campaign_id, status, scheduled_at, started_at, completed_at, error_message, created_at
        FROM scheduled_jobs WHERE id=$1
    `
	var j model.ScheduledJob
	err := r.DB.QueryRow(query, id).Scan(
		&j.ID, &j.CampaignID, &j.Status, &j.ScheduledAt,
		&j.StartedAt, &j.CompletedAt, &j.ErrorMessage, &j.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewJobNotFound(id)
		}
		return nil, errors.Wrap(err, "failed to fetch scheduled job")
	}
	return &j, nil
}

// GetDue returns at most limit pending jobs whose scheduled_at has
// passed, oldest first. The cap bounds how much backlog one tick takes on.
func (r *JobRepository) GetDue(limit int, now time.Time) ([]*model.ScheduledJob, error) {
	query := `
        SELECT id, campaign_id, status, scheduled_at, started_at, completed_at, error_message, created_at
        FROM scheduled_jobs
        WHERE status=$1 AND scheduled_at <= $2
        ORDER BY scheduled_at ASC
        LIMIT $3
    `
	rows, err := r.DB.Query(query, model.JobStatusPending, now, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query due jobs")
	}
	defer rows.Close()

	jobs := []*model.ScheduledJob{}
	for rows.Next() {
		j := &model.ScheduledJob{}
		if err := rows.Scan(
			&j.ID, &j.CampaignID, &j.Status, &j.ScheduledAt,
			&j.StartedAt, &j.CompletedAt, &j.ErrorMessage, &j.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan due job")
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// Claim conditionally moves a job from pending to processing. The WHERE
// clause on status makes the claim atomic: zero rows affected means some
// other worker already took the job and the caller must skip it.
func (r *JobRepository) Claim(id int, now time.Time) (bool, error) {
	query := `
        UPDATE scheduled_jobs
        SET status=$1, started_at=$2
        WHERE id=$3 AND status=$4
    `
	res, err := r.DB.Exec(query, model.JobStatusProcessing, now, id, model.JobStatusPending)
	if err != nil {
		return false, errors.Wrap(err, "failed to claim scheduled job")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to read claim result")
	}
	return affected == 1, nil
}

func (r *JobRepository) MarkCompleted(id int, now time.Time) error {
	query := `UPDATE scheduled_jobs SET status=$1, completed_at=$2 WHERE id=$3`
	_, err := r.DB.Exec(query, model.JobStatusCompleted, now, id)
	return errors.Wrap(err, "failed to mark job completed")
}

// MarkFailed records the terminal error text; completed_at stays null so
// a failed job is distinguishable from a finished one by timestamps alone.
func (r *JobRepository) MarkFailed(id int, errorMessage string) error {
	query := `UPDATE scheduled_jobs SET status=$1, error_message=$2 WHERE id=$3`
	_, err := r.DB.Exec(query, model.JobStatusFailed, errorMessage, id)
	return errors.Wrap(err, "failed to mark job failed")
}

var _ JobRepositoryInterface = (*JobRepository)(nil)
