package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/jobboard-be/internal/apperr"
	"github.com/isdelr/jobboard-be/internal/auth"
	"github.com/isdelr/jobboard-be/internal/database"
	"github.com/isdelr/jobboard-be/internal/models"
)

// Feed actions published for job mutations.
const (
	FeedJobCreated = "job.created"
	FeedJobUpdated = "job.updated"
	FeedJobDeleted = "job.deleted"
)

var (
	errJobNotFound   = apperr.New(apperr.ErrNotFound, "Job not found")
	errOwnerNotFound = apperr.New(apperr.ErrNotFound, "User not found")
)

// Publisher receives job mutations for the live feed. Publish must not block.
type Publisher interface {
	Publish(action string, payload interface{})
}

// JobServiceProvider defines the interface for job services.
type JobServiceProvider interface {
	CreateJob(ctx context.Context, identity *auth.Identity, input models.JobInput) (models.Job, error)
	ListJobs(ctx context.Context) ([]models.Job, error)
	ListJobsByOwner(ctx context.Context, ownerID string) ([]models.Job, error)
	GetJob(ctx context.Context, id string) (models.Job, error)
	UpdateJob(ctx context.Context, identity *auth.Identity, id string, patch models.JobPatch) (models.Job, error)
	DeleteJob(ctx context.Context, identity *auth.Identity, id string) error
}

// JobService provides business logic for job postings.
type JobService struct {
	db     *sql.DB
	events EventServiceProvider
	feed   Publisher
	now    func() time.Time
}

// NewJobService creates a new JobService. events and feed may be nil.
func NewJobService(db *sql.DB, events EventServiceProvider, feed Publisher) *JobService {
	return &JobService{db: db, events: events, feed: feed, now: time.Now}
}

const jobColumns = `id, title, salary_range, job_type, description, categories_json, job_level,
	remote_or_onsite, freelancer_count, posted_by, date_posted, created_at, updated_at`

// CreateJob stores a new posting owned by the caller.
func (s *JobService) CreateJob(ctx context.Context, identity *auth.Identity, input models.JobInput) (models.Job, error) {
	if identity == nil {
		return models.Job{}, apperr.ErrUnauthenticated
	}

	now := s.now().UTC()
	job := models.Job{
		ID:              uuid.New().String(),
		Title:           input.Title,
		SalaryRange:     input.SalaryRange,
		JobType:         input.JobType,
		Description:     input.Description,
		Categories:      append([]string{}, input.Categories...),
		JobLevel:        input.JobLevel,
		RemoteOrOnsite:  input.RemoteOrOnsite,
		FreelancerCount: input.FreelancerCount,
		PostedBy:        identity.SubjectID,
		DatePosted:      now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	categoriesJSON, err := json.Marshal(job.Categories)
	if err != nil {
		return models.Job{}, fmt.Errorf("encoding categories: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO jobs (`+jobColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Title, job.SalaryRange, job.JobType, job.Description, string(categoriesJSON), job.JobLevel,
		job.RemoteOrOnsite, job.FreelancerCount, job.PostedBy,
		database.FormatTime(job.DatePosted), database.FormatTime(job.CreatedAt), database.FormatTime(job.UpdatedAt),
	)
	if err != nil {
		// The token outlived its user.
		if database.IsForeignKeyViolation(err) {
			return models.Job{}, errOwnerNotFound
		}
		return models.Job{}, fmt.Errorf("inserting job: %w", err)
	}

	record(ctx, s.events, models.EventJobCreate, fmt.Sprintf("Posted job '%s'", job.Title), identity.SubjectID)
	s.publish(FeedJobCreated, job)
	return job, nil
}

// ListJobs returns every posting, newest first.
func (s *JobService) ListJobs(ctx context.Context) ([]models.Job, error) {
	return s.queryJobs(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC`)
}

// ListJobsByOwner returns the postings owned by ownerID, newest first.
func (s *JobService) ListJobsByOwner(ctx context.Context, ownerID string) ([]models.Job, error) {
	return s.queryJobs(ctx, `SELECT `+jobColumns+` FROM jobs WHERE posted_by = ? ORDER BY created_at DESC`, ownerID)
}

// GetJob retrieves a single posting.
func (s *JobService) GetJob(ctx context.Context, id string) (models.Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Job{}, errJobNotFound
		}
		return models.Job{}, err
	}
	return job, nil
}

// UpdateJob applies patch to a posting the caller owns.
func (s *JobService) UpdateJob(ctx context.Context, identity *auth.Identity, id string, patch models.JobPatch) (models.Job, error) {
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return models.Job{}, err
	}
	if err := auth.Authorize(identity, job.PostedBy, auth.ActionUpdate); err != nil {
		return models.Job{}, err
	}

	patch.Apply(&job)
	job.UpdatedAt = s.now().UTC()

	categoriesJSON, err := json.Marshal(job.Categories)
	if err != nil {
		return models.Job{}, fmt.Errorf("encoding categories: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE jobs SET title = ?, salary_range = ?, job_type = ?, description = ?,
		categories_json = ?, job_level = ?, remote_or_onsite = ?, freelancer_count = ?, updated_at = ?
		WHERE id = ? AND posted_by = ?`,
		job.Title, job.SalaryRange, job.JobType, job.Description, string(categoriesJSON), job.JobLevel,
		job.RemoteOrOnsite, job.FreelancerCount, database.FormatTime(job.UpdatedAt), job.ID, identity.SubjectID,
	)
	if err != nil {
		return models.Job{}, fmt.Errorf("updating job: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Job{}, errJobNotFound
	}

	record(ctx, s.events, models.EventJobUpdate, fmt.Sprintf("Updated job '%s'", job.Title), identity.SubjectID)
	s.publish(FeedJobUpdated, job)
	return job, nil
}

// DeleteJob removes a posting the caller owns.
func (s *JobService) DeleteJob(ctx context.Context, identity *auth.Identity, id string) error {
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.Authorize(identity, job.PostedBy, auth.ActionDelete); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM jobs WHERE id = ? AND posted_by = ?", id, identity.SubjectID)
	if err != nil {
		return fmt.Errorf("deleting job: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errJobNotFound
	}

	record(ctx, s.events, models.EventJobDelete, fmt.Sprintf("Deleted job '%s'", job.Title), identity.SubjectID)
	s.publish(FeedJobDeleted, map[string]string{"id": id})
	return nil
}

func (s *JobService) publish(action string, payload interface{}) {
	if s.feed != nil {
		s.feed.Publish(action, payload)
	}
}

func (s *JobService) queryJobs(ctx context.Context, query string, args ...any) ([]models.Job, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []models.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (models.Job, error) {
	var job models.Job
	var categoriesJSON, datePosted, createdAt, updatedAt string
	err := row.Scan(&job.ID, &job.Title, &job.SalaryRange, &job.JobType, &job.Description, &categoriesJSON,
		&job.JobLevel, &job.RemoteOrOnsite, &job.FreelancerCount, &job.PostedBy, &datePosted, &createdAt, &updatedAt)
	if err != nil {
		return models.Job{}, err
	}

	if err := json.Unmarshal([]byte(categoriesJSON), &job.Categories); err != nil {
		return models.Job{}, fmt.Errorf("decoding categories for job %s: %w", job.ID, err)
	}
	if job.Categories == nil {
		job.Categories = []string{}
	}
	for _, f := range []struct {
		dst *time.Time
		src string
	}{{&job.DatePosted, datePosted}, {&job.CreatedAt, createdAt}, {&job.UpdatedAt, updatedAt}} {
		if *f.dst, err = database.ParseTime(f.src); err != nil {
			return models.Job{}, fmt.Errorf("parsing timestamps for job %s: %w", job.ID, err)
		}
	}
	return job, nil
}
