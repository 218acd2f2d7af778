package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mkleiven/coursequeue-api/internal/models"
)

// QueueRepository manages the per-course queue flag and queue entries.
type QueueRepository struct {
	db *sqlx.DB
}

// NewQueueRepository constructs a new queue repository.
func NewQueueRepository(db *sqlx.DB) *QueueRepository {
	return &QueueRepository{db: db}
}

// FindByCourse returns the queue owned by a course.
func (r *QueueRepository) FindByCourse(ctx context.Context, courseID string) (*models.Queue, error) {
	const query = `SELECT id, course_id, active FROM queues WHERE course_id = $1`
	var queue models.Queue
	if err := r.db.GetContext(ctx, &queue, query, courseID); err != nil {
		return nil, err
	}
	return &queue, nil
}

// SetActive toggles the queue flag for a course. Returns sql.ErrNoRows
// when the course has no queue (missing or archived course).
func (r *QueueRepository) SetActive(ctx context.Context, courseID string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE queues SET active = $2 WHERE course_id = $1`, courseID, active)
	if err != nil {
		return fmt.Errorf("set queue active: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set queue active result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CreateEntry persists a student's queue entry.
func (r *QueueRepository) CreateEntry(ctx context.Context, entry *models.QueueEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.Status == "" {
		entry.Status = models.QueueStatusWaiting
	}
	const query = `INSERT INTO queue_entries (id, student_id, course_id, assignment_number, help_requested, status, campus, building, room, table_nr, location_type, created_at)
VALUES (:id, :student_id, :course_id, :assignment_number, :help_requested, :status, :campus, :building, :room, :table_nr, :location_type, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create queue entry: %w", err)
	}
	return nil
}

// FindEntryByStudent returns a student's live queue entry.
func (r *QueueRepository) FindEntryByStudent(ctx context.Context, studentID string) (*models.QueueEntry, error) {
	const query = `SELECT id, student_id, course_id, assignment_number, help_requested, status, campus, building, room, table_nr, location_type, created_at FROM queue_entries WHERE student_id = $1`
	var entry models.QueueEntry
	if err := r.db.GetContext(ctx, &entry, query, studentID); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteEntryByStudent removes a student's queue entry. Returns
// sql.ErrNoRows when the student is not queued.
func (r *QueueRepository) DeleteEntryByStudent(ctx context.Context, studentID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM queue_entries WHERE student_id = $1`, studentID)
	if err != nil {
		return fmt.Errorf("delete queue entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete queue entry result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateEntryStatus mutates the status of a student's entry within a
// course. Returns sql.ErrNoRows when no entry matches.
func (r *QueueRepository) UpdateEntryStatus(ctx context.Context, studentID, courseID string, status models.QueueStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE queue_entries SET status = $3 WHERE student_id = $1 AND course_id = $2`, studentID, courseID, status)
	if err != nil {
		return fmt.Errorf("update queue entry status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update queue entry status result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListEntries returns the queue entries of a course in FIFO order with
// student identity joined in.
func (r *QueueRepository) ListEntries(ctx context.Context, courseID string) ([]models.QueueEntryDetail, error) {
	const query = `SELECT e.id, e.student_id, e.course_id, e.assignment_number, e.help_requested, e.status, e.campus, e.building, e.room, e.table_nr, e.location_type, e.created_at, s.first_name, s.last_name, s.email
FROM queue_entries e
JOIN students s ON s.id = e.student_id
WHERE e.course_id = $1
ORDER BY e.created_at`
	var entries []models.QueueEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, courseID); err != nil {
		return nil, fmt.Errorf("list queue entries: %w", err)
	}
	return entries, nil
}

// PurgeEntries removes every entry of a course's queue.
func (r *QueueRepository) PurgeEntries(ctx context.Context, courseID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM queue_entries WHERE course_id = $1`, courseID); err != nil {
		return fmt.Errorf("purge queue entries: %w", err)
	}
	return nil
}
