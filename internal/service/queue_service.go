package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkleiven/coursequeue-api/internal/models"
	appErrors "github.com/mkleiven/coursequeue-api/pkg/errors"
	"github.com/mkleiven/coursequeue-api/pkg/jobs"
)

// PurgeJobType labels queue-purge jobs handed to the background worker.
const PurgeJobType = "queue.purge"

type queueRepository interface {
	FindByCourse(ctx context.Context, courseID string) (*models.Queue, error)
	SetActive(ctx context.Context, courseID string, active bool) error
	CreateEntry(ctx context.Context, entry *models.QueueEntry) error
	FindEntryByStudent(ctx context.Context, studentID string) (*models.QueueEntry, error)
	DeleteEntryByStudent(ctx context.Context, studentID string) error
	UpdateEntryStatus(ctx context.Context, studentID, courseID string, status models.QueueStatus) error
	ListEntries(ctx context.Context, courseID string) ([]models.QueueEntryDetail, error)
	PurgeEntries(ctx context.Context, courseID string) error
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type assignmentApprover interface {
	ApproveForStudent(ctx context.Context, studentID, courseID string, assignmentNumber int) error
}

// JoinQueueRequest carries a student's queue entry with its help and
// location metadata.
type JoinQueueRequest struct {
	StudentID        string              `json:"student_id" validate:"required"`
	CourseID         string              `json:"course_id" validate:"required"`
	AssignmentNumber int                 `json:"assignment_number" validate:"required,gt=0"`
	HelpRequested    bool                `json:"help_requested"`
	Campus           string              `json:"campus"`
	Building         string              `json:"building"`
	Room             string              `json:"room"`
	TableNr          int                 `json:"table_nr"`
	LocationType     models.LocationType `json:"location_type" validate:"required,oneof=PHYSICAL DIGITAL"`
}

// ChangeStateRequest mutates a student's queue entry status.
type ChangeStateRequest struct {
	StudentID string             `json:"student_id" validate:"required"`
	CourseID  string             `json:"course_id" validate:"required"`
	Status    models.QueueStatus `json:"status" validate:"required,oneof=WAITING BEING_HELPED DONE"`
}

// ApproveAssignmentRequest marks a student's assignment approved and
// releases the student from the queue.
type ApproveAssignmentRequest struct {
	StudentID        string `json:"student_id" validate:"required"`
	CourseID         string `json:"course_id" validate:"required"`
	AssignmentNumber int    `json:"assignment_number" validate:"required,gt=0"`
}

// ToggleQueueRequest flips the queue flag of a course.
type ToggleQueueRequest struct {
	CourseID string `json:"course_id" validate:"required"`
	Active   bool   `json:"active"`
}

// QueueService orchestrates the live help queue: the per-course active
// flag, student entries and approval-driven dequeueing.
type QueueService struct {
	repo        queueRepository
	courses     courseReader
	students    studentReader
	assignments assignmentApprover
	cache       *CacheService
	purge       *jobs.Queue
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewQueueService constructs QueueService. The purge queue may be nil, in
// which case deactivation purges synchronously.
func NewQueueService(repo queueRepository, courses courseReader, students studentReader, assignments assignmentApprover, cache *CacheService, purge *jobs.Queue, validate *validator.Validate, logger *zap.Logger) *QueueService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueService{repo: repo, courses: courses, students: students, assignments: assignments, cache: cache, purge: purge, validator: validate, logger: logger}
}

func queueActiveCacheKey(courseID string) string {
	return fmt.Sprintf("queue:active:%s", courseID)
}

// IsActive reports whether the queue of a course is open, served from
// cache when possible.
func (s *QueueService) IsActive(ctx context.Context, courseID string) (bool, error) {
	var cached bool
	if hit, err := s.cache.Get(ctx, queueActiveCacheKey(courseID), &cached); err == nil && hit {
		return cached, nil
	}
	queue, err := s.repo.FindByCourse(ctx, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, appErrors.Clone(appErrors.ErrNotFound, "queue not found")
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load queue")
	}
	if err := s.cache.Set(ctx, queueActiveCacheKey(courseID), queue.Active); err != nil {
		s.logger.Warn("queue flag cache write failed", zap.Error(err))
	}
	return queue.Active, nil
}

// SetActive flips the queue flag. Deactivation schedules a purge of the
// course's entries so nobody waits on a closed queue.
func (s *QueueService) SetActive(ctx context.Context, req ToggleQueueRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid queue toggle payload")
	}
	if err := s.repo.SetActive(ctx, req.CourseID, req.Active); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "queue not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set queue state")
	}
	s.cache.Invalidate(ctx, queueActiveCacheKey(req.CourseID))
	if !req.Active {
		s.schedulePurge(ctx, req.CourseID)
	}
	s.logger.Info("queue toggled", zap.String("course_id", req.CourseID), zap.Bool("active", req.Active))
	return nil
}

// Join places a student in a course queue. A student holds at most one
// entry at a time.
func (s *QueueService) Join(ctx context.Context, req JoinQueueRequest) (*models.QueueEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid queue entry payload")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if _, err := s.repo.FindEntryByStudent(ctx, req.StudentID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrDomain, "student already in a queue")
	} else if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check queue entry")
	}
	entry := &models.QueueEntry{
		StudentID:        req.StudentID,
		CourseID:         req.CourseID,
		AssignmentNumber: req.AssignmentNumber,
		HelpRequested:    req.HelpRequested,
		Status:           models.QueueStatusWaiting,
		Campus:           req.Campus,
		Building:         req.Building,
		Room:             req.Room,
		TableNr:          req.TableNr,
		LocationType:     req.LocationType,
	}
	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create queue entry")
	}
	return entry, nil
}

// Leave removes the student's queue entry.
func (s *QueueService) Leave(ctx context.Context, studentID string) error {
	if err := s.repo.DeleteEntryByStudent(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "queue entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete queue entry")
	}
	return nil
}

// SetStudentState mutates a student's entry status within a course.
func (s *QueueService) SetStudentState(ctx context.Context, req ChangeStateRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid state payload")
	}
	if err := s.repo.UpdateEntryStatus(ctx, req.StudentID, req.CourseID, req.Status); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "queue entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update queue entry")
	}
	return nil
}

// GetStudentState returns the student's live queue entry.
func (s *QueueService) GetStudentState(ctx context.Context, studentID string) (*models.QueueEntry, error) {
	entry, err := s.repo.FindEntryByStudent(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "queue entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load queue entry")
	}
	return entry, nil
}

// Approve marks the assignment approved for the student and removes the
// student's queue entry. A missing entry is fine; approval can also come
// outside queue hours.
func (s *QueueService) Approve(ctx context.Context, req ApproveAssignmentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid approval payload")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.assignments.ApproveForStudent(ctx, req.StudentID, req.CourseID, req.AssignmentNumber); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found for student in course")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve assignment")
	}
	if err := s.repo.DeleteEntryByStudent(ctx, req.StudentID); err != nil && err != sql.ErrNoRows {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to dequeue student")
	}
	s.logger.Info("assignment approved",
		zap.String("student_id", req.StudentID),
		zap.String("course_id", req.CourseID),
		zap.Int("assignment_number", req.AssignmentNumber))
	return nil
}

// ListEntries returns the course queue in FIFO order.
func (s *QueueService) ListEntries(ctx context.Context, courseID string) ([]models.QueueEntryDetail, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	entries, err := s.repo.ListEntries(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list queue entries")
	}
	return entries, nil
}

// PurgeEntries drops every entry of a course queue. Exposed for the
// background purge handler.
func (s *QueueService) PurgeEntries(ctx context.Context, courseID string) error {
	if err := s.repo.PurgeEntries(ctx, courseID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to purge queue entries")
	}
	return nil
}

func (s *QueueService) schedulePurge(ctx context.Context, courseID string) {
	if s.purge == nil {
		if err := s.PurgeEntries(ctx, courseID); err != nil {
			s.logger.Error("queue purge failed", zap.String("course_id", courseID), zap.Error(err))
		}
		return
	}
	job := jobs.Job{ID: uuid.NewString(), Type: PurgeJobType, Payload: courseID}
	if err := s.purge.Enqueue(job); err != nil {
		s.logger.Error("failed to schedule queue purge", zap.String("course_id", courseID), zap.Error(err))
	}
}
