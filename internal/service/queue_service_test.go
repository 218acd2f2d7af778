package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mkleiven/coursequeue-api/internal/models"
	appErrors "github.com/mkleiven/coursequeue-api/pkg/errors"
)

type mockQueueRepo struct {
	queues  map[string]models.Queue
	entries map[string]models.QueueEntry
	purged  []string
}

func (m *mockQueueRepo) FindByCourse(ctx context.Context, courseID string) (*models.Queue, error) {
	if q, ok := m.queues[courseID]; ok {
		return &q, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockQueueRepo) SetActive(ctx context.Context, courseID string, active bool) error {
	q, ok := m.queues[courseID]
	if !ok {
		return sql.ErrNoRows
	}
	q.Active = active
	m.queues[courseID] = q
	return nil
}

func (m *mockQueueRepo) CreateEntry(ctx context.Context, entry *models.QueueEntry) error {
	if m.entries == nil {
		m.entries = make(map[string]models.QueueEntry)
	}
	if entry.ID == "" {
		entry.ID = "new-entry"
	}
	m.entries[entry.StudentID] = *entry
	return nil
}

func (m *mockQueueRepo) FindEntryByStudent(ctx context.Context, studentID string) (*models.QueueEntry, error) {
	if e, ok := m.entries[studentID]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockQueueRepo) DeleteEntryByStudent(ctx context.Context, studentID string) error {
	if _, ok := m.entries[studentID]; !ok {
		return sql.ErrNoRows
	}
	delete(m.entries, studentID)
	return nil
}

func (m *mockQueueRepo) UpdateEntryStatus(ctx context.Context, studentID, courseID string, status models.QueueStatus) error {
	e, ok := m.entries[studentID]
	if !ok || e.CourseID != courseID {
		return sql.ErrNoRows
	}
	e.Status = status
	m.entries[studentID] = e
	return nil
}

func (m *mockQueueRepo) ListEntries(ctx context.Context, courseID string) ([]models.QueueEntryDetail, error) {
	var list []models.QueueEntryDetail
	for _, e := range m.entries {
		if e.CourseID == courseID {
			list = append(list, models.QueueEntryDetail{QueueEntry: e})
		}
	}
	return list, nil
}

func (m *mockQueueRepo) PurgeEntries(ctx context.Context, courseID string) error {
	for id, e := range m.entries {
		if e.CourseID == courseID {
			delete(m.entries, id)
		}
	}
	m.purged = append(m.purged, courseID)
	return nil
}

type mockCourseReader struct {
	courses map[string]*models.Course
}

func (m *mockCourseReader) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

type mockStudentReader struct {
	students map[string]*models.Student
}

func (m *mockStudentReader) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type mockApprover struct {
	approved map[string]bool
	missing  bool
}

func (m *mockApprover) ApproveForStudent(ctx context.Context, studentID, courseID string, assignmentNumber int) error {
	if m.missing {
		return sql.ErrNoRows
	}
	if m.approved == nil {
		m.approved = make(map[string]bool)
	}
	m.approved[studentID] = true
	return nil
}

func newQueueService(repo *mockQueueRepo, courses *mockCourseReader, students *mockStudentReader, approver *mockApprover) *QueueService {
	return NewQueueService(repo, courses, students, approver, nil, nil, validator.New(), zap.NewNop())
}

func validJoinRequest() JoinQueueRequest {
	return JoinQueueRequest{
		StudentID:        "s1",
		CourseID:         "c1",
		AssignmentNumber: 3,
		HelpRequested:    true,
		Campus:           "Gloshaugen",
		Building:         "Realfagbygget",
		Room:             "R50",
		TableNr:          12,
		LocationType:     models.LocationPhysical,
	}
}

func TestQueueServiceToggleAndReadback(t *testing.T) {
	repo := &mockQueueRepo{queues: map[string]models.Queue{"c1": {ID: "q1", CourseID: "c1", Active: false}}}
	svc := newQueueService(repo, &mockCourseReader{}, &mockStudentReader{}, &mockApprover{})

	active, err := svc.IsActive(context.Background(), "c1")
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, svc.SetActive(context.Background(), ToggleQueueRequest{CourseID: "c1", Active: true}))

	active, err = svc.IsActive(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, active)
}

func TestQueueServiceToggleMissingQueue(t *testing.T) {
	svc := newQueueService(&mockQueueRepo{}, &mockCourseReader{}, &mockStudentReader{}, &mockApprover{})

	err := svc.SetActive(context.Background(), ToggleQueueRequest{CourseID: "missing", Active: true})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestQueueServiceDeactivatePurgesEntries(t *testing.T) {
	repo := &mockQueueRepo{
		queues:  map[string]models.Queue{"c1": {ID: "q1", CourseID: "c1", Active: true}},
		entries: map[string]models.QueueEntry{"s1": {ID: "e1", StudentID: "s1", CourseID: "c1"}},
	}
	svc := newQueueService(repo, &mockCourseReader{}, &mockStudentReader{}, &mockApprover{})

	require.NoError(t, svc.SetActive(context.Background(), ToggleQueueRequest{CourseID: "c1", Active: false}))
	assert.Contains(t, repo.purged, "c1")
	assert.Empty(t, repo.entries)
}

func TestQueueServiceJoin(t *testing.T) {
	repo := &mockQueueRepo{}
	courses := &mockCourseReader{courses: map[string]*models.Course{"c1": {ID: "c1"}}}
	students := &mockStudentReader{students: map[string]*models.Student{"s1": {Person: models.Person{ID: "s1"}}}}
	svc := newQueueService(repo, courses, students, &mockApprover{})

	entry, err := svc.Join(context.Background(), validJoinRequest())
	require.NoError(t, err)
	assert.Equal(t, models.QueueStatusWaiting, entry.Status)
	assert.Equal(t, models.LocationPhysical, entry.LocationType)
}

func TestQueueServiceJoinTwiceConflicts(t *testing.T) {
	repo := &mockQueueRepo{}
	courses := &mockCourseReader{courses: map[string]*models.Course{"c1": {ID: "c1"}}}
	students := &mockStudentReader{students: map[string]*models.Student{"s1": {Person: models.Person{ID: "s1"}}}}
	svc := newQueueService(repo, courses, students, &mockApprover{})

	_, err := svc.Join(context.Background(), validJoinRequest())
	require.NoError(t, err)

	_, err = svc.Join(context.Background(), validJoinRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDomain.Code, appErrors.FromError(err).Code)
}

func TestQueueServiceJoinMissingCourse(t *testing.T) {
	students := &mockStudentReader{students: map[string]*models.Student{"s1": {Person: models.Person{ID: "s1"}}}}
	svc := newQueueService(&mockQueueRepo{}, &mockCourseReader{}, students, &mockApprover{})

	_, err := svc.Join(context.Background(), validJoinRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestQueueServiceChangeAndReadState(t *testing.T) {
	repo := &mockQueueRepo{entries: map[string]models.QueueEntry{"s1": {ID: "e1", StudentID: "s1", CourseID: "c1", Status: models.QueueStatusWaiting}}}
	svc := newQueueService(repo, &mockCourseReader{}, &mockStudentReader{}, &mockApprover{})

	require.NoError(t, svc.SetStudentState(context.Background(), ChangeStateRequest{StudentID: "s1", CourseID: "c1", Status: models.QueueStatusBeingHelped}))

	entry, err := svc.GetStudentState(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, models.QueueStatusBeingHelped, entry.Status)
}

func TestQueueServiceApproveDequeues(t *testing.T) {
	repo := &mockQueueRepo{entries: map[string]models.QueueEntry{"s1": {ID: "e1", StudentID: "s1", CourseID: "c1"}}}
	students := &mockStudentReader{students: map[string]*models.Student{"s1": {Person: models.Person{ID: "s1"}}}}
	approver := &mockApprover{}
	svc := newQueueService(repo, &mockCourseReader{}, students, approver)

	err := svc.Approve(context.Background(), ApproveAssignmentRequest{StudentID: "s1", CourseID: "c1", AssignmentNumber: 3})
	require.NoError(t, err)
	assert.True(t, approver.approved["s1"])
	assert.Empty(t, repo.entries)
}

func TestQueueServiceApproveUnknownAssignment(t *testing.T) {
	students := &mockStudentReader{students: map[string]*models.Student{"s1": {Person: models.Person{ID: "s1"}}}}
	svc := newQueueService(&mockQueueRepo{}, &mockCourseReader{}, students, &mockApprover{missing: true})

	err := svc.Approve(context.Background(), ApproveAssignmentRequest{StudentID: "s1", CourseID: "c1", AssignmentNumber: 99})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestQueueServiceLeaveMissingEntry(t *testing.T) {
	svc := newQueueService(&mockQueueRepo{}, &mockCourseReader{}, &mockStudentReader{}, &mockApprover{})

	err := svc.Leave(context.Background(), "s1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
