package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mkleiven/coursequeue-api/internal/models"
	"github.com/mkleiven/coursequeue-api/internal/service"
)

type fakeQueueRepo struct {
	queues  map[string]models.Queue
	entries map[string]models.QueueEntry
}

func (f *fakeQueueRepo) FindByCourse(ctx context.Context, courseID string) (*models.Queue, error) {
	if q, ok := f.queues[courseID]; ok {
		return &q, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeQueueRepo) SetActive(ctx context.Context, courseID string, active bool) error {
	q, ok := f.queues[courseID]
	if !ok {
		return sql.ErrNoRows
	}
	q.Active = active
	f.queues[courseID] = q
	return nil
}

func (f *fakeQueueRepo) CreateEntry(ctx context.Context, entry *models.QueueEntry) error {
	if f.entries == nil {
		f.entries = make(map[string]models.QueueEntry)
	}
	if entry.ID == "" {
		entry.ID = "new-entry"
	}
	f.entries[entry.StudentID] = *entry
	return nil
}

func (f *fakeQueueRepo) FindEntryByStudent(ctx context.Context, studentID string) (*models.QueueEntry, error) {
	if e, ok := f.entries[studentID]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeQueueRepo) DeleteEntryByStudent(ctx context.Context, studentID string) error {
	if _, ok := f.entries[studentID]; !ok {
		return sql.ErrNoRows
	}
	delete(f.entries, studentID)
	return nil
}

func (f *fakeQueueRepo) UpdateEntryStatus(ctx context.Context, studentID, courseID string, status models.QueueStatus) error {
	e, ok := f.entries[studentID]
	if !ok || e.CourseID != courseID {
		return sql.ErrNoRows
	}
	e.Status = status
	f.entries[studentID] = e
	return nil
}

func (f *fakeQueueRepo) ListEntries(ctx context.Context, courseID string) ([]models.QueueEntryDetail, error) {
	var list []models.QueueEntryDetail
	for _, e := range f.entries {
		if e.CourseID == courseID {
			list = append(list, models.QueueEntryDetail{QueueEntry: e})
		}
	}
	return list, nil
}

func (f *fakeQueueRepo) PurgeEntries(ctx context.Context, courseID string) error {
	for id, e := range f.entries {
		if e.CourseID == courseID {
			delete(f.entries, id)
		}
	}
	return nil
}

type fakeCourseReader struct {
	courses map[string]*models.Course
}

func (f *fakeCourseReader) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

type fakeStudentReader struct {
	students map[string]*models.Student
}

func (f *fakeStudentReader) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := f.students[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type fakeApprover struct {
	approved []string
}

func (f *fakeApprover) ApproveForStudent(ctx context.Context, studentID, courseID string, assignmentNumber int) error {
	f.approved = append(f.approved, studentID)
	return nil
}

func newQueueRouter(repo *fakeQueueRepo, courses *fakeCourseReader, students *fakeStudentReader, approver *fakeApprover) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewQueueService(repo, courses, students, approver, nil, nil, validator.New(), zap.NewNop())
	h := NewQueueHandler(svc)

	r := gin.New()
	queues := r.Group("/queues")
	queues.POST("/newSiq", h.Join)
	queues.POST("/deleteStudent", h.Leave)
	queues.POST("/status", h.SetStatus)
	queues.GET("/status/:courseId", h.GetStatus)
	queues.POST("/changeState", h.ChangeState)
	queues.GET("/getState/:studentId", h.GetState)
	queues.POST("/students/assignments", h.Approve)
	queues.GET("/students/:courseId", h.ListEntries)
	return r
}

func TestQueueHandlerStatusToggleReadback(t *testing.T) {
	repo := &fakeQueueRepo{queues: map[string]models.Queue{"c3": {ID: "q3", CourseID: "c3", Active: false}}}
	r := newQueueRouter(repo, &fakeCourseReader{}, &fakeStudentReader{}, &fakeApprover{})

	req := httptest.NewRequest(http.MethodGet, "/queues/status/c3", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"active":false`)

	rec = postJSON(t, r, "/queues/status", gin.H{"course_id": "c3", "active": true})
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/queues/status/c3", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"active":true`)
}

func TestQueueHandlerJoin(t *testing.T) {
	repo := &fakeQueueRepo{}
	courses := &fakeCourseReader{courses: map[string]*models.Course{"c1": {ID: "c1"}}}
	students := &fakeStudentReader{students: map[string]*models.Student{"s1": {Person: models.Person{ID: "s1"}}}}
	r := newQueueRouter(repo, courses, students, &fakeApprover{})

	rec := postJSON(t, r, "/queues/newSiq", gin.H{
		"student_id":        "s1",
		"course_id":         "c1",
		"assignment_number": 3,
		"help_requested":    true,
		"campus":            "Gloshaugen",
		"building":          "Realfagbygget",
		"room":              "R50",
		"table_nr":          12,
		"location_type":     "PHYSICAL",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var envelope struct {
		Data models.QueueEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, models.QueueStatusWaiting, envelope.Data.Status)
}

func TestQueueHandlerJoinMissingCourse(t *testing.T) {
	students := &fakeStudentReader{students: map[string]*models.Student{"s1": {Person: models.Person{ID: "s1"}}}}
	r := newQueueRouter(&fakeQueueRepo{}, &fakeCourseReader{}, students, &fakeApprover{})

	rec := postJSON(t, r, "/queues/newSiq", gin.H{
		"student_id":        "s1",
		"course_id":         "missing",
		"assignment_number": 3,
		"location_type":     "DIGITAL",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQueueHandlerJoinTwiceConflicts(t *testing.T) {
	repo := &fakeQueueRepo{}
	courses := &fakeCourseReader{courses: map[string]*models.Course{"c1": {ID: "c1"}}}
	students := &fakeStudentReader{students: map[string]*models.Student{"s1": {Person: models.Person{ID: "s1"}}}}
	r := newQueueRouter(repo, courses, students, &fakeApprover{})

	payload := gin.H{"student_id": "s1", "course_id": "c1", "assignment_number": 3, "location_type": "DIGITAL"}
	rec := postJSON(t, r, "/queues/newSiq", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, r, "/queues/newSiq", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestQueueHandlerApproveDequeues(t *testing.T) {
	repo := &fakeQueueRepo{entries: map[string]models.QueueEntry{"s1": {ID: "e1", StudentID: "s1", CourseID: "c1"}}}
	students := &fakeStudentReader{students: map[string]*models.Student{"s1": {Person: models.Person{ID: "s1"}}}}
	approver := &fakeApprover{}
	r := newQueueRouter(repo, &fakeCourseReader{}, students, approver)

	rec := postJSON(t, r, "/queues/students/assignments", gin.H{"student_id": "s1", "course_id": "c1", "assignment_number": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, approver.approved, "s1")
	assert.Empty(t, repo.entries)
}

func TestQueueHandlerGetStateMissing(t *testing.T) {
	r := newQueueRouter(&fakeQueueRepo{}, &fakeCourseReader{}, &fakeStudentReader{}, &fakeApprover{})

	req := httptest.NewRequest(http.MethodGet, "/queues/getState/s404", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
