package handler

import (
	"bytes"
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

type fakeCourseRepo struct {
	courses  map[string]models.Course
	students map[string][]models.Student
	enrolled []string
}

func (f *fakeCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	var list []models.Course
	for _, c := range f.courses {
		list = append(list, c)
	}
	return list, nil
}

func (f *fakeCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := f.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if f.courses == nil {
		f.courses = make(map[string]models.Course)
	}
	if course.ID == "" {
		course.ID = "new-course"
	}
	f.courses[course.ID] = *course
	return nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, course *models.Course) error {
	f.courses[course.ID] = *course
	return nil
}

func (f *fakeCourseRepo) Archive(ctx context.Context, id string) error {
	c, ok := f.courses[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.Archived = true
	f.courses[id] = c
	return nil
}

func (f *fakeCourseRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.courses[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error) {
	return nil, nil
}

func (f *fakeCourseRepo) ListForStudent(ctx context.Context, studentID string) ([]models.Course, error) {
	return nil, nil
}

func (f *fakeCourseRepo) ListForAssistant(ctx context.Context, studentID string) ([]models.Course, error) {
	return nil, nil
}

func (f *fakeCourseRepo) ListStudents(ctx context.Context, courseID string) ([]models.Student, error) {
	return f.students[courseID], nil
}

func (f *fakeCourseRepo) AddStudent(ctx context.Context, courseID, studentID string) error {
	f.enrolled = append(f.enrolled, courseID+":"+studentID)
	return nil
}

func (f *fakeCourseRepo) AddTeacher(ctx context.Context, courseID, teacherID string) error {
	return nil
}

func (f *fakeCourseRepo) AddAssistant(ctx context.Context, courseID, studentID string) error {
	return nil
}

func (f *fakeCourseRepo) RemoveStudent(ctx context.Context, courseID, studentID string) error {
	return nil
}

type fakeStudentStore struct {
	byEmail map[string]*models.Student
	byID    map[string]*models.Student
}

func (f *fakeStudentStore) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentStore) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	if s, ok := f.byEmail[email]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

type fakeTeacherReader struct{}

func (f *fakeTeacherReader) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeTeacherReader) FindByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	return nil, sql.ErrNoRows
}

type fakeAssignmentRepo struct {
	records map[string][]models.AssignmentRecord
}

func (f *fakeAssignmentRepo) ListGroupsByCourse(ctx context.Context, courseID string) ([]models.AssignmentGroup, error) {
	return nil, nil
}

func (f *fakeAssignmentRepo) ListAssignmentsByGroup(ctx context.Context, groupID string) ([]models.Assignment, error) {
	return nil, nil
}

func (f *fakeAssignmentRepo) CreateGroup(ctx context.Context, group *models.AssignmentGroup, numbers []int) error {
	if group.ID == "" {
		group.ID = "new-group"
	}
	return nil
}

func (f *fakeAssignmentRepo) ListByStudent(ctx context.Context, studentID string) ([]models.AssignmentRecord, error) {
	return f.records[studentID], nil
}

func (f *fakeAssignmentRepo) ListByStudentInCourse(ctx context.Context, studentID, courseID string) ([]models.AssignmentRecord, error) {
	return f.records[studentID+":"+courseID], nil
}

func (f *fakeAssignmentRepo) CountApprovedByStudent(ctx context.Context, studentID string) (int, error) {
	return 0, nil
}

func (f *fakeAssignmentRepo) AttachCourseAssignments(ctx context.Context, studentID, courseID string) error {
	return nil
}

func newCourseRouter(repo *fakeCourseRepo, students *fakeStudentStore, assignments *fakeAssignmentRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewCourseService(repo, students, &fakeTeacherReader{}, assignments, nil, validator.New(), zap.NewNop())
	h := NewCourseHandler(svc)

	r := gin.New()
	courses := r.Group("/courses")
	courses.GET("", h.List)
	courses.GET("/:courseId", h.Get)
	courses.POST("/addNew", h.Create)
	courses.POST("/newGroup", h.AddGroup)
	courses.POST("/archive", h.Archive)
	courses.POST("/addStudent", h.AddStudent)
	courses.GET("/:courseId/export", h.Export)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCourseHandlerCreateThenNotArchived(t *testing.T) {
	repo := &fakeCourseRepo{}
	r := newCourseRouter(repo, &fakeStudentStore{}, &fakeAssignmentRepo{})

	rec := postJSON(t, r, "/courses/addNew", gin.H{
		"course_code":              "TDT4100",
		"name":                     "Object-Oriented Programming",
		"start_date":               "2026-01-06T00:00:00Z",
		"expected_end_date":        "2026-06-12T00:00:00Z",
		"assignment_count":         10,
		"min_approved_assignments": 8,
		"part_count":               2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var envelope struct {
		Data models.Course `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "TDT4100", envelope.Data.CourseCode)
	assert.False(t, envelope.Data.Archived)
}

func TestCourseHandlerCreateMissingFields(t *testing.T) {
	r := newCourseRouter(&fakeCourseRepo{}, &fakeStudentStore{}, &fakeAssignmentRepo{})

	rec := postJSON(t, r, "/courses/addNew", gin.H{"name": "No code"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCourseHandlerAddStudentMissingCourse(t *testing.T) {
	r := newCourseRouter(&fakeCourseRepo{}, &fakeStudentStore{}, &fakeAssignmentRepo{})

	rec := postJSON(t, r, "/courses/addStudent", gin.H{"course_id": "missing", "email": "ola@stud.ntnu.no"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCourseHandlerAddStudentSuccess(t *testing.T) {
	repo := &fakeCourseRepo{courses: map[string]models.Course{"c1": {ID: "c1"}}}
	students := &fakeStudentStore{byEmail: map[string]*models.Student{
		"ola@stud.ntnu.no": {Person: models.Person{ID: "s1", Email: "ola@stud.ntnu.no"}},
	}}
	r := newCourseRouter(repo, students, &fakeAssignmentRepo{})

	rec := postJSON(t, r, "/courses/addStudent", gin.H{"course_id": "c1", "email": "ola@stud.ntnu.no"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, repo.enrolled, "c1:s1")
}

func TestCourseHandlerArchive(t *testing.T) {
	repo := &fakeCourseRepo{courses: map[string]models.Course{"c1": {ID: "c1"}}}
	r := newCourseRouter(repo, &fakeStudentStore{}, &fakeAssignmentRepo{})

	rec := postJSON(t, r, "/courses/archive", gin.H{"course_id": "c1"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, repo.courses["c1"].Archived)
}

func TestCourseHandlerArchiveMissing(t *testing.T) {
	r := newCourseRouter(&fakeCourseRepo{}, &fakeStudentStore{}, &fakeAssignmentRepo{})

	rec := postJSON(t, r, "/courses/archive", gin.H{"course_id": "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCourseHandlerExportCSV(t *testing.T) {
	repo := &fakeCourseRepo{
		courses: map[string]models.Course{"c1": {ID: "c1", CourseCode: "TDT4100", Name: "OOP", MinApprovedAssignments: 8}},
		students: map[string][]models.Student{"c1": {
			{Person: models.Person{ID: "s1", FirstName: "Ola", LastName: "Nordmann", Email: "ola@stud.ntnu.no"}},
		}},
	}
	assignments := &fakeAssignmentRepo{records: map[string][]models.AssignmentRecord{
		"s1:c1": {{AssignmentNumber: 1, Approved: true}},
	}}
	r := newCourseRouter(repo, &fakeStudentStore{}, assignments)

	req := httptest.NewRequest(http.MethodGet, "/courses/c1/export?format=csv", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "ola@stud.ntnu.no")
}

func TestCourseHandlerExportBadFormat(t *testing.T) {
	repo := &fakeCourseRepo{courses: map[string]models.Course{"c1": {ID: "c1"}}}
	r := newCourseRouter(repo, &fakeStudentStore{}, &fakeAssignmentRepo{})

	req := httptest.NewRequest(http.MethodGet, "/courses/c1/export?format=xml", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
