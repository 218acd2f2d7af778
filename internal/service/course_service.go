package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mkleiven/coursequeue-api/internal/models"
	appErrors "github.com/mkleiven/coursequeue-api/pkg/errors"
	"github.com/mkleiven/coursequeue-api/pkg/export"
)

const courseListCacheKey = "courses:list"

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error)
	ListForStudent(ctx context.Context, studentID string) ([]models.Course, error)
	ListForAssistant(ctx context.Context, studentID string) ([]models.Course, error)
	ListStudents(ctx context.Context, courseID string) ([]models.Student, error)
	AddStudent(ctx context.Context, courseID, studentID string) error
	AddTeacher(ctx context.Context, courseID, teacherID string) error
	AddAssistant(ctx context.Context, courseID, studentID string) error
	RemoveStudent(ctx context.Context, courseID, studentID string) error
}

type studentStore interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	Delete(ctx context.Context, id string) error
}

type teacherReader interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	FindByEmail(ctx context.Context, email string) (*models.Teacher, error)
}

type assignmentRepository interface {
	ListGroupsByCourse(ctx context.Context, courseID string) ([]models.AssignmentGroup, error)
	ListAssignmentsByGroup(ctx context.Context, groupID string) ([]models.Assignment, error)
	CreateGroup(ctx context.Context, group *models.AssignmentGroup, numbers []int) error
	ListByStudent(ctx context.Context, studentID string) ([]models.AssignmentRecord, error)
	ListByStudentInCourse(ctx context.Context, studentID, courseID string) ([]models.AssignmentRecord, error)
	CountApprovedByStudent(ctx context.Context, studentID string) (int, error)
	AttachCourseAssignments(ctx context.Context, studentID, courseID string) error
}

// CreateGroupSpec describes one assignment group inside a course payload.
type CreateGroupSpec struct {
	OrderNr            int   `json:"order_nr"`
	MinApprovedInGroup int   `json:"min_approved_in_group"`
	AssignmentNumbers  []int `json:"assignment_numbers"`
}

// CreateCourseRequest describes course creation payload.
type CreateCourseRequest struct {
	CourseCode             string            `json:"course_code" validate:"required"`
	Name                   string            `json:"name" validate:"required"`
	StartDate              time.Time         `json:"start_date" validate:"required"`
	ExpectedEndDate        time.Time         `json:"expected_end_date" validate:"required"`
	AssignmentCount        int               `json:"assignment_count" validate:"required,gt=0"`
	MinApprovedAssignments int               `json:"min_approved_assignments" validate:"required,gt=0"`
	PartCount              int               `json:"part_count"`
	Groups                 []CreateGroupSpec `json:"groups"`
}

// AddGroupRequest describes an assignment group added to an existing course.
type AddGroupRequest struct {
	CourseID           string `json:"course_id" validate:"required"`
	OrderNr            int    `json:"order_nr"`
	MinApprovedInGroup int    `json:"min_approved_in_group"`
	AssignmentNumbers  []int  `json:"assignment_numbers" validate:"required,min=1"`
}

// MembershipRequest binds a person, identified by email, to a course.
type MembershipRequest struct {
	CourseID string `json:"course_id" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

// UpdateDatesRequest carries new course dates.
type UpdateDatesRequest struct {
	StartDate       time.Time `json:"start_date" validate:"required"`
	ExpectedEndDate time.Time `json:"expected_end_date" validate:"required"`
}

// UpdateThresholdsRequest carries new assignment thresholds.
type UpdateThresholdsRequest struct {
	AssignmentCount        int `json:"assignment_count" validate:"required,gt=0"`
	MinApprovedAssignments int `json:"min_approved_assignments" validate:"required,gt=0"`
	PartCount              int `json:"part_count"`
}

// CourseService orchestrates course administration: lifecycle, membership
// and per-student assignment bookkeeping.
type CourseService struct {
	repo        courseRepository
	students    studentStore
	teachers    teacherReader
	assignments assignmentRepository
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(repo courseRepository, students studentStore, teachers teacherReader, assignments assignmentRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, students: students, teachers: teachers, assignments: assignments, cache: cache, validator: validate, logger: logger}
}

// Create validates and persists a new course together with its inactive
// queue and any initial assignment groups.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course := &models.Course{
		CourseCode:             req.CourseCode,
		Name:                   req.Name,
		StartDate:              req.StartDate,
		ExpectedEndDate:        req.ExpectedEndDate,
		AssignmentCount:        req.AssignmentCount,
		MinApprovedAssignments: req.MinApprovedAssignments,
		PartCount:              req.PartCount,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	for _, spec := range req.Groups {
		group := &models.AssignmentGroup{CourseID: course.ID, OrderNr: spec.OrderNr, MinApprovedInGroup: spec.MinApprovedInGroup}
		if err := s.assignments.CreateGroup(ctx, group, spec.AssignmentNumbers); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment group")
		}
	}
	s.invalidateListCache(ctx)
	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("course_code", course.CourseCode))
	return course, nil
}

// Get returns one course by ID.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// List returns all courses, served from cache when possible.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	var cached []models.Course
	if hit, err := s.cache.Get(ctx, courseListCacheKey, &cached); err == nil && hit {
		return cached, nil
	}
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	if err := s.cache.Set(ctx, courseListCacheKey, courses); err != nil {
		s.logger.Warn("course list cache write failed", zap.Error(err))
	}
	return courses, nil
}

// ListByTeacher returns the courses a teacher teaches.
func (s *CourseService) ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error) {
	if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	courses, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher courses")
	}
	return courses, nil
}

// ListForStudent returns the courses a student is enrolled in.
func (s *CourseService) ListForStudent(ctx context.Context, studentID string) ([]models.Course, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	courses, err := s.repo.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student courses")
	}
	return courses, nil
}

// ListForAssistant returns the courses a student assists in.
func (s *CourseService) ListForAssistant(ctx context.Context, studentID string) ([]models.Course, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	courses, err := s.repo.ListForAssistant(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assistant courses")
	}
	return courses, nil
}

// ListStudents returns the course roster with per-student approved counts
// scoped to the course.
func (s *CourseService) ListStudents(ctx context.Context, courseID string) ([]models.RosterEntry, error) {
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}
	students, err := s.repo.ListStudents(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course students")
	}
	roster := make([]models.RosterEntry, 0, len(students))
	for _, student := range students {
		records, err := s.assignments.ListByStudentInCourse(ctx, student.ID, courseID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student assignments")
		}
		approved := 0
		for _, record := range records {
			if record.Approved {
				approved++
			}
		}
		roster = append(roster, models.RosterEntry{
			FirstName:     student.FirstName,
			LastName:      student.LastName,
			Email:         student.Email,
			ApprovedCount: approved,
		})
	}
	return roster, nil
}

// AddStudent enrolls a student, resolved by email, into a course and links
// the course's assignments to the student. Re-enrollment is a no-op.
func (s *CourseService) AddStudent(ctx context.Context, req MembershipRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid membership payload")
	}
	if _, err := s.Get(ctx, req.CourseID); err != nil {
		return err
	}
	student, err := s.students.FindByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.repo.AddStudent(ctx, req.CourseID, student.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll student")
	}
	if err := s.assignments.AttachCourseAssignments(ctx, student.ID, req.CourseID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to attach course assignments")
	}
	return nil
}

// AddTeacher binds a teacher, resolved by email, to a course.
func (s *CourseService) AddTeacher(ctx context.Context, req MembershipRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid membership payload")
	}
	if _, err := s.Get(ctx, req.CourseID); err != nil {
		return err
	}
	teacher, err := s.teachers.FindByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if err := s.repo.AddTeacher(ctx, req.CourseID, teacher.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add course teacher")
	}
	return nil
}

// AddAssistant binds a student assistant, resolved by email, to a course.
func (s *CourseService) AddAssistant(ctx context.Context, req MembershipRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid membership payload")
	}
	if _, err := s.Get(ctx, req.CourseID); err != nil {
		return err
	}
	student, err := s.students.FindByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.repo.AddAssistant(ctx, req.CourseID, student.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add course assistant")
	}
	return nil
}

// UnenrollStudent removes the membership edge between a course and the
// student resolved by email. The student record is kept.
func (s *CourseService) UnenrollStudent(ctx context.Context, req MembershipRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid membership payload")
	}
	if _, err := s.Get(ctx, req.CourseID); err != nil {
		return err
	}
	student, err := s.students.FindByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.repo.RemoveStudent(ctx, req.CourseID, student.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unenroll student")
	}
	return nil
}

// DeleteStudent hard-deletes the student record; enrollments, assignment
// associations and any queue entry cascade.
func (s *CourseService) DeleteStudent(ctx context.Context, studentID string) error {
	if err := s.students.Delete(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}

// Archive flags the course as archived and drops its queue.
func (s *CourseService) Archive(ctx context.Context, courseID string) error {
	if err := s.repo.Archive(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive course")
	}
	s.invalidateCourseCaches(ctx, courseID)
	s.logger.Info("course archived", zap.String("course_id", courseID))
	return nil
}

// Delete removes the course and everything hanging off it.
func (s *CourseService) Delete(ctx context.Context, courseID string) error {
	if err := s.repo.Delete(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.invalidateCourseCaches(ctx, courseID)
	s.logger.Info("course deleted", zap.String("course_id", courseID))
	return nil
}

// AddAssignmentGroup creates an assignment group on an existing course.
// Assignment numbers already owned by other groups of the course migrate
// to the new group.
func (s *CourseService) AddAssignmentGroup(ctx context.Context, req AddGroupRequest) (*models.AssignmentGroup, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment group payload")
	}
	if _, err := s.Get(ctx, req.CourseID); err != nil {
		return nil, err
	}
	group := &models.AssignmentGroup{CourseID: req.CourseID, OrderNr: req.OrderNr, MinApprovedInGroup: req.MinApprovedInGroup}
	if err := s.assignments.CreateGroup(ctx, group, req.AssignmentNumbers); err != nil {
		s.logger.Error("assignment group creation failed", zap.String("course_id", req.CourseID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment group")
	}
	return group, nil
}

// ListGroups returns the assignment groups of a course with their
// assignments.
func (s *CourseService) ListGroups(ctx context.Context, courseID string) ([]models.GroupWithAssignments, error) {
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}
	groups, err := s.assignments.ListGroupsByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignment groups")
	}
	out := make([]models.GroupWithAssignments, 0, len(groups))
	for _, group := range groups {
		assignments, err := s.assignments.ListAssignmentsByGroup(ctx, group.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list group assignments")
		}
		out = append(out, models.GroupWithAssignments{Group: group, Assignments: assignments})
	}
	return out, nil
}

// AssignmentsForStudent returns the student's approved assignments across
// all courses.
func (s *CourseService) AssignmentsForStudent(ctx context.Context, studentID string) ([]models.AssignmentRecord, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	records, err := s.assignments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student assignments")
	}
	return approvedOnly(records), nil
}

// AssignmentsForStudentInCourse returns the student's approved assignments
// within one course.
func (s *CourseService) AssignmentsForStudentInCourse(ctx context.Context, studentID, courseID string) ([]models.AssignmentRecord, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}
	records, err := s.assignments.ListByStudentInCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student assignments")
	}
	return approvedOnly(records), nil
}

// CountApprovedAssignments counts a student's approved assignments across
// all courses.
func (s *CourseService) CountApprovedAssignments(ctx context.Context, studentID string) (int, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	count, err := s.assignments.CountApprovedByStudent(ctx, studentID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count approved assignments")
	}
	return count, nil
}

// UpdateDates writes new start and expected end dates on a course.
func (s *CourseService) UpdateDates(ctx context.Context, courseID string, req UpdateDatesRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid dates payload")
	}
	course, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	course.StartDate = req.StartDate
	course.ExpectedEndDate = req.ExpectedEndDate
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course dates")
	}
	s.invalidateListCache(ctx)
	return course, nil
}

// UpdateThresholds writes new assignment thresholds on a course.
func (s *CourseService) UpdateThresholds(ctx context.Context, courseID string, req UpdateThresholdsRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid thresholds payload")
	}
	course, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	course.AssignmentCount = req.AssignmentCount
	course.MinApprovedAssignments = req.MinApprovedAssignments
	course.PartCount = req.PartCount
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course thresholds")
	}
	s.invalidateListCache(ctx)
	return course, nil
}

// MinApprovedForCourse returns the approval threshold of a course.
func (s *CourseService) MinApprovedForCourse(ctx context.Context, courseID string) (int, error) {
	course, err := s.Get(ctx, courseID)
	if err != nil {
		return 0, err
	}
	return course.MinApprovedAssignments, nil
}

// Roster builds the exportable roster of a course.
func (s *CourseService) Roster(ctx context.Context, courseID string) (*export.Roster, error) {
	course, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	entries, err := s.ListStudents(ctx, courseID)
	if err != nil {
		return nil, err
	}
	roster := &export.Roster{CourseCode: course.CourseCode, CourseName: course.Name}
	for _, entry := range entries {
		roster.Rows = append(roster.Rows, export.RosterRow{
			FirstName:         entry.FirstName,
			LastName:          entry.LastName,
			Email:             entry.Email,
			ApprovedCount:     entry.ApprovedCount,
			RequiredApprovals: course.MinApprovedAssignments,
		})
	}
	return roster, nil
}

func (s *CourseService) invalidateListCache(ctx context.Context) {
	s.cache.Invalidate(ctx, courseListCacheKey)
}

// invalidateCourseCaches drops the cached course list together with the
// course's queue flag. Archive and delete both remove the queue row, so a
// cached flag would outlive the queue otherwise.
func (s *CourseService) invalidateCourseCaches(ctx context.Context, courseID string) {
	s.cache.Invalidate(ctx, courseListCacheKey, queueActiveCacheKey(courseID))
}

func approvedOnly(records []models.AssignmentRecord) []models.AssignmentRecord {
	out := make([]models.AssignmentRecord, 0, len(records))
	for _, record := range records {
		if record.Approved {
			out = append(out, record)
		}
	}
	return out
}
