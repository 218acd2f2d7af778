package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mkleiven/coursequeue-api/internal/models"
	appErrors "github.com/mkleiven/coursequeue-api/pkg/errors"
)

type studentWriter interface {
	Create(ctx context.Context, student *models.Student) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type teacherWriter interface {
	Create(ctx context.Context, teacher *models.Teacher) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// CreatePersonRequest describes student and teacher registration payloads.
// Email is the external identifier used by course membership endpoints.
type CreatePersonRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Pronouns  string `json:"pronouns"`
}

// PersonService registers the student and teacher records that course
// membership and queue operations reference.
type PersonService struct {
	students  studentWriter
	teachers  teacherWriter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPersonService constructs PersonService.
func NewPersonService(students studentWriter, teachers teacherWriter, validate *validator.Validate, logger *zap.Logger) *PersonService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersonService{students: students, teachers: teachers, validator: validate, logger: logger}
}

// CreateStudent registers a student. Email must be unique.
func (s *PersonService) CreateStudent(ctx context.Context, req CreatePersonRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	exists, err := s.students.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDomain, "student email already registered")
	}
	student := &models.Student{Person: models.Person{FirstName: req.FirstName, LastName: req.LastName, Email: req.Email, Pronouns: req.Pronouns}}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.logger.Info("student created", zap.String("student_id", student.ID))
	return student, nil
}

// CreateTeacher registers a teacher. Email must be unique.
func (s *PersonService) CreateTeacher(ctx context.Context, req CreatePersonRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	exists, err := s.teachers.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check teacher email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDomain, "teacher email already registered")
	}
	teacher := &models.Teacher{Person: models.Person{FirstName: req.FirstName, LastName: req.LastName, Email: req.Email, Pronouns: req.Pronouns}}
	if err := s.teachers.Create(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}
	s.logger.Info("teacher created", zap.String("teacher_id", teacher.ID))
	return teacher, nil
}
