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

const courseColumns = "id, course_code, name, start_date, expected_end_date, assignment_count, min_approved_assignments, part_count, archived, created_at, updated_at"

// CourseRepository manages persistence for courses, their queue row and
// the membership join tables.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a new course repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns all courses ordered by creation time.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses ORDER BY created_at DESC", courseColumns)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID returns a course record by ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE id = $1", courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// Create persists a course together with its (initially inactive) queue
// in a single transaction. The queue must not exist without the course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create course: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertCourse = `INSERT INTO courses (id, course_code, name, start_date, expected_end_date, assignment_count, min_approved_assignments, part_count, archived, created_at, updated_at)
VALUES (:id, :course_code, :name, :start_date, :expected_end_date, :assignment_count, :min_approved_assignments, :part_count, :archived, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insertCourse, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}

	const insertQueue = `INSERT INTO queues (id, course_id, active) VALUES ($1, $2, FALSE)`
	if _, err := tx.ExecContext(ctx, insertQueue, uuid.NewString(), course.ID); err != nil {
		return fmt.Errorf("create course queue: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create course: %w", err)
	}
	return nil
}

// Update writes the mutable course fields.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET course_code = :course_code, name = :name, start_date = :start_date, expected_end_date = :expected_end_date, assignment_count = :assignment_count, min_approved_assignments = :min_approved_assignments, part_count = :part_count, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// Archive flags the course as archived and deletes its queue row in one
// transaction. Returns sql.ErrNoRows when the course does not exist.
func (r *CourseRepository) Archive(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive course: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `UPDATE courses SET archived = TRUE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("archive course: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("archive course result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM queues WHERE course_id = $1`, id); err != nil {
		return fmt.Errorf("delete archived course queue: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive course: %w", err)
	}
	return nil
}

// Delete removes a course; join rows, groups and the queue cascade.
// Returns sql.ErrNoRows when the course does not exist.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete course result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByTeacher returns every course a teacher teaches.
func (r *CourseRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error) {
	const query = `SELECT c.id, c.course_code, c.name, c.start_date, c.expected_end_date, c.assignment_count, c.min_approved_assignments, c.part_count, c.archived, c.created_at, c.updated_at FROM courses c JOIN course_teachers ct ON ct.course_id = c.id WHERE ct.teacher_id = $1 ORDER BY c.created_at DESC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, teacherID); err != nil {
		return nil, fmt.Errorf("list courses by teacher: %w", err)
	}
	return courses, nil
}

// ListForStudent returns every course a student is enrolled in.
func (r *CourseRepository) ListForStudent(ctx context.Context, studentID string) ([]models.Course, error) {
	const query = `SELECT c.id, c.course_code, c.name, c.start_date, c.expected_end_date, c.assignment_count, c.min_approved_assignments, c.part_count, c.archived, c.created_at, c.updated_at FROM courses c JOIN course_students cs ON cs.course_id = c.id WHERE cs.student_id = $1 ORDER BY c.created_at DESC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, studentID); err != nil {
		return nil, fmt.Errorf("list courses for student: %w", err)
	}
	return courses, nil
}

// ListForAssistant returns every course a student assists in.
func (r *CourseRepository) ListForAssistant(ctx context.Context, studentID string) ([]models.Course, error) {
	const query = `SELECT c.id, c.course_code, c.name, c.start_date, c.expected_end_date, c.assignment_count, c.min_approved_assignments, c.part_count, c.archived, c.created_at, c.updated_at FROM courses c JOIN course_assistants ca ON ca.course_id = c.id WHERE ca.student_id = $1 ORDER BY c.created_at DESC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, studentID); err != nil {
		return nil, fmt.Errorf("list courses for assistant: %w", err)
	}
	return courses, nil
}

// ListStudents returns the students enrolled in a course.
func (r *CourseRepository) ListStudents(ctx context.Context, courseID string) ([]models.Student, error) {
	const query = `SELECT s.id, s.first_name, s.last_name, s.email, s.pronouns, s.created_at FROM students s JOIN course_students cs ON cs.student_id = s.id WHERE cs.course_id = $1 ORDER BY s.last_name, s.first_name`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, courseID); err != nil {
		return nil, fmt.Errorf("list course students: %w", err)
	}
	return students, nil
}

// AddStudent inserts the enrollment join row. Re-adding is a no-op.
func (r *CourseRepository) AddStudent(ctx context.Context, courseID, studentID string) error {
	const query = `INSERT INTO course_students (course_id, student_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, courseID, studentID); err != nil {
		return fmt.Errorf("add course student: %w", err)
	}
	return nil
}

// AddTeacher inserts the teaching join row. Re-adding is a no-op.
func (r *CourseRepository) AddTeacher(ctx context.Context, courseID, teacherID string) error {
	const query = `INSERT INTO course_teachers (course_id, teacher_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, courseID, teacherID); err != nil {
		return fmt.Errorf("add course teacher: %w", err)
	}
	return nil
}

// AddAssistant inserts the student-assistant join row. Re-adding is a no-op.
func (r *CourseRepository) AddAssistant(ctx context.Context, courseID, studentID string) error {
	const query = `INSERT INTO course_assistants (course_id, student_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, courseID, studentID); err != nil {
		return fmt.Errorf("add course assistant: %w", err)
	}
	return nil
}

// RemoveStudent deletes the enrollment join row only; the student record
// is untouched.
func (r *CourseRepository) RemoveStudent(ctx context.Context, courseID, studentID string) error {
	const query = `DELETE FROM course_students WHERE course_id = $1 AND student_id = $2`
	if _, err := r.db.ExecContext(ctx, query, courseID, studentID); err != nil {
		return fmt.Errorf("remove course student: %w", err)
	}
	return nil
}
