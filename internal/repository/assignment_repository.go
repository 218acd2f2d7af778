package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mkleiven/coursequeue-api/internal/models"
)

// AssignmentRepository manages assignment groups, assignments and the
// per-student approval association.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs a new assignment repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListGroupsByCourse returns the assignment groups of a course in order.
func (r *AssignmentRepository) ListGroupsByCourse(ctx context.Context, courseID string) ([]models.AssignmentGroup, error) {
	const query = `SELECT id, course_id, order_nr, min_approved_in_group FROM assignment_groups WHERE course_id = $1 ORDER BY order_nr`
	var groups []models.AssignmentGroup
	if err := r.db.SelectContext(ctx, &groups, query, courseID); err != nil {
		return nil, fmt.Errorf("list assignment groups: %w", err)
	}
	return groups, nil
}

// ListAssignmentsByGroup returns the assignments of one group.
func (r *AssignmentRepository) ListAssignmentsByGroup(ctx context.Context, groupID string) ([]models.Assignment, error) {
	const query = `SELECT id, group_id, assignment_number FROM assignments WHERE group_id = $1 ORDER BY assignment_number`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, groupID); err != nil {
		return nil, fmt.Errorf("list group assignments: %w", err)
	}
	return assignments, nil
}

// CreateGroup persists a group and its assignments, first migrating any
// assignment numbers already owned by other groups of the same course out
// of those groups. Assignment ownership within a course is exclusive;
// last write wins.
func (r *AssignmentRepository) CreateGroup(ctx context.Context, group *models.AssignmentGroup, numbers []int) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create group: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if len(numbers) > 0 {
		placeholders := make([]string, len(numbers))
		args := []interface{}{group.CourseID}
		for i, n := range numbers {
			placeholders[i] = fmt.Sprintf("$%d", i+2)
			args = append(args, n)
		}
		query := fmt.Sprintf(`DELETE FROM assignments WHERE group_id IN (SELECT id FROM assignment_groups WHERE course_id = $1) AND assignment_number IN (%s)`, strings.Join(placeholders, ", "))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("migrate group assignments: %w", err)
		}
	}

	const insertGroup = `INSERT INTO assignment_groups (id, course_id, order_nr, min_approved_in_group) VALUES (:id, :course_id, :order_nr, :min_approved_in_group)`
	if _, err := tx.NamedExecContext(ctx, insertGroup, group); err != nil {
		return fmt.Errorf("create assignment group: %w", err)
	}

	const insertAssignment = `INSERT INTO assignments (id, group_id, assignment_number) VALUES ($1, $2, $3)`
	for _, n := range numbers {
		if _, err := tx.ExecContext(ctx, insertAssignment, uuid.NewString(), group.ID, n); err != nil {
			return fmt.Errorf("create assignment %d: %w", n, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create group: %w", err)
	}
	return nil
}

// ListByStudent returns a student's assignment records across courses.
func (r *AssignmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.AssignmentRecord, error) {
	const query = `SELECT a.assignment_number, sa.approved FROM student_assignments sa JOIN assignments a ON a.id = sa.assignment_id WHERE sa.student_id = $1 ORDER BY a.assignment_number`
	var records []models.AssignmentRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list student assignments: %w", err)
	}
	return records, nil
}

// ListByStudentInCourse returns a student's assignment records scoped to
// one course via the assignment -> group -> course chain.
func (r *AssignmentRepository) ListByStudentInCourse(ctx context.Context, studentID, courseID string) ([]models.AssignmentRecord, error) {
	const query = `SELECT a.assignment_number, sa.approved FROM student_assignments sa
JOIN assignments a ON a.id = sa.assignment_id
JOIN assignment_groups g ON g.id = a.group_id
WHERE sa.student_id = $1 AND g.course_id = $2 ORDER BY a.assignment_number`
	var records []models.AssignmentRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID, courseID); err != nil {
		return nil, fmt.Errorf("list student assignments in course: %w", err)
	}
	return records, nil
}

// CountApprovedByStudent counts a student's approved assignments.
func (r *AssignmentRepository) CountApprovedByStudent(ctx context.Context, studentID string) (int, error) {
	const query = `SELECT COUNT(*) FROM student_assignments WHERE student_id = $1 AND approved = TRUE`
	var count int
	if err := r.db.GetContext(ctx, &count, query, studentID); err != nil {
		return 0, fmt.Errorf("count approved assignments: %w", err)
	}
	return count, nil
}

// AttachCourseAssignments links every assignment of the course's groups
// to the student, unapproved. Already-linked assignments are untouched.
func (r *AssignmentRepository) AttachCourseAssignments(ctx context.Context, studentID, courseID string) error {
	const query = `INSERT INTO student_assignments (student_id, assignment_id, approved)
SELECT $1, a.id, FALSE FROM assignments a
JOIN assignment_groups g ON g.id = a.group_id
WHERE g.course_id = $2
ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, studentID, courseID); err != nil {
		return fmt.Errorf("attach course assignments: %w", err)
	}
	return nil
}

// ApproveForStudent marks the student's association with the assignment
// matching the number inside the course as approved. Returns
// sql.ErrNoRows when no such association exists.
func (r *AssignmentRepository) ApproveForStudent(ctx context.Context, studentID, courseID string, assignmentNumber int) error {
	const query = `UPDATE student_assignments SET approved = TRUE
WHERE student_id = $1 AND assignment_id IN (
    SELECT a.id FROM assignments a
    JOIN assignment_groups g ON g.id = a.group_id
    WHERE g.course_id = $2 AND a.assignment_number = $3
)`
	res, err := r.db.ExecContext(ctx, query, studentID, courseID, assignmentNumber)
	if err != nil {
		return fmt.Errorf("approve assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("approve assignment result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
