package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkleiven/coursequeue-api/internal/models"
)

func TestAssignmentRepositoryCreateGroupMigratesNumbers(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM assignments WHERE group_id IN").
		WithArgs("c1", 1, 2).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO assignment_groups").
		WithArgs(sqlmock.AnyArg(), "c1", 1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO assignments").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO assignments").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	group := &models.AssignmentGroup{CourseID: "c1", OrderNr: 1, MinApprovedInGroup: 2}
	require.NoError(t, repo.CreateGroup(context.Background(), group, []int{1, 2}))
	assert.NotEmpty(t, group.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryListByStudentInCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	rows := sqlmock.NewRows([]string{"assignment_number", "approved"}).
		AddRow(1, true).
		AddRow(2, false)
	mock.ExpectQuery("SELECT a.assignment_number, sa.approved FROM student_assignments sa").
		WithArgs("s1", "c1").
		WillReturnRows(rows)

	records, err := repo.ListByStudentInCourse(context.Background(), "s1", "c1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].Approved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryCountApproved(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM student_assignments WHERE student_id = $1 AND approved = TRUE")).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountApprovedByStudent(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryAttachCourseAssignments(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("INSERT INTO student_assignments").
		WithArgs("s1", "c1").
		WillReturnResult(sqlmock.NewResult(0, 5))

	require.NoError(t, repo.AttachCourseAssignments(context.Background(), "s1", "c1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryApproveForStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("UPDATE student_assignments SET approved = TRUE").
		WithArgs("s1", "c1", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ApproveForStudent(context.Background(), "s1", "c1", 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryApproveForStudentMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec("UPDATE student_assignments SET approved = TRUE").
		WithArgs("s1", "c1", 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ApproveForStudent(context.Background(), "s1", "c1", 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
