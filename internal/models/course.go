package models

import "time"

// Course represents one course offering with its assignment thresholds.
// Membership lives in join tables (course_students, course_teachers,
// course_assistants); the queue is the dependent side of a one-to-one.
type Course struct {
	ID                     string    `db:"id" json:"id"`
	CourseCode             string    `db:"course_code" json:"course_code"`
	Name                   string    `db:"name" json:"name"`
	StartDate              time.Time `db:"start_date" json:"start_date"`
	ExpectedEndDate        time.Time `db:"expected_end_date" json:"expected_end_date"`
	AssignmentCount        int       `db:"assignment_count" json:"assignment_count"`
	MinApprovedAssignments int       `db:"min_approved_assignments" json:"min_approved_assignments"`
	PartCount              int       `db:"part_count" json:"part_count"`
	Archived               bool      `db:"archived" json:"archived"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}
