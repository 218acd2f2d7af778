package models

// AssignmentGroup bundles assignments within a course. Order and the
// per-group approval threshold come from the course staff.
type AssignmentGroup struct {
	ID                 string `db:"id" json:"id"`
	CourseID           string `db:"course_id" json:"course_id"`
	OrderNr            int    `db:"order_nr" json:"order_nr"`
	MinApprovedInGroup int    `db:"min_approved_in_group" json:"min_approved_in_group"`
}

// Assignment belongs to exactly one group at a time. Students reference
// assignments through the student_assignments association table, which
// carries the per-student approved flag.
type Assignment struct {
	ID               string `db:"id" json:"id"`
	GroupID          string `db:"group_id" json:"group_id"`
	AssignmentNumber int    `db:"assignment_number" json:"assignment_number"`
}

// StudentAssignment is the association record between a student and an
// assignment. Approval is a property of the association, not of the
// assignment row shared between students.
type StudentAssignment struct {
	StudentID    string `db:"student_id" json:"student_id"`
	AssignmentID string `db:"assignment_id" json:"assignment_id"`
	Approved     bool   `db:"approved" json:"approved"`
}

// AssignmentRecord is the outward shape for per-student assignment
// listings; only approved assignments are reported.
type AssignmentRecord struct {
	AssignmentNumber int  `db:"assignment_number" json:"assignment_number"`
	Approved         bool `db:"approved" json:"approved"`
}

// GroupWithAssignments pairs a group with its member assignments for
// course creation and group listing.
type GroupWithAssignments struct {
	Group       AssignmentGroup `json:"group"`
	Assignments []Assignment    `json:"assignments"`
}
