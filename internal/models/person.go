package models

import "time"

// Person carries the identity fields shared by students and teachers.
// It is embedded by composition; there is no polymorphic person table.
type Person struct {
	ID        string    `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     string    `db:"email" json:"email"`
	Pronouns  string    `db:"pronouns" json:"pronouns"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Student is a learner who can enroll in courses, hold assignments and
// occupy at most one queue entry at a time.
type Student struct {
	Person
}

// Teacher is a course staff member.
type Teacher struct {
	Person
}

// RosterEntry is the outward view of a student in a course membership
// list, with the approved-assignment tally used by the frontend.
type RosterEntry struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	ApprovedCount int    `json:"approved_assignments_in_course"`
}
