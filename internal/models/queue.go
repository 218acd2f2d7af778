package models

import "time"

// QueueStatus tracks a student's progress through the help queue.
type QueueStatus string

// Possible queue entry statuses.
const (
	QueueStatusWaiting     QueueStatus = "WAITING"
	QueueStatusBeingHelped QueueStatus = "BEING_HELPED"
	QueueStatusDone        QueueStatus = "DONE"
)

// LocationType distinguishes physical from remote queue entries.
type LocationType string

// Possible location types.
const (
	LocationPhysical LocationType = "PHYSICAL"
	LocationDigital  LocationType = "DIGITAL"
)

// Queue is the per-course help queue toggle. It is the dependent side of
// the course relation: archiving or deleting the course removes it.
type Queue struct {
	ID       string `db:"id" json:"id"`
	CourseID string `db:"course_id" json:"course_id"`
	Active   bool   `db:"active" json:"active"`
}

// QueueEntry is a student's live entry in a course queue. A student holds
// at most one entry at a time.
type QueueEntry struct {
	ID               string       `db:"id" json:"id"`
	StudentID        string       `db:"student_id" json:"student_id"`
	CourseID         string       `db:"course_id" json:"course_id"`
	AssignmentNumber int          `db:"assignment_number" json:"assignment_number"`
	HelpRequested    bool         `db:"help_requested" json:"help_requested"`
	Status           QueueStatus  `db:"status" json:"status"`
	Campus           string       `db:"campus" json:"campus"`
	Building         string       `db:"building" json:"building"`
	Room             string       `db:"room" json:"room"`
	TableNr          int          `db:"table_nr" json:"table_nr"`
	LocationType     LocationType `db:"location_type" json:"location_type"`
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`
}

// QueueEntryDetail enriches QueueEntry with student identity for queue
// listings.
type QueueEntryDetail struct {
	QueueEntry
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
}
