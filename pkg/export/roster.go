package export

// RosterRow is one student line in a course roster export.
type RosterRow struct {
	FirstName         string
	LastName          string
	Email             string
	ApprovedCount     int
	RequiredApprovals int
}

// Roster is the exportable view of a course membership list.
type Roster struct {
	CourseCode string
	CourseName string
	Rows       []RosterRow
}

var rosterHeaders = []string{"First name", "Last name", "Email", "Approved", "Required"}
