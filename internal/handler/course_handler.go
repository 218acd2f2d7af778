package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mkleiven/coursequeue-api/internal/service"
	appErrors "github.com/mkleiven/coursequeue-api/pkg/errors"
	"github.com/mkleiven/coursequeue-api/pkg/export"
	"github.com/mkleiven/coursequeue-api/pkg/response"
)

// CourseHandler exposes course administration endpoints.
type CourseHandler struct {
	courses *service.CourseService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses *service.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses, csv: export.NewCSVExporter(), pdf: export.NewPDFExporter()}
}

// ArchiveCourseRequest carries the course targeted for archiving.
type ArchiveCourseRequest struct {
	CourseID string `json:"course_id" binding:"required"`
}

// StudentAssignmentsRequest scopes a student's approved assignments to a course.
type StudentAssignmentsRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	CourseID  string `json:"course_id" binding:"required"`
}

// List godoc
// @Summary List all courses
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}

// Get godoc
// @Summary Get one course
// @Tags Courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// Create godoc
// @Summary Create a course with its queue and optional assignment groups
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /courses/addNew [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// AddGroup godoc
// @Summary Add an assignment group to a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.AddGroupRequest true "Group payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/newGroup [post]
func (h *CourseHandler) AddGroup(c *gin.Context) {
	var req service.AddGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	group, err := h.courses.AddAssignmentGroup(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, group)
}

// ListGroups godoc
// @Summary List the assignment groups of a course
// @Tags Courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/groups [get]
func (h *CourseHandler) ListGroups(c *gin.Context) {
	groups, err := h.courses.ListGroups(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups)
}

// Delete godoc
// @Summary Delete a course
// @Tags Courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courses.Delete(c.Request.Context(), c.Param("courseId")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": true})
}

// Archive godoc
// @Summary Archive a course and drop its queue
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body ArchiveCourseRequest true "Course reference"
// @Success 200 {object} response.Envelope
// @Router /courses/archive [post]
func (h *CourseHandler) Archive(c *gin.Context) {
	var req ArchiveCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.courses.Archive(c.Request.Context(), req.CourseID); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"archived": true})
}

// AddStudent godoc
// @Summary Enroll a student in a course by email
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.MembershipRequest true "Membership payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/addStudent [post]
func (h *CourseHandler) AddStudent(c *gin.Context) {
	var req service.MembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.courses.AddStudent(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"enrolled": true})
}

// AddTeacher godoc
// @Summary Add a teacher to a course by email
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.MembershipRequest true "Membership payload"
// @Success 201 {object} response.Envelope
// @Router /courses/addTeacher [post]
func (h *CourseHandler) AddTeacher(c *gin.Context) {
	var req service.MembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.courses.AddTeacher(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"added": true})
}

// AddAssistant godoc
// @Summary Add a student assistant to a course by email
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.MembershipRequest true "Membership payload"
// @Success 201 {object} response.Envelope
// @Router /courses/addStudentAssistant [post]
func (h *CourseHandler) AddAssistant(c *gin.Context) {
	var req service.MembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.courses.AddAssistant(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"added": true})
}

// RemoveStudent godoc
// @Summary Unenroll a student from a course; the student record is kept
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.MembershipRequest true "Membership payload"
// @Success 200 {object} response.Envelope
// @Router /courses/removeStudent [delete]
func (h *CourseHandler) RemoveStudent(c *gin.Context) {
	var req service.MembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.courses.UnenrollStudent(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"removed": true})
}

// DeleteStudent godoc
// @Summary Delete a student record entirely
// @Tags Courses
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /courses/students/{studentId} [delete]
func (h *CourseHandler) DeleteStudent(c *gin.Context) {
	if err := h.courses.DeleteStudent(c.Request.Context(), c.Param("studentId")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": true})
}

// ListByTeacher godoc
// @Summary List the courses a teacher teaches
// @Tags Courses
// @Produce json
// @Param teacherId path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /courses/teachers/{teacherId} [get]
func (h *CourseHandler) ListByTeacher(c *gin.Context) {
	courses, err := h.courses.ListByTeacher(c.Request.Context(), c.Param("teacherId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}

// ListForStudent godoc
// @Summary List the courses a student is enrolled in
// @Tags Courses
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /courses/student/{studentId} [get]
func (h *CourseHandler) ListForStudent(c *gin.Context) {
	courses, err := h.courses.ListForStudent(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}

// ListForAssistant godoc
// @Summary List the courses a student assists in
// @Tags Courses
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /courses/studentAssistants/{studentId} [get]
func (h *CourseHandler) ListForAssistant(c *gin.Context) {
	courses, err := h.courses.ListForAssistant(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}

// ListStudents godoc
// @Summary List the course roster with approved-assignment counts
// @Tags Courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/students/{courseId} [get]
func (h *CourseHandler) ListStudents(c *gin.Context) {
	roster, err := h.courses.ListStudents(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster)
}

// StudentAssignments godoc
// @Summary List a student's approved assignments within a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body StudentAssignmentsRequest true "Student and course reference"
// @Success 200 {object} response.Envelope
// @Router /courses/assignments [post]
func (h *CourseHandler) StudentAssignments(c *gin.Context) {
	var req StudentAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	records, err := h.courses.AssignmentsForStudentInCourse(c.Request.Context(), req.StudentID, req.CourseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

// UpdateDates godoc
// @Summary Update the start and expected end dates of a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param payload body service.UpdateDatesRequest true "Dates payload"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/dates [put]
func (h *CourseHandler) UpdateDates(c *gin.Context) {
	var req service.UpdateDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.UpdateDates(c.Request.Context(), c.Param("courseId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// UpdateThresholds godoc
// @Summary Update the assignment thresholds of a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param payload body service.UpdateThresholdsRequest true "Thresholds payload"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/thresholds [put]
func (h *CourseHandler) UpdateThresholds(c *gin.Context) {
	var req service.UpdateThresholdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.UpdateThresholds(c.Request.Context(), c.Param("courseId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// MinApproved godoc
// @Summary Get the approval threshold of a course
// @Tags Courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/minApproved [get]
func (h *CourseHandler) MinApproved(c *gin.Context) {
	min, err := h.courses.MinApprovedForCourse(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"min_approved_assignments": min})
}

// Export godoc
// @Summary Export the course roster as CSV or PDF
// @Tags Courses
// @Produce octet-stream
// @Param courseId path string true "Course ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /courses/{courseId}/export [get]
func (h *CourseHandler) Export(c *gin.Context) {
	roster, err := h.courses.Roster(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	var (
		payload     []byte
		contentType string
		extension   string
	)
	switch format {
	case "csv":
		payload, err = h.csv.Render(*roster)
		contentType = "text/csv"
		extension = "csv"
	case "pdf":
		payload, err = h.pdf.Render(*roster)
		contentType = "application/pdf"
		extension = "pdf"
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster"))
		return
	}
	filename := fmt.Sprintf("%s-roster.%s", roster.CourseCode, extension)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
