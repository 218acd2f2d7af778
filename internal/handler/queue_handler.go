package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkleiven/coursequeue-api/internal/service"
	appErrors "github.com/mkleiven/coursequeue-api/pkg/errors"
	"github.com/mkleiven/coursequeue-api/pkg/response"
)

// QueueHandler exposes the live help queue endpoints.
type QueueHandler struct {
	queues *service.QueueService
}

// NewQueueHandler constructs QueueHandler.
func NewQueueHandler(queues *service.QueueService) *QueueHandler {
	return &QueueHandler{queues: queues}
}

// LeaveQueueRequest identifies the student leaving the queue.
type LeaveQueueRequest struct {
	StudentID string `json:"student_id" binding:"required"`
}

// Join godoc
// @Summary Place a student in a course queue
// @Tags Queues
// @Accept json
// @Produce json
// @Param payload body service.JoinQueueRequest true "Queue entry payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /queues/newSiq [post]
func (h *QueueHandler) Join(c *gin.Context) {
	var req service.JoinQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.queues.Join(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Leave godoc
// @Summary Remove a student from the queue
// @Tags Queues
// @Accept json
// @Produce json
// @Param payload body LeaveQueueRequest true "Student reference"
// @Success 200 {object} response.Envelope
// @Router /queues/deleteStudent [post]
func (h *QueueHandler) Leave(c *gin.Context) {
	var req LeaveQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.queues.Leave(c.Request.Context(), req.StudentID); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"removed": true})
}

// SetStatus godoc
// @Summary Open or close the queue of a course
// @Tags Queues
// @Accept json
// @Produce json
// @Param payload body service.ToggleQueueRequest true "Queue toggle payload"
// @Success 200 {object} response.Envelope
// @Router /queues/status [post]
func (h *QueueHandler) SetStatus(c *gin.Context) {
	var req service.ToggleQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.queues.SetActive(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"active": req.Active})
}

// GetStatus godoc
// @Summary Report whether the queue of a course is open
// @Tags Queues
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /queues/status/{courseId} [get]
func (h *QueueHandler) GetStatus(c *gin.Context) {
	active, err := h.queues.IsActive(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"active": active})
}

// ChangeState godoc
// @Summary Change a student's queue entry status
// @Tags Queues
// @Accept json
// @Produce json
// @Param payload body service.ChangeStateRequest true "State payload"
// @Success 200 {object} response.Envelope
// @Router /queues/changeState [post]
func (h *QueueHandler) ChangeState(c *gin.Context) {
	var req service.ChangeStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.queues.SetStudentState(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": req.Status})
}

// GetState godoc
// @Summary Get a student's live queue entry
// @Tags Queues
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /queues/getState/{studentId} [get]
func (h *QueueHandler) GetState(c *gin.Context) {
	entry, err := h.queues.GetStudentState(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry)
}

// Approve godoc
// @Summary Approve a student's assignment and release the student from the queue
// @Tags Queues
// @Accept json
// @Produce json
// @Param payload body service.ApproveAssignmentRequest true "Approval payload"
// @Success 200 {object} response.Envelope
// @Router /queues/students/assignments [post]
func (h *QueueHandler) Approve(c *gin.Context) {
	var req service.ApproveAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.queues.Approve(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"approved": true})
}

// ListEntries godoc
// @Summary List the queue entries of a course in FIFO order
// @Tags Queues
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /queues/students/{courseId} [get]
func (h *QueueHandler) ListEntries(c *gin.Context) {
	entries, err := h.queues.ListEntries(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries)
}
