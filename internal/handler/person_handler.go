package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkleiven/coursequeue-api/internal/service"
	appErrors "github.com/mkleiven/coursequeue-api/pkg/errors"
	"github.com/mkleiven/coursequeue-api/pkg/response"
)

// PersonHandler exposes student and teacher registration endpoints.
type PersonHandler struct {
	people *service.PersonService
}

// NewPersonHandler constructs PersonHandler.
func NewPersonHandler(people *service.PersonService) *PersonHandler {
	return &PersonHandler{people: people}
}

// CreateStudent godoc
// @Summary Register a student
// @Tags People
// @Accept json
// @Produce json
// @Param payload body service.CreatePersonRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *PersonHandler) CreateStudent(c *gin.Context) {
	var req service.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.people.CreateStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// CreateTeacher godoc
// @Summary Register a teacher
// @Tags People
// @Accept json
// @Produce json
// @Param payload body service.CreatePersonRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Router /teachers [post]
func (h *PersonHandler) CreateTeacher(c *gin.Context) {
	var req service.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	teacher, err := h.people.CreateTeacher(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}
