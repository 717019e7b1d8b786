package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avelines/gradeboard/internal/services"
	"github.com/avelines/gradeboard/pkg/errors"
	"github.com/avelines/gradeboard/pkg/response"
)

// StudentHandler exposes CRUD plus cached listings for students.
type StudentHandler struct {
	students *services.StudentService
}

func NewStudentHandler(students *services.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

type createStudentRequest struct {
	Name  string   `json:"name" validate:"required,max=100"`
	Grade *float64 `json:"grade" validate:"required"`
}

type updateStudentRequest struct {
	Name  *string  `json:"name" validate:"omitempty,max=100"`
	Grade *float64 `json:"grade"`
}

// GET /api/students?name=<filter>
func (h *StudentHandler) List(c *gin.Context) {
	filter := strings.TrimSpace(c.Query("name"))

	result, err := h.students.List(requestContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"students":    result.Students,
		"count":       len(result.Students),
		"from_cache":  result.FromCache,
		"access_time": result.AccessTime,
	})
}

// POST /api/students
func (h *StudentHandler) Create(c *gin.Context) {
	var req createStudentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	student, err := h.students.Create(requestContext(c), services.CreateStudentInput{
		Name:  req.Name,
		Grade: *req.Grade,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, student)
}

// PUT /api/students/:id
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}

	var req updateStudentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	student, err := h.students.Update(requestContext(c), id, services.UpdateStudentInput{
		Name:  req.Name,
		Grade: req.Grade,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, student)
}

// DELETE /api/students/:id
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}

	if err := h.students.Delete(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

func studentID(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.Error(c, errors.NewValidation("id must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}
