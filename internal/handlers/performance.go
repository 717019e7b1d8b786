package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelines/gradeboard/internal/services"
	"github.com/avelines/gradeboard/pkg/response"
)

// PerformanceHandler surfaces latency statistics and cache administration.
type PerformanceHandler struct {
	students *services.StudentService
}

func NewPerformanceHandler(students *services.StudentService) *PerformanceHandler {
	return &PerformanceHandler{students: students}
}

// GET /api/performance-metrics
func (h *PerformanceHandler) Metrics(c *gin.Context) {
	report, err := h.students.Performance(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, report)
}

// POST /api/cache/clear
func (h *PerformanceHandler) ClearCache(c *gin.Context) {
	deleted, err := h.students.ClearCache(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": deleted})
}
