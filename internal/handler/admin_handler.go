package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contact-intake-api/internal/service"
)

// AdminHandler serves the authenticated read endpoints
type AdminHandler struct {
	intakeService *service.IntakeService
	logger        *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(intakeService *service.IntakeService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		intakeService: intakeService,
		logger:        logger,
	}
}

// ListSubmissions handles GET /contact/submissions. Results are sanitized:
// attachment storage keys and download URLs never appear in list views.
func (h *AdminHandler) ListSubmissions(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	submissions, total, err := h.intakeService.ListSubmissions(c.Request.Context(), limit)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"count":       len(submissions),
		"total":       total,
	})
}

// GetSubmission handles GET /contact/submission/:id. Attachments carry fresh
// time-limited download URLs.
func (h *AdminHandler) GetSubmission(c *gin.Context) {
	id := c.Param("id")

	sub, err := h.intakeService.GetSubmissionDetail(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"submission": sub,
	})
}
