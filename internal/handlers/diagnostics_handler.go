package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/rentroll-ai/optimizer/api/internal/errors"
	"github.com/rentroll-ai/optimizer/api/internal/services"
)

// DiagnosticsHandler handles the debugging HTTP requests.
type DiagnosticsHandler struct {
	service services.DiagnosticsService
}

// NewDiagnosticsHandler creates a new DiagnosticsHandler instance.
func NewDiagnosticsHandler(service services.DiagnosticsService) *DiagnosticsHandler {
	return &DiagnosticsHandler{
		service: service,
	}
}

// TestProperty handles GET /api/v1/test-property/:property_name endpoint.
// It echoes how the property filter resolves against the snapshot, for
// debugging name mismatches.
func (h *DiagnosticsHandler) TestProperty(c *gin.Context) {
	property := c.Param("property_name")
	if property == "" {
		apierrors.BadRequest(c, "Property name is required", nil)
		return
	}

	probe, err := h.service.ProbeProperty(c.Request.Context(), property)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to probe property", err)
		return
	}

	c.JSON(http.StatusOK, probe)
}

// TestCompetition handles GET /api/v1/test-competition endpoint.
// It describes the competition table's shape with sample rows.
func (h *DiagnosticsHandler) TestCompetition(c *gin.Context) {
	info, err := h.service.InspectCompetitionTable(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to inspect competition table", err)
		return
	}

	c.JSON(http.StatusOK, info)
}
