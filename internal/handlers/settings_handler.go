package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/rentroll-ai/optimizer/api/internal/errors"
	"github.com/rentroll-ai/optimizer/api/internal/middleware"
	"github.com/rentroll-ai/optimizer/api/internal/models"
	"github.com/rentroll-ai/optimizer/api/internal/services"
)

// SettingsHandler handles the warehouse table settings HTTP requests.
type SettingsHandler struct {
	service services.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler instance.
func NewSettingsHandler(service services.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		service: service,
	}
}

// SettingsRequest represents the body of settings update and test requests.
// Empty fields fall back to the configured table names.
type SettingsRequest struct {
	RentrollTable    string `json:"rentroll_table"`
	CompetitionTable string `json:"competition_table"`
	ProjectID        string `json:"project_id"`
}

// SaveSettingsResponse represents the settings update response.
type SaveSettingsResponse struct {
	Message  string               `json:"message"`
	Settings models.TableSettings `json:"settings"`
}

// Get handles GET /api/v1/settings endpoint.
func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Current())
}

// Save handles POST /api/v1/settings endpoint.
// Updates apply immediately to all subsequent reporting queries.
func (h *SettingsHandler) Save(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	effective := h.service.Update(models.TableSettings{
		RentrollTable:    req.RentrollTable,
		CompetitionTable: req.CompetitionTable,
		ProjectID:        req.ProjectID,
	})

	if log != nil {
		log.Info("Settings saved", map[string]interface{}{
			"rentroll_table":    effective.RentrollTable,
			"competition_table": effective.CompetitionTable,
		})
	}

	c.JSON(http.StatusOK, SaveSettingsResponse{
		Message:  "Settings saved successfully",
		Settings: effective,
	})
}

// Test handles POST /api/v1/settings/test endpoint.
// It probes the submitted tables with row counts without saving anything.
func (h *SettingsHandler) Test(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	report := h.service.Test(c.Request.Context(), models.TableSettings{
		RentrollTable:    req.RentrollTable,
		CompetitionTable: req.CompetitionTable,
		ProjectID:        req.ProjectID,
	})

	c.JSON(http.StatusOK, report)
}
