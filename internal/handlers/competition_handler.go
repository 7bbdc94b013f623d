package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/rentroll-ai/optimizer/api/internal/errors"
	"github.com/rentroll-ai/optimizer/api/internal/middleware"
	"github.com/rentroll-ai/optimizer/api/internal/services"
)

// CompetitionHandler handles the per-property market-comparison HTTP requests.
type CompetitionHandler struct {
	service services.CompetitionService
}

// NewCompetitionHandler creates a new CompetitionHandler instance.
func NewCompetitionHandler(service services.CompetitionService) *CompetitionHandler {
	return &CompetitionHandler{
		service: service,
	}
}

// CompetitionAnalysis handles GET /api/v1/properties/:property_name/competition-analysis endpoint.
// It returns the property-vs-competition report with basis-tagged market columns.
func (h *CompetitionHandler) CompetitionAnalysis(c *gin.Context) {
	log := middleware.GetLogger(c)
	property := c.Param("property_name")
	if property == "" {
		apierrors.BadRequest(c, "Property name is required", nil)
		return
	}

	if log != nil {
		log.Info("Processing competition analysis request", map[string]interface{}{
			"property": property,
		})
	}

	analysis, err := h.service.GetCompetitionAnalysis(c.Request.Context(), property)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to build competition analysis", err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// UnitAnalysis handles GET /api/v1/properties/:property_name/unit-analysis endpoint.
func (h *CompetitionHandler) UnitAnalysis(c *gin.Context) {
	property := c.Param("property_name")
	if property == "" {
		apierrors.BadRequest(c, "Property name is required", nil)
		return
	}

	analysis, err := h.service.GetUnitAnalysis(c.Request.Context(), property)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to build unit analysis", err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// MarketTrends handles GET /api/v1/properties/:property_name/market-trends endpoint.
func (h *CompetitionHandler) MarketTrends(c *gin.Context) {
	property := c.Param("property_name")
	if property == "" {
		apierrors.BadRequest(c, "Property name is required", nil)
		return
	}

	trends, err := h.service.GetMarketTrends(c.Request.Context(), property)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to build market trends", err)
		return
	}

	c.JSON(http.StatusOK, trends)
}
