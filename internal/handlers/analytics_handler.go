package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/rentroll-ai/optimizer/api/internal/errors"
	"github.com/rentroll-ai/optimizer/api/internal/services"
)

// AnalyticsHandler handles the dashboard analytics HTTP requests.
type AnalyticsHandler struct {
	analytics services.AnalyticsService
	units     services.UnitService
}

// NewAnalyticsHandler creates a new AnalyticsHandler instance.
func NewAnalyticsHandler(analytics services.AnalyticsService, units services.UnitService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		units:     units,
	}
}

// PropertiesResponse represents the property roster response.
type PropertiesResponse struct {
	Properties []string `json:"properties"`
	Count      int      `json:"count"`
}

// Portfolio handles GET /api/v1/analytics/portfolio endpoint.
func (h *AnalyticsHandler) Portfolio(c *gin.Context) {
	analytics, err := h.analytics.GetPortfolioAnalytics(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to build portfolio analytics", err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// MarketPosition handles GET /api/v1/analytics/market-position endpoint.
func (h *AnalyticsHandler) MarketPosition(c *gin.Context) {
	position, err := h.analytics.GetMarketPosition(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to build market position analytics", err)
		return
	}
	c.JSON(http.StatusOK, position)
}

// PricingOpportunities handles GET /api/v1/analytics/pricing-opportunities endpoint.
func (h *AnalyticsHandler) PricingOpportunities(c *gin.Context) {
	opportunities, err := h.analytics.GetPricingOpportunities(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to build pricing opportunities", err)
		return
	}
	c.JSON(http.StatusOK, opportunities)
}

// Summary handles GET /api/v1/analytics/summary endpoint.
// It returns the per-type inventory breakdown and property roster.
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	summary, err := h.analytics.GetPortfolioSummary(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to build portfolio summary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Properties handles GET /api/v1/properties endpoint.
func (h *AnalyticsHandler) Properties(c *gin.Context) {
	properties, err := h.units.GetProperties(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to list properties", err)
		return
	}
	c.JSON(http.StatusOK, PropertiesResponse{
		Properties: properties,
		Count:      len(properties),
	})
}
