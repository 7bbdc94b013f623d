package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/rentroll-ai/optimizer/api/internal/errors"
	"github.com/rentroll-ai/optimizer/api/internal/middleware"
	"github.com/rentroll-ai/optimizer/api/internal/models"
	"github.com/rentroll-ai/optimizer/api/internal/services"
)

// Defaults for the unit listing and batch optimization endpoints.
const (
	DefaultPageSize      = 50
	DefaultBatchMaxUnits = 100
)

// UnitHandler handles unit inventory and optimization HTTP requests.
type UnitHandler struct {
	units   services.UnitService
	pricing services.PricingService
}

// NewUnitHandler creates a new UnitHandler instance.
func NewUnitHandler(units services.UnitService, pricing services.PricingService) *UnitHandler {
	return &UnitHandler{
		units:   units,
		pricing: pricing,
	}
}

// ListUnitsRequest represents the query parameters for the unit listing.
type ListUnitsRequest struct {
	Status           string `form:"status" binding:"omitempty,oneof=VACANT OCCUPIED NOTICE"`
	Property         string `form:"property"`
	NeedsPricingOnly bool   `form:"needs_pricing_only"`
	Page             int    `form:"page" binding:"omitempty,min=1"`
	PageSize         int    `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// OptimizeRequest represents the body of a single-unit optimization request.
type OptimizeRequest struct {
	Weight           *float64 `json:"weight" binding:"omitempty,gte=0,lte=1"`
	CustomElasticity *float64 `json:"custom_elasticity" binding:"omitempty,lt=0"`
	Strategy         string   `json:"strategy" binding:"required,oneof=revenue lease_up balanced"`
}

// BatchOptimizeRequest represents the body of a batch optimization request.
type BatchOptimizeRequest struct {
	Weight           *float64 `json:"weight" binding:"omitempty,gte=0,lte=1"`
	CustomElasticity *float64 `json:"custom_elasticity" binding:"omitempty,lt=0"`
	Strategy         string   `json:"strategy" binding:"required,oneof=revenue lease_up balanced"`
	UnitIDs          []string `json:"unit_ids"`
	MaxUnits         int      `json:"max_units" binding:"omitempty,min=1,max=500"`
}

// ComparablesResponse flattens the comparable set and its statistics for the
// dashboard. The stats fields are zero when the unit has no comparables.
type ComparablesResponse struct {
	UnitID             string              `json:"unit_id"`
	Unit               *models.Unit        `json:"unit,omitempty"`
	Comparables        []models.Comparable `json:"comparables"`
	TotalComps         int                 `json:"total_comps"`
	AvgCompPrice       float64             `json:"avg_comp_price"`
	MedianCompPrice    float64             `json:"median_comp_price"`
	MinCompPrice       float64             `json:"min_comp_price"`
	MaxCompPrice       float64             `json:"max_comp_price"`
	CompPriceStddev    float64             `json:"comp_price_stddev"`
	AvgSimilarityScore float64             `json:"avg_similarity_score"`
}

// List handles GET /api/v1/units endpoint.
// It returns one page of units matching the optional filters.
func (h *UnitHandler) List(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req ListUnitsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = DefaultPageSize
	}

	if log != nil {
		log.Info("Processing unit list request", map[string]interface{}{
			"status":   req.Status,
			"property": req.Property,
			"page":     req.Page,
		})
	}

	page, err := h.units.ListUnits(c.Request.Context(), services.ListUnitsParams{
		Status:           req.Status,
		Property:         req.Property,
		NeedsPricingOnly: req.NeedsPricingOnly,
		Page:             req.Page,
		PageSize:         req.PageSize,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidPagination) || errors.Is(err, services.ErrInvalidStatus) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to query units", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Get handles GET /api/v1/units/:unit_id endpoint.
func (h *UnitHandler) Get(c *gin.Context) {
	unitID := c.Param("unit_id")

	unit, err := h.units.GetUnit(c.Request.Context(), unitID)
	if err != nil {
		if errors.Is(err, services.ErrUnitNotFound) {
			apierrors.NotFound(c, "Unit "+unitID+" not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to query unit", err)
		return
	}

	c.JSON(http.StatusOK, unit)
}

// Comparables handles GET /api/v1/units/:unit_id/comparables endpoint.
// It returns the ranked comparables with recomputed summary statistics.
func (h *UnitHandler) Comparables(c *gin.Context) {
	unitID := c.Param("unit_id")

	set, err := h.units.GetComparables(c.Request.Context(), unitID)
	if err != nil {
		if errors.Is(err, services.ErrUnitNotFound) {
			apierrors.NotFound(c, "Unit "+unitID+" not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to query comparables", err)
		return
	}

	response := ComparablesResponse{
		UnitID:      set.UnitID,
		Comparables: set.Comparables,
	}
	if set.Stats != nil {
		response.TotalComps = set.Stats.TotalComps
		response.AvgCompPrice = set.Stats.AvgCompPrice
		response.MedianCompPrice = set.Stats.MedianCompPrice
		response.MinCompPrice = set.Stats.MinCompPrice
		response.MaxCompPrice = set.Stats.MaxCompPrice
		response.CompPriceStddev = set.Stats.CompPriceStddev
		response.AvgSimilarityScore = set.Stats.AvgSimilarityScore
	}

	c.JSON(http.StatusOK, response)
}

// Optimize handles POST /api/v1/units/:unit_id/optimize endpoint.
// It runs the demand-curve optimizer for one unit.
func (h *UnitHandler) Optimize(c *gin.Context) {
	log := middleware.GetLogger(c)
	unitID := c.Param("unit_id")

	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	if log != nil {
		log.Info("Processing optimize request", map[string]interface{}{
			"unit_id":  unitID,
			"strategy": req.Strategy,
		})
	}

	result, err := h.pricing.OptimizeUnit(c.Request.Context(), unitID, services.OptimizeParams{
		Strategy:         req.Strategy,
		Weight:           req.Weight,
		CustomElasticity: req.CustomElasticity,
	})
	if err != nil {
		if errors.Is(err, services.ErrUnitNotFound) {
			apierrors.NotFound(c, "Unit "+unitID+" not found")
			return
		}
		if errors.Is(err, services.ErrInvalidStrategy) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to optimize unit", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// BatchOptimize handles POST /api/v1/units/batch-optimize endpoint.
// It optimizes the listed units, or vacant units when no ids are given.
func (h *UnitHandler) BatchOptimize(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req BatchOptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	if req.MaxUnits == 0 {
		req.MaxUnits = DefaultBatchMaxUnits
	}

	if log != nil {
		log.Info("Processing batch optimize request", map[string]interface{}{
			"strategy":  req.Strategy,
			"unit_ids":  len(req.UnitIDs),
			"max_units": req.MaxUnits,
		})
	}

	result, err := h.pricing.OptimizeBatch(c.Request.Context(), services.BatchOptimizeParams{
		Strategy:         req.Strategy,
		Weight:           req.Weight,
		CustomElasticity: req.CustomElasticity,
		UnitIDs:          req.UnitIDs,
		MaxUnits:         req.MaxUnits,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidStrategy) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to run batch optimization", err)
		return
	}

	c.JSON(http.StatusOK, result)
}
