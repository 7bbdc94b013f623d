package models

import (
	"time"
)

// Unit statuses as stored in the unit snapshot mart.
const (
	StatusVacant   = "VACANT"
	StatusOccupied = "OCCUPIED"
	StatusNotice   = "NOTICE"
)

// Pricing urgency levels, ordered from most to least urgent.
const (
	UrgencyImmediate = "IMMEDIATE"
	UrgencyHigh      = "HIGH"
	UrgencyMedium    = "MEDIUM"
)

// Unit represents a single row from the unit snapshot mart.
// All nullable columns use pointers to distinguish between zero values and NULL.
type Unit struct {
	MoveOutDate            *time.Time `json:"move_out_date,omitempty"`
	LeaseEndDate           *time.Time `json:"lease_end_date,omitempty"`
	MarketRent             *float64   `json:"market_rent,omitempty"`
	RentPerSqft            *float64   `json:"rent_per_sqft,omitempty"`
	RentPremiumPct         *float64   `json:"rent_premium_pct,omitempty"`
	AnnualRevenuePotential *float64   `json:"annual_revenue_potential,omitempty"`
	DaysToLeaseEnd         *int       `json:"days_to_lease_end,omitempty"`
	UnitID                 string     `json:"unit_id"`
	Property               string     `json:"property"`
	Status                 string     `json:"status"`
	PricingUrgency         string     `json:"pricing_urgency"`
	UnitType               string     `json:"unit_type"`
	SizeCategory           string     `json:"size_category"`
	AdvertisedRent         float64    `json:"advertised_rent"`
	Bath                   float64    `json:"bath"`
	Bed                    int        `json:"bed"`
	Sqft                   int        `json:"sqft"`
	NeedsPricing           bool       `json:"needs_pricing"`
	HasCompleteData        bool       `json:"has_complete_data"`
}

// VacantUnit is the reduced projection returned by the vacant-units listing.
type VacantUnit struct {
	MarketRent     *float64 `json:"market_rent,omitempty"`
	RentPerSqft    *float64 `json:"rent_per_sqft,omitempty"`
	UnitID         string   `json:"unit_id"`
	Property       string   `json:"property"`
	Status         string   `json:"status"`
	PricingUrgency string   `json:"pricing_urgency"`
	UnitType       string   `json:"unit_type"`
	SizeCategory   string   `json:"size_category"`
	AdvertisedRent float64  `json:"advertised_rent"`
	Bath           float64  `json:"bath"`
	Bed            int      `json:"bed"`
	Sqft           int      `json:"sqft"`
}

// UnitPage is a single page of the unit listing together with pagination info.
type UnitPage struct {
	Units      []Unit `json:"units"`
	TotalCount int    `json:"total_count"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	HasNext    bool   `json:"has_next"`
}

// UnitTypeSummary aggregates inventory statistics for one unit type.
type UnitTypeSummary struct {
	TotalUnits          int     `json:"total_units"`
	UnitsNeedingPricing int     `json:"units_needing_pricing"`
	AvgRent             float64 `json:"avg_rent"`
	AvgRentPerSqft      float64 `json:"avg_rent_per_sqft"`
}
