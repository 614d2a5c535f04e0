package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dutytrip/internal/domain"
	"dutytrip/internal/middleware"
	"dutytrip/internal/service"
)

// TripHandler handles HTTP requests for duty trips.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

// TripResponse is the HTTP response for trip operations.
type TripResponse struct {
	TripID         string  `json:"trip_id"`
	Code           string  `json:"code"`
	ServiceTier    string  `json:"service_tier"`
	State          string  `json:"state"`
	DriverID       string  `json:"driver_id,omitempty"`
	StartedAt      string  `json:"started_at,omitempty"`
	EndedAt        string  `json:"ended_at,omitempty"`
	BilledAmount   float64 `json:"billed_amount,omitempty"`
	NightSurcharge float64 `json:"night_surcharge,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

func tripResponse(trip *domain.Trip) TripResponse {
	response := TripResponse{
		TripID:         trip.ID,
		Code:           trip.Code,
		ServiceTier:    string(trip.ServiceTier),
		State:          string(trip.State),
		DriverID:       trip.DriverID,
		BilledAmount:   trip.BilledAmount,
		NightSurcharge: trip.NightSurcharge,
		CreatedAt:      trip.CreatedAt.Format(timeLayout),
	}
	if !trip.StartedAt.IsZero() {
		response.StartedAt = trip.StartedAt.Format(timeLayout)
	}
	if !trip.EndedAt.IsZero() {
		response.EndedAt = trip.EndedAt.Format(timeLayout)
	}
	return response
}

// IssueRequest is the HTTP request body for trip issuance.
type IssueRequest struct {
	Code        string `json:"code"`
	ServiceTier string `json:"service_tier"`
}

// Issue handles POST /v1/trips
func (h *TripHandler) Issue(c *gin.Context) {
	var req IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.IssueTrip(c.Request.Context(), service.IssueTripRequest{
		Code:        req.Code,
		ServiceTier: domain.ServiceTier(req.ServiceTier),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, tripResponse(trip))
}

// ClaimRequest is the HTTP request body for claiming a trip.
type ClaimRequest struct {
	Code string `json:"code"`
}

// Claim handles POST /v1/trips/claim
// The claiming driver is the authenticated account.
func (h *TripHandler) Claim(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.ClaimTrip(c.Request.Context(), service.ClaimTripRequest{
		Code:     req.Code,
		DriverID: c.GetString(middleware.ContextAccountID),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip))
}

// Complete handles POST /v1/trips/:code/complete
func (h *TripHandler) Complete(c *gin.Context) {
	trip, err := h.tripService.CompleteTrip(c.Request.Context(), service.CompleteTripRequest{
		Code: c.Param("code"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip))
}

// Active handles GET /v1/drivers/active
// Session recovery: returns the authenticated driver's active trip so a
// reattaching client can resume its elapsed-time display. 204 when none.
func (h *TripHandler) Active(c *gin.Context) {
	trip, err := h.tripService.ActiveTrip(c.Request.Context(), c.GetString(middleware.ContextAccountID))
	if err != nil {
		respondError(c, err)
		return
	}

	if trip == nil {
		c.Status(http.StatusNoContent)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip))
}

// Get handles GET /v1/trips/:code
func (h *TripHandler) Get(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip))
}

// GetAll handles GET /v1/trips
func (h *TripHandler) GetAll(c *gin.Context) {
	trips, err := h.tripService.GetAllTrips(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		response = append(response, tripResponse(trip))
	}

	respondJSON(c, http.StatusOK, response)
}

// PreviewRequest is the HTTP request body for a settlement preview.
type PreviewRequest struct {
	ServiceTier string `json:"service_tier"`
	StartedAt   string `json:"started_at"`
	EndedAt     string `json:"ended_at"`
}

// PreviewResponse is the HTTP response for a settlement preview.
type PreviewResponse struct {
	BilledAmount   float64 `json:"billed_amount"`
	NightSurcharge float64 `json:"night_surcharge"`
}

// Preview handles POST /v1/settlement/preview
// Non-mutating; empty timestamps preview to zero.
func (h *TripHandler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	startedAt, err := parseOptionalTime(req.StartedAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid started_at"})
		return
	}

	endedAt, err := parseOptionalTime(req.EndedAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid ended_at"})
		return
	}

	settlement, err := h.tripService.PreviewSettlement(domain.ServiceTier(req.ServiceTier), startedAt, endedAt)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, PreviewResponse{
		BilledAmount:   settlement.BilledAmount,
		NightSurcharge: settlement.NightSurcharge,
	})
}

func parseOptionalTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(timeLayout, value)
}
