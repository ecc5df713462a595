package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"hav-jeang-api/config"
	"hav-jeang-api/geo"
	"hav-jeang-api/middleware"
	"hav-jeang-api/models"
	"hav-jeang-api/pricing"
	"hav-jeang-api/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetNearbyMechanics returns mechanics within the configured search radius
// of the caller's position, nearest first
func GetNearbyMechanics(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameters lat and lng are required"})
		return
	}

	matches, err := Matcher.FindNearby(c.Request.Context(), geo.Point{Lat: lat, Lng: lng}, Cfg.SearchRadiusKm)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search for mechanics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":     len(matches),
		"radius_km": Cfg.SearchRadiusKm,
		"mechanics": matches,
	})
}

type CreateRequestBody struct {
	ServiceIDs  []uint   `json:"service_ids" binding:"required,min=1"`
	Description string   `json:"description"`
	Address     string   `json:"address" binding:"required"`
	RequestLat  *float64 `json:"request_lat" binding:"required"`
	RequestLng  *float64 `json:"request_lng" binding:"required"`
}

// CreateServiceRequest creates a new service request (customer only).
// The trip and total price are quoted here, once, and stored on the request.
func CreateServiceRequest(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var req CreateRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var services []models.Service
	if err := config.DB.Preload("Mechanic").Where("id IN ?", req.ServiceIDs).Find(&services).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load services"})
		return
	}
	if len(services) != len(uniqueIDs(req.ServiceIDs)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "One or more services not found"})
		return
	}

	origin := geo.Point{Lat: *req.RequestLat, Lng: *req.RequestLng}
	quote, err := Pricer.ComputeTripAndTotal(c.Request.Context(), origin, services)
	if err != nil {
		var missing *pricing.MissingLocationError
		switch {
		case errors.As(err, &missing):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot price request: " + missing.Error()})
		case errors.Is(err, pricing.ErrDistanceUnavailable):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot price request: trip distance unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to price request"})
		}
		return
	}

	request := models.ServiceRequest{
		Reference:      uuid.NewString(),
		CustomerID:     customerID,
		Services:       services,
		Description:    req.Description,
		Address:        req.Address,
		RequestLat:     origin.Lat,
		RequestLng:     origin.Lng,
		Status:         models.StatusPending,
		TripDistanceKm: quote.TripDistanceKm,
		TripPrice:      quote.TripPrice,
		TotalPrice:     quote.TotalPrice,
	}
	if err := config.DB.Create(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create service request"})
		return
	}

	// Record initial status history
	history := models.RequestStatusHistory{
		RequestID: request.ID,
		ToStatus:  models.StatusPending,
		ChangedBy: customerID,
		Note:      "Request created by customer",
	}
	config.DB.Create(&history)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Service request created successfully",
		"request": request,
	})
}

// GetMyRequests returns the caller's service requests, newest first
func GetMyRequests(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	var requests []models.ServiceRequest
	config.DB.Preload("Services.Mechanic").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&requests)
	c.JSON(http.StatusOK, gin.H{"count": len(requests), "requests": requests})
}

// CancelServiceRequest cancels a pending request (owner only).
// The status write is conditional on the request still being pending, so a
// cancel racing an accept cannot both win.
func CancelServiceRequest(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	requestID := c.Param("id")

	var request models.ServiceRequest
	if err := config.DB.First(&request, requestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service request not found"})
		return
	}
	if request.CustomerID != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to cancel this request"})
		return
	}

	if err := statemachine.CanTransition(request.Status, models.StatusCancelled, "customer"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          "Cannot cancel request",
			"reason":         err.Error(),
			"current_status": request.Status,
		})
		return
	}

	res := config.DB.Model(&models.ServiceRequest{}).
		Where("id = ? AND status = ?", request.ID, models.StatusPending).
		Update("status", models.StatusCancelled)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel request"})
		return
	}
	if res.RowsAffected == 0 {
		// Lost the race: someone else moved the request first
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request is no longer pending"})
		return
	}

	history := models.RequestStatusHistory{
		RequestID:  request.ID,
		FromStatus: models.StatusPending,
		ToStatus:   models.StatusCancelled,
		ChangedBy:  customerID,
		Note:       "Request cancelled by customer",
	}
	config.DB.Create(&history)

	c.JSON(http.StatusOK, gin.H{"message": "Service request cancelled successfully", "request_id": request.ID})
}

func uniqueIDs(ids []uint) []uint {
	seen := map[uint]bool{}
	var out []uint
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
