package handlers

import (
	"net/http"

	"hav-jeang-api/config"
	"hav-jeang-api/middleware"
	"hav-jeang-api/models"
	"hav-jeang-api/statemachine"

	"github.com/gin-gonic/gin"
)

// GetIncomingRequests lists pending requests that reference at least one of
// the caller's services, oldest first
func GetIncomingRequests(c *gin.Context) {
	mechanicID := middleware.GetUserID(c)

	var requests []models.ServiceRequest
	err := config.DB.Preload("Services").Preload("Customer").
		Joins("JOIN service_request_services srs ON srs.service_request_id = service_requests.id").
		Joins("JOIN services ON services.id = srs.service_id").
		Where("services.mechanic_id = ? AND service_requests.status = ?", mechanicID, models.StatusPending).
		Group("service_requests.id").
		Order("service_requests.created_at asc").
		Find(&requests).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load incoming requests"})
		return
	}

	// Empty queue is a normal answer, not an error
	c.JSON(http.StatusOK, gin.H{"count": len(requests), "requests": requests})
}

// AcceptServiceRequest transitions pending → accepted. The caller must own
// at least one service referenced by the request.
func AcceptServiceRequest(c *gin.Context) {
	transitionRequest(c, models.StatusPending, models.StatusAccepted, "Request accepted by mechanic")
}

// CompleteServiceRequest transitions accepted → completed. Completion
// strictly requires prior acceptance.
func CompleteServiceRequest(c *gin.Context) {
	transitionRequest(c, models.StatusAccepted, models.StatusCompleted, "Request completed by mechanic")
}

// transitionRequest performs a mechanic-side status transition. Ownership is
// satisfied by owning any one referenced service. The status write is a
// conditional update: of two concurrent attempts, exactly one sees the
// expected status and wins.
func transitionRequest(c *gin.Context, from, to models.RequestStatus, note string) {
	mechanicID := middleware.GetUserID(c)
	requestID := c.Param("id")

	var request models.ServiceRequest
	if err := config.DB.Preload("Services").First(&request, requestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service request not found"})
		return
	}

	owns := false
	for _, s := range request.Services {
		if s.MechanicID == mechanicID {
			owns = true
			break
		}
	}
	if !owns {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to update this request"})
		return
	}

	if err := statemachine.CanTransition(request.Status, to, "mechanic"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          "Invalid state transition",
			"reason":         err.Error(),
			"current_status": request.Status,
			"valid_next":     statemachine.ValidTransitionsFrom(request.Status),
		})
		return
	}

	res := config.DB.Model(&models.ServiceRequest{}).
		Where("id = ? AND status = ?", request.ID, from).
		Update("status", to)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update request"})
		return
	}
	if res.RowsAffected == 0 {
		// Lost the race: the status moved between our read and this write
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request is no longer " + string(from)})
		return
	}

	history := models.RequestStatusHistory{
		RequestID:  request.ID,
		FromStatus: from,
		ToStatus:   to,
		ChangedBy:  mechanicID,
		Note:       note,
	}
	config.DB.Create(&history)

	c.JSON(http.StatusOK, gin.H{
		"message":         note,
		"request_id":      request.ID,
		"previous_status": from,
		"current_status":  to,
	})
}
