package controllers

import (
	"errors"
	"net/http"
	"time"

	"society-portal-api/config"
	"society-portal-api/models"
	"society-portal-api/services"
	"society-portal-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateEventRequest submits an event proposal for an approved society.
func CreateEventRequest(c *gin.Context) {
	userID, role, ok := currentActor(c)
	if !ok {
		return
	}

	var req struct {
		SocietyID   uint       `json:"society_id" binding:"required"`
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		Venue       *string    `json:"venue"`
		StartsAt    *time.Time `json:"starts_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Events can only be requested for a fully approved society.
	var society models.Society
	err := config.DB.Where("society_id = ? AND deleted_at IS NULL", req.SocietyID).First(&society).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Society not found", "code": services.CodeNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load society"})
		return
	}
	if society.StatusID != models.StatusVCApproved {
		c.JSON(http.StatusConflict, gin.H{"error": "Society is not approved", "code": services.CodeInvalidTransition})
		return
	}

	svc := services.NewWorkflowService(config.DB)
	request, err := svc.SubmitEventRequest(services.SubmitEventRequestInput{
		SocietyID:   req.SocietyID,
		Title:       utils.SanitizeInput(req.Title),
		Description: utils.SanitizeInput(req.Description),
		Venue:       req.Venue,
		StartsAt:    req.StartsAt,
		OwnerID:     userID,
		OwnerRole:   role,
	})
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"message":       "Event request submitted",
		"event_request": request,
	})
}

// GetEventRequest returns one event request with its current status and the
// actions available to the caller.
func GetEventRequest(c *gin.Context) {
	entityID, ok := parseEntityID(c)
	if !ok {
		return
	}
	_, role, ok := currentActor(c)
	if !ok {
		return
	}

	var request models.EventRequest
	err := config.DB.Preload("Owner").Preload("Society").
		Where("event_request_id = ? AND deleted_at IS NULL", entityID).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event request not found", "code": services.CodeNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load event request"})
		return
	}

	status, _ := services.GetWorkflowStatus(models.KindEventRequest, request.StatusID)

	actions := []models.WorkflowStatus{}
	for _, next := range services.AllowedNextStatuses(models.KindEventRequest, request.StatusID) {
		if services.Authorize(models.KindEventRequest, request.StatusID, role, next.StatusID) == nil {
			actions = append(actions, next)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"event_request":   request,
		"status":          status,
		"allowed_actions": actions,
	})
}
