package controllers

import (
	"errors"
	"net/http"

	"society-portal-api/config"
	"society-portal-api/models"
	"society-portal-api/services"
	"society-portal-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateSociety submits a new society registration into the approval
// workflow.
func CreateSociety(c *gin.Context) {
	userID, role, ok := currentActor(c)
	if !ok {
		return
	}

	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		AdvisorName *string `json:"advisor_name"`
		LogoPath    *string `json:"logo_path"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := services.NewWorkflowService(config.DB)
	society, err := svc.SubmitSociety(services.SubmitSocietyInput{
		Name:        utils.SanitizeInput(req.Name),
		Description: utils.SanitizeInput(req.Description),
		AdvisorName: req.AdvisorName,
		LogoPath:    req.LogoPath,
		OwnerID:     userID,
		OwnerRole:   role,
	})
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Society registration submitted",
		"society": society,
	})
}

// GetSociety returns one society with its current status and the actions
// available to the caller.
func GetSociety(c *gin.Context) {
	entityID, ok := parseEntityID(c)
	if !ok {
		return
	}
	_, role, ok := currentActor(c)
	if !ok {
		return
	}

	var society models.Society
	err := config.DB.Preload("Owner").
		Where("society_id = ? AND deleted_at IS NULL", entityID).
		First(&society).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Society not found", "code": services.CodeNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load society"})
		return
	}

	status, _ := services.GetWorkflowStatus(models.KindSociety, society.StatusID)

	// The UI renders buttons straight from this list instead of re-deriving
	// role rules per dashboard.
	actions := []models.WorkflowStatus{}
	for _, next := range services.AllowedNextStatuses(models.KindSociety, society.StatusID) {
		if services.Authorize(models.KindSociety, society.StatusID, role, next.StatusID) == nil {
			actions = append(actions, next)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"society":         society,
		"status":          status,
		"allowed_actions": actions,
	})
}
