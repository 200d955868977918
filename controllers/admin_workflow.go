package controllers

import (
	"net/http"

	"society-portal-api/config"
	"society-portal-api/services"

	"github.com/gin-gonic/gin"
)

// PurgeEntity is the admin-only cascade delete of an item and its entire
// history. The purge is recorded in the audit log, not the ledger it
// removes.
// DELETE /admin/workflow/:kind/:id
func PurgeEntity(c *gin.Context) {
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}
	entityID, ok := parseEntityID(c)
	if !ok {
		return
	}
	userID, _, ok := currentActor(c)
	if !ok {
		return
	}

	var req struct {
		Reason *string `json:"reason"`
	}
	// Body is optional for purge.
	_ = c.ShouldBindJSON(&req)

	svc := services.NewWorkflowService(config.DB)
	if err := svc.Purge(kind, entityID, userID, req.Reason, c.ClientIP()); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Entity and history purged",
	})
}
