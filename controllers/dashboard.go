package controllers

import (
	"net/http"

	"society-portal-api/config"
	"society-portal-api/models"
	"society-portal-api/services"
	"society-portal-api/utils"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats returns the per-status counters plus the size of the
// caller's own review queue. Every role dashboard renders from this one
// payload.
func GetDashboardStats(c *gin.Context) {
	_, role, ok := currentActor(c)
	if !ok {
		return
	}

	kind, err := utils.ParseEntityKind(c.DefaultQuery("kind", models.KindSociety))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entity kind"})
		return
	}

	projections := services.NewProjectionService(config.DB)

	counts, err := projections.CountsByStatus(kind)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	var pending, approved, rejected int64
	for _, status := range services.AllStatuses(kind) {
		total := counts[status.StatusID]
		if !status.Terminal() {
			pending += total
			continue
		}
		switch status.StatusID {
		case models.StatusVCApproved, models.StatusReportSubmitted:
			approved += total
		default:
			rejected += total
		}
	}

	var queueSize int
	switch kind {
	case models.KindSociety:
		items, err := projections.PendingSocieties(role)
		if err != nil {
			respondWorkflowError(c, err)
			return
		}
		queueSize = len(items)
	case models.KindEventRequest:
		items, err := projections.PendingEventRequests(role)
		if err != nil {
			respondWorkflowError(c, err)
			return
		}
		queueSize = len(items)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"by_status":   counts,
			"in_review":   pending,
			"approved":    approved,
			"rejected":    rejected,
			"my_queue":    queueSize,
			"entity_kind": kind,
		},
	})
}
