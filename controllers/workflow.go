package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"society-portal-api/config"
	"society-portal-api/models"
	"society-portal-api/services"
	"society-portal-api/utils"

	"github.com/gin-gonic/gin"
)

var workflowErrorStatus = map[string]int{
	services.CodeNotFound:           http.StatusNotFound,
	services.CodeForbidden:          http.StatusForbidden,
	services.CodeInvalidTransition:  http.StatusBadRequest,
	services.CodeAlreadyFinal:       http.StatusConflict,
	services.CodeStorageConflict:    http.StatusConflict,
	services.CodePersistenceFailure: http.StatusInternalServerError,
}

func respondWorkflowError(c *gin.Context, err error) {
	var wfErr *services.WorkflowError
	if !errors.As(err, &wfErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	status, ok := workflowErrorStatus[wfErr.Code]
	if !ok {
		status = http.StatusInternalServerError
	}

	body := gin.H{"error": wfErr.Message, "code": wfErr.Code}
	if len(wfErr.Allowed) > 0 {
		body["allowed"] = wfErr.Allowed
	}
	c.JSON(status, body)
}

func currentActor(c *gin.Context) (int, string, bool) {
	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return 0, "", false
	}
	userID, ok := userIDValue.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user context"})
		return 0, "", false
	}

	roleValue, exists := c.Get("role")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Role context missing"})
		return 0, "", false
	}
	role, ok := roleValue.(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid role context"})
		return 0, "", false
	}

	return userID, role, true
}

func parseKindParam(c *gin.Context) (string, bool) {
	kind, err := utils.ParseEntityKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entity kind"})
		return "", false
	}
	return kind, true
}

func parseEntityID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entity ID"})
		return 0, false
	}
	return uint(id), true
}

// TransitionEntity applies one review decision.
// POST /workflow/:kind/:id/transition
func TransitionEntity(c *gin.Context) {
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}
	entityID, ok := parseEntityID(c)
	if !ok {
		return
	}
	userID, role, ok := currentActor(c)
	if !ok {
		return
	}

	var req struct {
		ToStatusID   int     `json:"to_status_id" binding:"required"`
		Note         *string `json:"note"`
		RequestToken string  `json:"request_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	svc := services.NewWorkflowService(config.DB)
	record, err := svc.Transition(services.TransitionInput{
		Kind:         kind,
		EntityID:     entityID,
		ActorID:      userID,
		ActorRole:    role,
		ToStatusID:   req.ToStatusID,
		Remarks:      req.Note,
		RequestToken: req.RequestToken,
	})
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	newStatus, _ := services.GetWorkflowStatus(kind, record.ToStatusID)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"history_id": record.HistoryID,
		"new_status": newStatus,
		"override":   record.IsOverride,
	})
}

// GetEntityHistory returns the full transition timeline, oldest first.
// GET /workflow/:kind/:id/history
func GetEntityHistory(c *gin.Context) {
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}
	entityID, ok := parseEntityID(c)
	if !ok {
		return
	}

	ledger := services.NewHistoryLedger(config.DB)
	records, err := ledger.TimelineFor(kind, entityID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No history for entity", "code": services.CodeNotFound})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"history": records,
		"total":   len(records),
	})
}

// ListWorkflowItems renders role queues for the dashboards.
// GET /workflow/:kind?owned_by_role=X&status=Y
func ListWorkflowItems(c *gin.Context) {
	kind, ok := parseKindParam(c)
	if !ok {
		return
	}

	var statusID *int
	if raw := c.Query("status"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		statusID = &parsed
	}

	projections := services.NewProjectionService(config.DB)

	if rawRole := c.Query("owned_by_role"); rawRole != "" {
		role, err := utils.ParseRole(rawRole)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role filter"})
			return
		}
		switch kind {
		case models.KindSociety:
			societies, err := projections.PendingSocieties(role)
			if err != nil {
				respondWorkflowError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "items": societies, "total": len(societies)})
		case models.KindEventRequest:
			requests, err := projections.PendingEventRequests(role)
			if err != nil {
				respondWorkflowError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "items": requests, "total": len(requests)})
		}
		return
	}

	switch kind {
	case models.KindSociety:
		societies, err := projections.ListSocieties(statusID)
		if err != nil {
			respondWorkflowError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "items": societies, "total": len(societies)})
	case models.KindEventRequest:
		requests, err := projections.ListEventRequests(statusID)
		if err != nil {
			respondWorkflowError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "items": requests, "total": len(requests)})
	}
}

// GetAllowedStatuses mirrors the catalog for UI pickers: where can an item in
// the given status go next.
// GET /workflow/statuses?kind=K&current_status_id=Y
func GetAllowedStatuses(c *gin.Context) {
	kind, err := utils.ParseEntityKind(c.DefaultQuery("kind", models.KindSociety))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entity kind"})
		return
	}

	raw := c.Query("current_status_id")
	if raw == "" {
		c.JSON(http.StatusOK, gin.H{"success": true, "statuses": services.AllStatuses(kind)})
		return
	}

	currentStatusID, convErr := strconv.Atoi(raw)
	if convErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid current_status_id"})
		return
	}
	if _, err := services.GetWorkflowStatus(kind, currentStatusID); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"statuses": services.AllowedNextStatuses(kind, currentStatusID),
	})
}
