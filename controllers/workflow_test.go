package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"society-portal-api/config"
	"society-portal-api/models"
	"society-portal-api/services"
	"society-portal-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestEnv(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&models.User{},
		&models.WorkflowStatus{},
		&models.Society{},
		&models.EventRequest{},
		&models.StatusHistory{},
		&models.IdempotencyKey{},
		&models.Notification{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	if err := services.SeedStatusCatalog(db); err != nil {
		t.Fatalf("failed to seed status catalog: %v", err)
	}

	previous := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = previous })
	return db
}

// asUser replaces the JWT middleware in tests: the actor is injected straight
// into the request context.
func asUser(userID int, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("email", fmt.Sprintf("user-%d@example.edu", userID))
		c.Set("role", role)
		c.Next()
	}
}

func newWorkflowRouter(userID int, role string) *gin.Engine {
	router := gin.New()
	group := router.Group("/api/v1/workflow", asUser(userID, role))
	group.GET("/statuses", GetAllowedStatuses)
	group.GET("/:kind", ListWorkflowItems)
	group.GET("/:kind/:id/history", GetEntityHistory)
	group.POST("/:kind/:id/transition", TransitionEntity)
	return router
}

func seedSociety(t *testing.T, db *gorm.DB, ownerID int) *models.Society {
	t.Helper()
	now := time.Now()
	user := models.User{
		UserID:    ownerID,
		UserFname: "Owner",
		UserLname: "User",
		Email:     fmt.Sprintf("owner-%d@example.edu", ownerID),
		Password:  "x",
		Role:      utils.RoleStudent,
		CreateAt:  &now,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	svc := services.NewWorkflowService(db)
	society, err := svc.SubmitSociety(services.SubmitSocietyInput{
		Name:        "Chess Society",
		Description: "Weekly tournaments",
		OwnerID:     ownerID,
		OwnerRole:   utils.RoleStudent,
	})
	if err != nil {
		t.Fatalf("failed to submit society: %v", err)
	}
	return society
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var parsed map[string]interface{}
	if len(recorder.Body.Bytes()) > 0 {
		if err := json.Unmarshal(recorder.Body.Bytes(), &parsed); err != nil {
			t.Fatalf("failed to parse response %q: %v", recorder.Body.String(), err)
		}
	}
	return recorder, parsed
}

func TestTransitionEndpoint(t *testing.T) {
	db := setupTestEnv(t)
	society := seedSociety(t, db, 1)

	router := newWorkflowRouter(2, utils.RoleBoardSecretary)
	path := fmt.Sprintf("/api/v1/workflow/society/%d/transition", society.SocietyID)

	recorder, body := doJSON(t, router, http.MethodPost, path, gin.H{
		"to_status_id":  models.StatusBoardSecApproved,
		"note":          "Looks good",
		"request_token": "http-test-token",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", recorder.Code, body)
	}
	if body["success"] != true {
		t.Fatalf("expected success response, got %v", body)
	}

	var reloaded models.Society
	if err := db.First(&reloaded, society.SocietyID).Error; err != nil {
		t.Fatalf("failed to reload society: %v", err)
	}
	if reloaded.StatusID != models.StatusBoardSecApproved {
		t.Fatalf("expected status %d, got %d", models.StatusBoardSecApproved, reloaded.StatusID)
	}
}

func TestTransitionEndpointForbiddenRole(t *testing.T) {
	db := setupTestEnv(t)
	society := seedSociety(t, db, 1)

	router := newWorkflowRouter(4, utils.RoleRegistrar)
	path := fmt.Sprintf("/api/v1/workflow/society/%d/transition", society.SocietyID)

	recorder, body := doJSON(t, router, http.MethodPost, path, gin.H{
		"to_status_id":  models.StatusBoardSecApproved,
		"request_token": "forbidden-token",
	})
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %v", recorder.Code, body)
	}
	if body["code"] != services.CodeForbidden {
		t.Fatalf("expected forbidden code, got %v", body["code"])
	}
}

func TestTransitionEndpointInvalidTransitionListsAllowed(t *testing.T) {
	db := setupTestEnv(t)
	society := seedSociety(t, db, 1)

	router := newWorkflowRouter(2, utils.RoleBoardSecretary)
	path := fmt.Sprintf("/api/v1/workflow/society/%d/transition", society.SocietyID)

	// Skipping straight to registrar approval from pending.
	recorder, body := doJSON(t, router, http.MethodPost, path, gin.H{
		"to_status_id":  models.StatusRegistrarApproved,
		"request_token": "skip-token",
	})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %v", recorder.Code, body)
	}
	if body["code"] != services.CodeInvalidTransition {
		t.Fatalf("expected invalid_transition code, got %v", body["code"])
	}
	allowed, ok := body["allowed"].([]interface{})
	if !ok || len(allowed) != 2 {
		t.Fatalf("expected two allowed targets, got %v", body["allowed"])
	}
}

func TestTransitionEndpointUnknownEntity(t *testing.T) {
	setupTestEnv(t)

	router := newWorkflowRouter(2, utils.RoleBoardSecretary)
	recorder, body := doJSON(t, router, http.MethodPost, "/api/v1/workflow/society/9999/transition", gin.H{
		"to_status_id":  models.StatusBoardSecApproved,
		"request_token": "missing-token",
	})
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %v", recorder.Code, body)
	}
	if body["code"] != services.CodeNotFound {
		t.Fatalf("expected not_found code, got %v", body["code"])
	}
}

func TestHistoryEndpoint(t *testing.T) {
	db := setupTestEnv(t)
	society := seedSociety(t, db, 1)

	router := newWorkflowRouter(2, utils.RoleBoardSecretary)
	path := fmt.Sprintf("/api/v1/workflow/society/%d/history", society.SocietyID)

	recorder, body := doJSON(t, router, http.MethodGet, path, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", recorder.Code, body)
	}
	history, ok := body["history"].([]interface{})
	if !ok || len(history) != 1 {
		t.Fatalf("expected one submit record, got %v", body["history"])
	}

	recorder, body = doJSON(t, router, http.MethodGet, "/api/v1/workflow/society/9999/history", nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown entity, got %d: %v", recorder.Code, body)
	}
}

func TestQueueEndpoint(t *testing.T) {
	db := setupTestEnv(t)
	seedSociety(t, db, 1)

	router := newWorkflowRouter(2, utils.RoleBoardSecretary)
	recorder, body := doJSON(t, router, http.MethodGet,
		"/api/v1/workflow/societies?owned_by_role=board_secretary", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", recorder.Code, body)
	}
	if total, ok := body["total"].(float64); !ok || total != 1 {
		t.Fatalf("expected one queued society, got %v", body["total"])
	}

	recorder, body = doJSON(t, router, http.MethodGet,
		"/api/v1/workflow/societies?owned_by_role=registrar", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", recorder.Code, body)
	}
	if total, ok := body["total"].(float64); !ok || total != 0 {
		t.Fatalf("expected empty registrar queue, got %v", body["total"])
	}
}

func TestStatusesEndpoint(t *testing.T) {
	setupTestEnv(t)

	router := newWorkflowRouter(1, utils.RoleStudent)
	recorder, body := doJSON(t, router, http.MethodGet, "/api/v1/workflow/statuses?kind=society", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", recorder.Code, body)
	}
	statuses, ok := body["statuses"].([]interface{})
	if !ok || len(statuses) != 9 {
		t.Fatalf("expected 9 society statuses, got %v", body["statuses"])
	}

	recorder, body = doJSON(t, router, http.MethodGet,
		"/api/v1/workflow/statuses?kind=society&current_status_id=1", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", recorder.Code, body)
	}
	statuses, ok = body["statuses"].([]interface{})
	if !ok || len(statuses) != 2 {
		t.Fatalf("expected 2 allowed targets from pending, got %v", body["statuses"])
	}
}
