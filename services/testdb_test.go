package services

import (
	"fmt"
	"testing"
	"time"

	"society-portal-api/models"
	"society-portal-api/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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
	// A single connection keeps the in-memory database alive and shared.
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
	if err := SeedStatusCatalog(db); err != nil {
		t.Fatalf("failed to seed status catalog: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, id int, role string) models.User {
	t.Helper()
	now := time.Now()
	user := models.User{
		UserID:    id,
		UserFname: "Test",
		UserLname: role,
		Email:     fmt.Sprintf("%s-%d@example.edu", role, id),
		Password:  "x",
		Role:      role,
		CreateAt:  &now,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func submitTestSociety(t *testing.T, svc *WorkflowService, ownerID int) *models.Society {
	t.Helper()
	society, err := svc.SubmitSociety(SubmitSocietyInput{
		Name:        "Robotics Society",
		Description: "Builds robots",
		OwnerID:     ownerID,
		OwnerRole:   utils.RoleStudent,
	})
	if err != nil {
		t.Fatalf("failed to submit society: %v", err)
	}
	return society
}

func submitTestEventRequest(t *testing.T, svc *WorkflowService, societyID uint, ownerID int) *models.EventRequest {
	t.Helper()
	request, err := svc.SubmitEventRequest(SubmitEventRequestInput{
		SocietyID:   societyID,
		Title:       "Robotics Fair",
		Description: "Annual exhibition",
		OwnerID:     ownerID,
		OwnerRole:   utils.RoleSocietyOwner,
	})
	if err != nil {
		t.Fatalf("failed to submit event request: %v", err)
	}
	return request
}

func mustTransition(t *testing.T, svc *WorkflowService, in TransitionInput) *models.StatusHistory {
	t.Helper()
	record, err := svc.Transition(in)
	if err != nil {
		t.Fatalf("transition to %d as %s failed: %v", in.ToStatusID, in.ActorRole, err)
	}
	return record
}
