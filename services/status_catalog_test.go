package services

import (
	"testing"

	"society-portal-api/models"
	"society-portal-api/utils"
)

func TestCatalogOwningRoles(t *testing.T) {
	expected := map[int]string{
		models.StatusPending:           utils.RoleBoardSecretary,
		models.StatusBoardSecApproved:  utils.RoleBoardPresident,
		models.StatusBoardPresApproved: utils.RoleRegistrar,
		models.StatusRegistrarApproved: utils.RoleVC,
	}

	for statusID, role := range expected {
		for _, kind := range []string{models.KindSociety, models.KindEventRequest} {
			status, err := GetWorkflowStatus(kind, statusID)
			if err != nil {
				t.Fatalf("missing status %d for %s: %v", statusID, kind, err)
			}
			if status.OwningRole == nil || *status.OwningRole != role {
				t.Fatalf("status %d for %s: expected owner %s, got %v", statusID, kind, role, status.OwningRole)
			}
		}
	}
}

func TestCatalogTerminality(t *testing.T) {
	societyTerminal := []int{
		models.StatusBoardSecRejected,
		models.StatusBoardPresRejected,
		models.StatusRegistrarRejected,
		models.StatusVCApproved,
		models.StatusVCRejected,
	}
	for _, statusID := range societyTerminal {
		status, err := GetWorkflowStatus(models.KindSociety, statusID)
		if err != nil {
			t.Fatalf("missing society status %d: %v", statusID, err)
		}
		if !status.Terminal() {
			t.Fatalf("society status %d should be terminal", statusID)
		}
		if next := AllowedNextStatuses(models.KindSociety, statusID); len(next) != 0 {
			t.Fatalf("terminal society status %d has next statuses %v", statusID, next)
		}
	}

	// VC approval is not the end of the road for events: the submitting
	// society still owns an execution phase.
	vcApproved, err := GetWorkflowStatus(models.KindEventRequest, models.StatusVCApproved)
	if err != nil {
		t.Fatalf("missing event vc_approved: %v", err)
	}
	if vcApproved.Terminal() {
		t.Fatal("event vc_approved must not be terminal")
	}
	if vcApproved.OwningRole == nil || *vcApproved.OwningRole != utils.RoleSocietyOwner {
		t.Fatalf("event vc_approved should be owned by society_owner, got %v", vcApproved.OwningRole)
	}

	report, err := GetWorkflowStatus(models.KindEventRequest, models.StatusReportSubmitted)
	if err != nil {
		t.Fatalf("missing event report_submitted: %v", err)
	}
	if !report.Terminal() {
		t.Fatal("event report_submitted must be terminal")
	}
}

func TestCatalogUnknownStatus(t *testing.T) {
	if _, err := GetWorkflowStatus(models.KindSociety, models.StatusActive); err == nil {
		t.Fatal("society chain must not contain the event execution statuses")
	}
	if _, err := GetWorkflowStatus(models.KindSociety, 99); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

// Every legal walk from the initial status must reach a terminal status in a
// bounded number of steps.
func TestEveryPathTerminates(t *testing.T) {
	for _, kind := range []string{models.KindSociety, models.KindEventRequest} {
		limit := len(AllStatuses(kind)) + 1

		var walk func(statusID int, depth int)
		walk = func(statusID int, depth int) {
			if depth > limit {
				t.Fatalf("%s: walk from pending exceeded %d steps, cycle suspected", kind, limit)
			}
			next := AllowedNextStatuses(kind, statusID)
			status, err := GetWorkflowStatus(kind, statusID)
			if err != nil {
				t.Fatalf("%s: unknown status %d in chain", kind, statusID)
			}
			if len(next) == 0 && !status.Terminal() {
				t.Fatalf("%s: dead-end non-terminal status %d", kind, statusID)
			}
			for _, candidate := range next {
				walk(candidate.StatusID, depth+1)
			}
		}
		walk(models.StatusPending, 0)
	}
}

func TestOwnedStatusIDs(t *testing.T) {
	ids := OwnedStatusIDs(models.KindEventRequest, utils.RoleSocietyOwner)
	if len(ids) != 2 {
		t.Fatalf("expected 2 society_owner statuses for events, got %v", ids)
	}
	if ids[0] != models.StatusVCApproved || ids[1] != models.StatusActive {
		t.Fatalf("unexpected society_owner statuses: %v", ids)
	}

	if ids := OwnedStatusIDs(models.KindSociety, utils.RoleSocietyOwner); len(ids) != 0 {
		t.Fatalf("society chain should have no society_owner statuses, got %v", ids)
	}
	if ids := OwnedStatusIDs(models.KindSociety, utils.RoleAdmin); len(ids) != 0 {
		t.Fatalf("admin owns no statuses directly, got %v", ids)
	}
}

func TestSeedStatusCatalogIdempotent(t *testing.T) {
	db := newTestDB(t)

	// Seeding again must upsert, not duplicate.
	if err := SeedStatusCatalog(db); err != nil {
		t.Fatalf("re-seed failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.WorkflowStatus{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count statuses: %v", err)
	}
	expected := int64(len(AllStatuses(models.KindSociety)) + len(AllStatuses(models.KindEventRequest)))
	if count != expected {
		t.Fatalf("expected %d catalog rows, got %d", expected, count)
	}
}
