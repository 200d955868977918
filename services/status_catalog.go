package services

import (
	"time"

	"society-portal-api/models"
	"society-portal-api/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The status catalog is static: it is compiled in, served from memory, and
// mirrored into the workflow_statuses table at startup so reporting queries
// can join against it.

type statusKey struct {
	kind     string
	statusID int
}

type statusCatalog struct {
	statuses map[statusKey]models.WorkflowStatus
	next     map[statusKey][]int
	order    map[string][]int
}

// Allowed transitions shared by both review chains.
var reviewChainNext = map[int][]int{
	models.StatusPending:           {models.StatusBoardSecApproved, models.StatusBoardSecRejected},
	models.StatusBoardSecApproved:  {models.StatusBoardPresApproved, models.StatusBoardPresRejected},
	models.StatusBoardPresApproved: {models.StatusRegistrarApproved, models.StatusRegistrarRejected},
	models.StatusRegistrarApproved: {models.StatusVCApproved, models.StatusVCRejected},
}

type statusDef struct {
	id          int
	name        string
	description string
	owningRole  string // empty for terminal statuses
}

var societyStatusDefs = []statusDef{
	{models.StatusPending, "pending", "Awaiting board secretary review", utils.RoleBoardSecretary},
	{models.StatusBoardSecApproved, "board_sec_approved", "Endorsed by board secretary, awaiting board president", utils.RoleBoardPresident},
	{models.StatusBoardSecRejected, "board_sec_rejected", "Rejected by board secretary", ""},
	{models.StatusBoardPresApproved, "board_pres_approved", "Endorsed by board president, awaiting registrar", utils.RoleRegistrar},
	{models.StatusBoardPresRejected, "board_pres_rejected", "Rejected by board president", ""},
	{models.StatusRegistrarApproved, "registrar_approved", "Endorsed by registrar, awaiting vice chancellor", utils.RoleVC},
	{models.StatusRegistrarRejected, "registrar_rejected", "Rejected by registrar", ""},
	{models.StatusVCApproved, "vc_approved", "Approved by vice chancellor", ""},
	{models.StatusVCRejected, "vc_rejected", "Rejected by vice chancellor", ""},
}

// The event chain mirrors the society chain through the review stages, but
// VC approval hands the item back to the submitting society for execution
// instead of terminating.
var eventStatusDefs = []statusDef{
	{models.StatusPending, "pending", "Awaiting board secretary review", utils.RoleBoardSecretary},
	{models.StatusBoardSecApproved, "board_sec_approved", "Endorsed by board secretary, awaiting board president", utils.RoleBoardPresident},
	{models.StatusBoardSecRejected, "board_sec_rejected", "Rejected by board secretary", ""},
	{models.StatusBoardPresApproved, "board_pres_approved", "Endorsed by board president, awaiting registrar", utils.RoleRegistrar},
	{models.StatusBoardPresRejected, "board_pres_rejected", "Rejected by board president", ""},
	{models.StatusRegistrarApproved, "registrar_approved", "Endorsed by registrar, awaiting vice chancellor", utils.RoleVC},
	{models.StatusRegistrarRejected, "registrar_rejected", "Rejected by registrar", ""},
	{models.StatusVCApproved, "vc_approved", "Approved by vice chancellor, awaiting event execution", utils.RoleSocietyOwner},
	{models.StatusVCRejected, "vc_rejected", "Rejected by vice chancellor", ""},
	{models.StatusActive, "active", "Event running, awaiting completion report", utils.RoleSocietyOwner},
	{models.StatusReportSubmitted, "report_submitted", "Completion report submitted", ""},
}

var eventExecutionNext = map[int][]int{
	models.StatusVCApproved: {models.StatusActive},
	models.StatusActive:     {models.StatusReportSubmitted},
}

var catalog = buildStatusCatalog()

func buildStatusCatalog() *statusCatalog {
	c := &statusCatalog{
		statuses: make(map[statusKey]models.WorkflowStatus),
		next:     make(map[statusKey][]int),
		order:    make(map[string][]int),
	}

	add := func(kind string, defs []statusDef, extraNext map[int][]int) {
		for _, def := range defs {
			key := statusKey{kind: kind, statusID: def.id}
			status := models.WorkflowStatus{
				EntityKind:  kind,
				StatusID:    def.id,
				StatusName:  def.name,
				Description: def.description,
			}
			if def.owningRole != "" {
				role := def.owningRole
				status.OwningRole = &role
			}
			c.statuses[key] = status
			c.order[kind] = append(c.order[kind], def.id)

			if next, ok := reviewChainNext[def.id]; ok {
				c.next[key] = append([]int(nil), next...)
			}
			if next, ok := extraNext[def.id]; ok {
				c.next[key] = append([]int(nil), next...)
			}
		}
	}

	add(models.KindSociety, societyStatusDefs, nil)
	add(models.KindEventRequest, eventStatusDefs, eventExecutionNext)
	return c
}

// GetWorkflowStatus looks up a catalog entry by (kind, status_id).
func GetWorkflowStatus(kind string, statusID int) (models.WorkflowStatus, error) {
	status, ok := catalog.statuses[statusKey{kind: kind, statusID: statusID}]
	if !ok {
		return models.WorkflowStatus{}, ErrNotFound
	}
	return status, nil
}

// AllowedNextStatuses returns the statuses reachable from the given one.
// Terminal statuses return an empty slice.
func AllowedNextStatuses(kind string, statusID int) []models.WorkflowStatus {
	ids := catalog.next[statusKey{kind: kind, statusID: statusID}]
	out := make([]models.WorkflowStatus, 0, len(ids))
	for _, id := range ids {
		if status, ok := catalog.statuses[statusKey{kind: kind, statusID: id}]; ok {
			out = append(out, status)
		}
	}
	return out
}

// AllStatuses returns the catalog for one entity kind in chain order.
func AllStatuses(kind string) []models.WorkflowStatus {
	out := make([]models.WorkflowStatus, 0, len(catalog.order[kind]))
	for _, id := range catalog.order[kind] {
		out = append(out, catalog.statuses[statusKey{kind: kind, statusID: id}])
	}
	return out
}

// OwnedStatusIDs returns the non-terminal status IDs whose owning role is the
// given role. Used by the pending-queue projections.
func OwnedStatusIDs(kind, role string) []int {
	var out []int
	for _, id := range catalog.order[kind] {
		status := catalog.statuses[statusKey{kind: kind, statusID: id}]
		if status.OwningRole != nil && *status.OwningRole == role {
			out = append(out, id)
		}
	}
	return out
}

// SeedStatusCatalog upserts the compiled-in catalog into workflow_statuses.
func SeedStatusCatalog(db *gorm.DB) error {
	now := time.Now()
	for _, kind := range []string{models.KindSociety, models.KindEventRequest} {
		for _, status := range AllStatuses(kind) {
			row := status
			row.CreatedAt = now
			if err := db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "entity_kind"}, {Name: "status_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"status_name", "description", "owning_role"}),
			}).Create(&row).Error; err != nil {
				return persistenceError("seed status catalog", err)
			}
		}
	}
	return nil
}
