package models

import "time"

// Entity kinds handled by the workflow engine.
const (
	KindSociety      = "society"
	KindEventRequest = "event_request"
)

// Status IDs for the review chain. Both entity kinds share 1-9; the event
// chain continues past VC approval into an execution phase (10-11) owned by
// the submitting society.
const (
	StatusPending           = 1
	StatusBoardSecApproved  = 2
	StatusBoardSecRejected  = 3
	StatusBoardPresApproved = 4
	StatusBoardPresRejected = 5
	StatusRegistrarApproved = 6
	StatusRegistrarRejected = 7
	StatusVCApproved        = 8
	StatusVCRejected        = 9
	StatusActive            = 10
	StatusReportSubmitted   = 11
)

// WorkflowStatus is a catalog entry keyed by (entity_kind, status_id).
// OwningRole is the single role allowed to transition out of this status;
// nil marks a terminal status.
type WorkflowStatus struct {
	EntityKind  string     `gorm:"primaryKey;column:entity_kind" json:"entity_kind"`
	StatusID    int        `gorm:"primaryKey;column:status_id" json:"status_id"`
	StatusName  string     `gorm:"column:status_name" json:"status_name"`
	Description string     `gorm:"column:description" json:"description"`
	OwningRole  *string    `gorm:"column:owning_role" json:"owning_role,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

func (WorkflowStatus) TableName() string {
	return "workflow_statuses"
}

// Terminal reports whether no role may act on an item in this status.
func (s WorkflowStatus) Terminal() bool {
	return s.OwningRole == nil
}
