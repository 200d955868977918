package models

import "time"

// StatusHistory is one append-only ledger record per applied transition. The
// ordered sequence of records for an entity is the source of truth for its
// current status; rows are never updated or deleted outside an
// administrative purge.
type StatusHistory struct {
	HistoryID    uint      `gorm:"primaryKey;column:history_id" json:"history_id"`
	EntityKind   string    `gorm:"column:entity_kind;index:idx_history_entity" json:"entity_kind"`
	EntityID     uint      `gorm:"column:entity_id;index:idx_history_entity" json:"entity_id"`
	FromStatusID *int      `gorm:"column:from_status_id" json:"from_status_id"`
	ToStatusID   int       `gorm:"column:to_status_id" json:"to_status_id"`
	ActorID      int       `gorm:"column:actor_id" json:"actor_id"`
	ActorRole    string    `gorm:"column:actor_role" json:"actor_role"`
	Remarks      *string   `gorm:"column:remarks" json:"remarks,omitempty"`
	IsOverride   bool      `gorm:"column:is_override" json:"is_override"`
	ChangedAt    time.Time `gorm:"column:changed_at" json:"changed_at"`
}

func (StatusHistory) TableName() string {
	return "status_history"
}
