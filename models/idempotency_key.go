package models

import "time"

// IdempotencyKey records a consumed client-supplied transition token so a
// retried call can be answered with the original history record instead of
// double-appending the ledger.
type IdempotencyKey struct {
	Token      string    `gorm:"primaryKey;column:token" json:"token"`
	EntityKind string    `gorm:"column:entity_kind" json:"entity_kind"`
	EntityID   uint      `gorm:"column:entity_id" json:"entity_id"`
	ActorID    int       `gorm:"column:actor_id" json:"actor_id"`
	ToStatusID int       `gorm:"column:to_status_id" json:"to_status_id"`
	HistoryID  uint      `gorm:"column:history_id" json:"history_id"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}
