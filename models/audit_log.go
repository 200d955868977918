package models

import "time"

// AuditLog records administrative actions that happen outside the status
// ledger, such as a cascade purge. It is not part of the workflow history.
type AuditLog struct {
	AuditLogID  uint      `gorm:"primaryKey;column:audit_log_id" json:"audit_log_id"`
	UserID      int       `gorm:"column:user_id" json:"user_id"`
	Action      string    `gorm:"column:action" json:"action"`
	EntityKind  string    `gorm:"column:entity_kind" json:"entity_kind"`
	EntityID    *uint     `gorm:"column:entity_id" json:"entity_id,omitempty"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	IPAddress   string    `gorm:"column:ip_address" json:"ip_address"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
