package models

import "time"

// Society is a registration request progressing through the approval chain.
// StatusID is a cached projection of the last status_history record and is
// mutated only by the workflow engine.
type Society struct {
	SocietyID     uint       `gorm:"primaryKey;column:society_id" json:"society_id"`
	SocietyNumber string     `gorm:"column:society_number;unique" json:"society_number"`
	SocietyName   string     `gorm:"column:society_name" json:"society_name"`
	Description   string     `gorm:"column:description" json:"description"`
	AdvisorName   *string    `gorm:"column:advisor_name" json:"advisor_name,omitempty"`
	LogoPath      *string    `gorm:"column:logo_path" json:"logo_path,omitempty"` // opaque file reference
	OwnerID       int        `gorm:"column:owner_id" json:"owner_id"`
	StatusID      int        `gorm:"column:status_id" json:"status_id"`
	Note          *string    `gorm:"column:note" json:"note,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt     *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	Owner *User `gorm:"foreignKey:OwnerID;references:UserID" json:"owner,omitempty"`
}

func (Society) TableName() string {
	return "societies"
}
