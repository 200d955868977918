package models

import "time"

// EventRequest is an event proposal submitted by an approved society. It
// follows the same review chain as Society but continues into an execution
// phase (active, report submitted) after VC approval.
type EventRequest struct {
	EventRequestID uint       `gorm:"primaryKey;column:event_request_id" json:"event_request_id"`
	RequestNumber  string     `gorm:"column:request_number;unique" json:"request_number"`
	SocietyID      uint       `gorm:"column:society_id" json:"society_id"`
	EventTitle     string     `gorm:"column:event_title" json:"event_title"`
	Description    string     `gorm:"column:description" json:"description"`
	Venue          *string    `gorm:"column:venue" json:"venue,omitempty"`
	StartsAt       *time.Time `gorm:"column:starts_at" json:"starts_at,omitempty"`
	ReportPath     *string    `gorm:"column:report_path" json:"report_path,omitempty"` // opaque file reference
	OwnerID        int        `gorm:"column:owner_id" json:"owner_id"`
	StatusID       int        `gorm:"column:status_id" json:"status_id"`
	Note           *string    `gorm:"column:note" json:"note,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt      *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	Owner   *User    `gorm:"foreignKey:OwnerID;references:UserID" json:"owner,omitempty"`
	Society *Society `gorm:"foreignKey:SocietyID;references:SocietyID" json:"society,omitempty"`
}

func (EventRequest) TableName() string {
	return "event_requests"
}
