package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog is a persisted record of one call against the appointment store.
type AuditLog struct {
	gorm.Model
	EventType     string         `json:"event_type" gorm:"column:event_type;type:varchar(64);index"`
	AppointmentID string         `json:"appointment_id" gorm:"column:appointment_id;type:varchar(36);index"`
	IP            string         `json:"ip" gorm:"column:ip;type:varchar(45)"`
	UserAgent     string         `json:"user_agent" gorm:"column:user_agent;type:varchar(512)"`
	Location      string         `json:"location" gorm:"column:location;type:varchar(128)"`
	Message       string         `json:"message" gorm:"column:message;type:text"`
	Details       datatypes.JSON `json:"details" gorm:"column:details;type:json"`
}
