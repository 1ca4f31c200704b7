package util

import (
	"encoding/json"
	"strings"

	"github.com/ariebrainware/appointment-manager/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditEventType classifies calls against the appointment store.
type AuditEventType string

const (
	EventAppointmentsListed AuditEventType = "APPOINTMENTS_LISTED"
	EventAppointmentRead    AuditEventType = "APPOINTMENT_READ"
	EventAppointmentCreated AuditEventType = "APPOINTMENT_CREATED"
	EventAppointmentUpdated AuditEventType = "APPOINTMENT_UPDATED"
	EventAppointmentDeleted AuditEventType = "APPOINTMENT_DELETED"
	EventRequestRejected    AuditEventType = "REQUEST_REJECTED"
	EventRateLimitExceeded  AuditEventType = "RATE_LIMIT_EXCEEDED"
	EventEndpointCall       AuditEventType = "ENDPOINT_CALL"
)

// AuditEvent represents one audited request.
type AuditEvent struct {
	EventType     AuditEventType
	AppointmentID string
	IP            string
	UserAgent     string
	// Location is filled from the GeoIP database when left empty.
	Location string
	Message  string
	Details  map[string]interface{}
}

// AuditLogger writes audit events to zap and, when a database is set,
// persists them to the audit_logs table.
type AuditLogger struct {
	log *zap.Logger
	db  *gorm.DB
}

// NewAuditLogger returns an AuditLogger. Both arguments may be nil.
func NewAuditLogger(log *zap.Logger, db *gorm.DB) *AuditLogger {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuditLogger{log: log.Named("audit"), db: db}
}

// sanitizeLogValue removes newlines and other characters that could break log parsing
func sanitizeLogValue(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\t", " ")
	// Truncate very long values to prevent log flooding
	if len(value) > 200 {
		value = value[:200] + "..."
	}
	return value
}

// Log records event. Persistence is best-effort: a failed insert is logged
// and otherwise ignored.
func (a *AuditLogger) Log(event AuditEvent) {
	if a == nil {
		return
	}
	if event.Location == "" {
		event.Location = FormatLocation(GetIPLocation(event.IP))
	}

	fields := []zap.Field{
		zap.String("event", string(event.EventType)),
		zap.String("appointment_id", sanitizeLogValue(event.AppointmentID)),
		zap.String("ip", sanitizeLogValue(event.IP)),
		zap.String("user_agent", sanitizeLogValue(event.UserAgent)),
	}
	if event.Location != "" {
		fields = append(fields, zap.String("location", sanitizeLogValue(event.Location)))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}
	a.log.Info(sanitizeLogValue(event.Message), fields...)

	if a.db == nil {
		return
	}

	var details datatypes.JSON
	if event.Details != nil {
		if b, err := json.Marshal(event.Details); err == nil {
			details = datatypes.JSON(b)
		}
	}

	entry := model.AuditLog{
		EventType:     string(event.EventType),
		AppointmentID: sanitizeLogValue(event.AppointmentID),
		IP:            sanitizeLogValue(event.IP),
		UserAgent:     sanitizeLogValue(event.UserAgent),
		Location:      sanitizeLogValue(event.Location),
		Message:       sanitizeLogValue(event.Message),
		Details:       details,
	}
	if err := a.db.Create(&entry).Error; err != nil {
		a.log.Warn("failed to persist audit event", zap.Error(err))
	}
}
