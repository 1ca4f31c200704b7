package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// Statuses lists every accepted status in the order the form offers them.
var Statuses = []Status{StatusScheduled, StatusCompleted, StatusCancelled}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Fee is the consultation fee as typed into the form. Stores may send it
// back as a JSON number, so decoding accepts both forms.
type Fee string

func (f *Fee) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Fee(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("fee must be a string or number: %w", err)
	}
	*f = Fee(n.String())
	return nil
}

// Appointment is the single persisted entity. ID is assigned by the store
// and is empty on drafts that have not been saved yet.
type Appointment struct {
	ID              string `json:"_id,omitempty" gorm:"primaryKey;type:varchar(36)"`
	PatientName     string `json:"patient_name" gorm:"type:varchar(255);index"`
	DoctorName      string `json:"doctor_name" gorm:"type:varchar(255)"`
	AppointmentDate string `json:"appointment_date" gorm:"type:varchar(32)"`
	AppointmentTime string `json:"appointment_time" gorm:"type:varchar(16)"`
	Reason          string `json:"reason" gorm:"type:text"`
	Fee             Fee    `json:"fee" gorm:"type:varchar(32)"`
	Status          Status `json:"status" gorm:"type:varchar(16);default:Scheduled"`

	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns a fresh identifier to records that arrive without one.
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// EmptyDraft returns the template used when opening the create form.
func EmptyDraft() Appointment {
	return Appointment{Status: StatusScheduled}
}

// Field names accepted by SetField, matching the JSON keys.
const (
	FieldPatientName     = "patient_name"
	FieldDoctorName      = "doctor_name"
	FieldAppointmentDate = "appointment_date"
	FieldAppointmentTime = "appointment_time"
	FieldReason          = "reason"
	FieldFee             = "fee"
	FieldStatus          = "status"
)

// EditableFields lists the form fields in display order.
var EditableFields = []string{
	FieldPatientName,
	FieldDoctorName,
	FieldAppointmentDate,
	FieldAppointmentTime,
	FieldReason,
	FieldFee,
	FieldStatus,
}

// SetField assigns value to the field named by its JSON key without any
// coercion. It returns false when name is not an editable field.
func (a *Appointment) SetField(name, value string) bool {
	switch name {
	case FieldPatientName:
		a.PatientName = value
	case FieldDoctorName:
		a.DoctorName = value
	case FieldAppointmentDate:
		a.AppointmentDate = value
	case FieldAppointmentTime:
		a.AppointmentTime = value
	case FieldReason:
		a.Reason = value
	case FieldFee:
		a.Fee = Fee(value)
	case FieldStatus:
		a.Status = Status(value)
	default:
		return false
	}
	return true
}

// Field returns the current value of the field named by its JSON key.
func (a Appointment) Field(name string) string {
	switch name {
	case FieldPatientName:
		return a.PatientName
	case FieldDoctorName:
		return a.DoctorName
	case FieldAppointmentDate:
		return a.AppointmentDate
	case FieldAppointmentTime:
		return a.AppointmentTime
	case FieldReason:
		return a.Reason
	case FieldFee:
		return string(a.Fee)
	case FieldStatus:
		return string(a.Status)
	}
	return ""
}

// WithoutID returns a copy of a with the identifier cleared, as sent on create.
func (a Appointment) WithoutID() Appointment {
	a.ID = ""
	return a
}

// DisplayDate renders AppointmentDate as M/D/YYYY. Values that do not parse
// as a date are returned unchanged.
func (a Appointment) DisplayDate() string {
	raw := strings.TrimSpace(a.AppointmentDate)
	for _, layout := range []string{"2006-01-02", time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("1/2/2006")
		}
	}
	return raw
}

// DisplayFee renders the fee with the rupee sign.
func (a Appointment) DisplayFee() string {
	return "₹" + string(a.Fee)
}
