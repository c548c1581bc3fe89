package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// AppointmentType distinguishes a regular visit from a medication pickup
type AppointmentType string

const (
	AppointmentTypeVisit      AppointmentType = "appointment"
	AppointmentTypeMedication AppointmentType = "medication"
)

// ValidAppointmentStatus reports whether s is one of the known statuses
func ValidAppointmentStatus(s string) bool {
	switch AppointmentStatus(s) {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// ValidAppointmentType reports whether t is one of the known visit types
func ValidAppointmentType(t string) bool {
	switch AppointmentType(t) {
	case AppointmentTypeVisit, AppointmentTypeMedication:
		return true
	}
	return false
}

// Appointment represents a booked slot with a doctor.
// A unique partial index on (doctor_id, appointment_date, appointment_time)
// WHERE status <> 'cancelled' backs the application-level conflict check.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	AppointmentDate time.Time         `gorm:"type:date;not null;index" json:"appointment_date"`
	AppointmentTime string            `gorm:"type:time;not null" json:"appointment_time"`
	Status          AppointmentStatus `gorm:"type:appointment_status;not null;default:'scheduled';index" json:"status"`
	Type            AppointmentType   `gorm:"type:appointment_type;not null;default:'appointment'" json:"type"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor  DoctorProfile  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsCancelled checks if the appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// SlotTime combines the appointment date and HH:MM time into one instant
func (a *Appointment) SlotTime() time.Time {
	t, err := time.Parse("15:04", a.AppointmentTime)
	if err != nil {
		return a.AppointmentDate
	}
	return time.Date(
		a.AppointmentDate.Year(), a.AppointmentDate.Month(), a.AppointmentDate.Day(),
		t.Hour(), t.Minute(), 0, 0, a.AppointmentDate.Location(),
	)
}
