package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID        uuid.UUID `json:"doctor_id" validate:"required"`
	PatientID       uuid.UUID `json:"patient_id" validate:"required"`
	AppointmentDate string    `json:"appointment_date" validate:"required"` // Format: YYYY-MM-DD
	AppointmentTime string    `json:"appointment_time" validate:"required"` // Format: HH:MM
	Type            string    `json:"type" validate:"omitempty,oneof=appointment medication"`
	Notes           string    `json:"notes" validate:"omitempty"`
}

// UpdateAppointmentRequest carries a partial merge: empty fields keep the
// stored value.
type UpdateAppointmentRequest struct {
	DoctorID        *uuid.UUID `json:"doctor_id" validate:"omitempty"`
	AppointmentDate string     `json:"appointment_date" validate:"omitempty"`
	AppointmentTime string     `json:"appointment_time" validate:"omitempty"`
	Status          string     `json:"status" validate:"omitempty"`
	Type            string     `json:"type" validate:"omitempty"`
	Notes           *string    `json:"notes" validate:"omitempty"`
}

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID        `json:"id"`
	DoctorID        uuid.UUID        `json:"doctor_id"`
	PatientID       uuid.UUID        `json:"patient_id"`
	AppointmentDate string           `json:"appointment_date"`
	AppointmentTime string           `json:"appointment_time"`
	Status          string           `json:"status"`
	Type            string           `json:"type"`
	Notes           string           `json:"notes,omitempty"`
	Doctor          *DoctorResponse  `json:"doctor,omitempty"`
	Patient         *PatientResponse `json:"patient,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// AvailableDoctor is one candidate that passed the availability check
type AvailableDoctor struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	Specialization string    `json:"specialization"`
}

type AvailableDoctorsResponse struct {
	Doctors []AvailableDoctor `json:"doctors"`
	Total   int               `json:"total"`
}

// PaginationMeta describes one page of a paginated listing
type PaginationMeta struct {
	CurrentPage     int   `json:"current_page"`
	PageSize        int   `json:"page_size"`
	TotalPages      int   `json:"total_pages"`
	TotalRecords    int64 `json:"total_records"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
}

type ScheduledAppointmentsResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Meta         PaginationMeta        `json:"meta"`
}
