package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateTestResultRequest struct {
	PatientID      uuid.UUID       `json:"patient_id" validate:"required"`
	DoctorID       uuid.UUID       `json:"doctor_id" validate:"required"`
	TestTypeID     int             `json:"test_type_id" validate:"required,min=1"`
	AppointmentID  *uuid.UUID      `json:"appointment_id" validate:"omitempty"`
	Value          decimal.Decimal `json:"value" validate:"required"`
	Unit           string          `json:"unit" validate:"omitempty"`
	ReferenceRange string          `json:"reference_range" validate:"omitempty"`
	Notes          string          `json:"notes" validate:"omitempty"`
	ResultDate     string          `json:"result_date" validate:"required"` // Format: YYYY-MM-DD
}

type UpdateTestResultRequest struct {
	Value          *decimal.Decimal `json:"value" validate:"omitempty"`
	Unit           string           `json:"unit" validate:"omitempty"`
	ReferenceRange string           `json:"reference_range" validate:"omitempty"`
	Notes          *string          `json:"notes" validate:"omitempty"`
	ResultDate     string           `json:"result_date" validate:"omitempty"`
}

// Response DTOs

type TestResultResponse struct {
	ID             uuid.UUID            `json:"id"`
	PatientID      uuid.UUID            `json:"patient_id"`
	DoctorID       uuid.UUID            `json:"doctor_id"`
	TestTypeID     int                  `json:"test_type_id"`
	AppointmentID  *uuid.UUID           `json:"appointment_id,omitempty"`
	Value          decimal.Decimal      `json:"value"`
	Unit           string               `json:"unit,omitempty"`
	ReferenceRange string               `json:"reference_range,omitempty"`
	Notes          string               `json:"notes,omitempty"`
	ResultDate     string               `json:"result_date"`
	TestType       *TestTypeResponse    `json:"test_type,omitempty"`
	Patient        *PatientResponse     `json:"patient,omitempty"`
	Doctor         *DoctorResponse      `json:"doctor,omitempty"`
	Appointment    *AppointmentResponse `json:"appointment,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

type TestResultListResponse struct {
	Results []TestResultResponse `json:"results"`
	Total   int                  `json:"total"`
}
