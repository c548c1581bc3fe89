package dto

import "github.com/google/uuid"

// Request DTOs

type UpdateDoctorRequest struct {
	FullName       string `json:"full_name" validate:"omitempty,min=2"`
	Specialization string `json:"specialization" validate:"omitempty"`
	Biography      string `json:"biography" validate:"omitempty"`
}

// Response DTOs

type DoctorProfileResponse struct {
	STRNumber      string `json:"str_number"`
	Specialization string `json:"specialization"`
	Biography      string `json:"biography,omitempty"`
}

type DoctorResponse struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	STRNumber      string    `json:"str_number"`
	Specialization string    `json:"specialization"`
	Biography      string    `json:"biography,omitempty"`
	IsActive       *bool     `json:"is_active,omitempty"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
