package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateScheduleRequest struct {
	DoctorID     uuid.UUID `json:"doctor_id" validate:"required"`
	ScheduleDate string    `json:"schedule_date" validate:"required"` // Format: YYYY-MM-DD
	StartTime    string    `json:"start_time" validate:"required"`    // Format: HH:MM
	EndTime      string    `json:"end_time" validate:"required"`      // Format: HH:MM
}

type UpdateScheduleRequest struct {
	ScheduleDate string `json:"schedule_date" validate:"omitempty"`
	StartTime    string `json:"start_time" validate:"omitempty"`
	EndTime      string `json:"end_time" validate:"omitempty"`
}

// ScheduleFilterRequest narrows the schedule listing
type ScheduleFilterRequest struct {
	StartAt        string `json:"start_at" validate:"omitempty"`
	EndAt          string `json:"end_at" validate:"omitempty"`
	DoctorName     string `json:"doctor_name" validate:"omitempty"`
	Specialization string `json:"specialization" validate:"omitempty"`
}

// Response DTOs

type ScheduleResponse struct {
	ID           int             `json:"id"`
	DoctorID     uuid.UUID       `json:"doctor_id"`
	ScheduleDate string          `json:"schedule_date"`
	StartTime    string          `json:"start_time"`
	EndTime      string          `json:"end_time"`
	Doctor       *DoctorResponse `json:"doctor,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type ScheduleListResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
	Total     int                `json:"total"`
}
