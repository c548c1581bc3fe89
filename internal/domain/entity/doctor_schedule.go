package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoctorSchedule represents a doctor's declared availability window.
// An appointment may only be booked inside one of these windows.
type DoctorSchedule struct {
	ID           int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID     uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	ScheduleDate time.Time `gorm:"type:date;not null;index" json:"schedule_date"`
	StartTime    string    `gorm:"type:time;not null" json:"start_time"`
	EndTime      string    `gorm:"type:time;not null" json:"end_time"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (DoctorSchedule) TableName() string {
	return "doctor_schedules"
}

// Covers reports whether the window covers the given HH:MM time on its date.
// Times are zero-padded HH:MM strings, so lexicographic comparison is safe.
func (s *DoctorSchedule) Covers(date time.Time, timeOfDay string) bool {
	sy, sm, sd := s.ScheduleDate.Date()
	dy, dm, dd := date.Date()
	if sy != dy || sm != dm || sd != dd {
		return false
	}
	return s.StartTime <= timeOfDay && timeOfDay < s.EndTime
}
