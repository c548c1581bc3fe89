package repository

import (
	"time"

	"clinic-care/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error)
	FindByStatus(db *gorm.DB, status entity.AppointmentStatus) ([]entity.Appointment, error)
	// CountActiveAtSlot counts non-cancelled appointments occupying the exact
	// (doctor, date, time) slot. excludeID skips one appointment, used when
	// re-checking availability during an update.
	CountActiveAtSlot(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeOfDay string, excludeID *uuid.UUID) (int64, error)
	Update(db *gorm.DB, appointment *entity.Appointment) error
}
