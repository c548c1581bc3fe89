package repository

import (
	"clinic-care/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TestResultRepository interface {
	Create(db *gorm.DB, result *entity.TestResult) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.TestResult, error)
	FindAll(db *gorm.DB) ([]entity.TestResult, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.TestResult, error)
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.TestResult, error)
	Update(db *gorm.DB, result *entity.TestResult) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
