package repository

import (
	"errors"

	"clinic-care/internal/domain/entity"
	domainRepo "clinic-care/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type testResultRepository struct{}

func NewTestResultRepository() domainRepo.TestResultRepository {
	return &testResultRepository{}
}

func (r *testResultRepository) Create(db *gorm.DB, result *entity.TestResult) error {
	return db.Create(result).Error
}

func (r *testResultRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.TestResult, error) {
	var result entity.TestResult
	err := db.Preload("TestType").Preload("Patient.User").Preload("Doctor.User").Preload("Appointment").
		Where("id = ?", id).First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *testResultRepository) FindAll(db *gorm.DB) ([]entity.TestResult, error) {
	var results []entity.TestResult
	err := db.Preload("TestType").Preload("Patient.User").Preload("Doctor.User").Preload("Appointment").
		Order("result_date DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *testResultRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.TestResult, error) {
	var results []entity.TestResult
	err := db.Preload("TestType").Preload("Patient.User").Preload("Doctor.User").Preload("Appointment").
		Where("patient_id = ?", patientID).
		Order("result_date DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *testResultRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.TestResult, error) {
	var result entity.TestResult
	err := db.Where("appointment_id = ?", appointmentID).First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *testResultRepository) Update(db *gorm.DB, result *entity.TestResult) error {
	return db.Omit("TestType", "Patient", "Doctor", "Appointment").Save(result).Error
}

func (r *testResultRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.TestResult{})
	return result.RowsAffected, result.Error
}
