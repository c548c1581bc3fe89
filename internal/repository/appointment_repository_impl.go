package repository

import (
	"errors"
	"time"

	"clinic-care/internal/domain/entity"
	domainRepo "clinic-care/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Doctor.User").Preload("Patient.User").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Doctor.User").Preload("Patient.User").
		Where("patient_id = ?", patientID).
		Order("appointment_date DESC, appointment_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Doctor.User").Preload("Patient.User").
		Where("doctor_id = ?", doctorID).
		Order("appointment_date DESC, appointment_time DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByStatus(db *gorm.DB, status entity.AppointmentStatus) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Doctor.User").Preload("Patient.User").
		Where("status = ?", status).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) CountActiveAtSlot(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeOfDay string, excludeID *uuid.UUID) (int64, error) {
	var count int64
	query := db.Model(&entity.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND appointment_time = ? AND status != ?",
			doctorID, date.Format("2006-01-02"), timeOfDay, entity.AppointmentStatusCancelled)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Doctor", "Patient").Save(appointment).Error
}
