package repository

import (
	"errors"

	"clinic-care/internal/domain/entity"
	domainRepo "clinic-care/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorProfileRepository struct{}

func NewDoctorProfileRepository() domainRepo.DoctorProfileRepository {
	return &doctorProfileRepository{}
}

func (r *doctorProfileRepository) Create(db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.Create(profile).Error
}

func (r *doctorProfileRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := db.Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// FindAll returns doctors whose user account is active, user preloaded
func (r *doctorProfileRepository) FindAll(db *gorm.DB) ([]entity.DoctorProfile, error) {
	var profiles []entity.DoctorProfile
	err := db.
		Joins("JOIN users ON users.id = doctor_profiles.user_id").
		Where("users.is_active = ?", true).
		Preload("User").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *doctorProfileRepository) Update(db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.Omit("User", "Schedules", "Appointments").Save(profile).Error
}

func (r *doctorProfileRepository) Delete(db *gorm.DB, userID uuid.UUID) (int64, error) {
	result := db.Where("user_id = ?", userID).Delete(&entity.DoctorProfile{})
	return result.RowsAffected, result.Error
}
