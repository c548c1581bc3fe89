package repository

import (
	"clinic-care/internal/domain/entity"

	"gorm.io/gorm"
)

type TestTypeRepository interface {
	Create(db *gorm.DB, testType *entity.TestType) error
	FindAll(db *gorm.DB, limit, offset int) ([]entity.TestType, int64, error)
	FindByID(db *gorm.DB, id int) (*entity.TestType, error)
	Update(db *gorm.DB, testType *entity.TestType) error
	Delete(db *gorm.DB, id int) (int64, error)
}
