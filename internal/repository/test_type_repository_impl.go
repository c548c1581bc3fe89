package repository

import (
	"errors"

	"clinic-care/internal/domain/entity"
	domainRepo "clinic-care/internal/domain/repository"

	"gorm.io/gorm"
)

type testTypeRepository struct{}

func NewTestTypeRepository() domainRepo.TestTypeRepository {
	return &testTypeRepository{}
}

func (r *testTypeRepository) Create(db *gorm.DB, testType *entity.TestType) error {
	return db.Create(testType).Error
}

func (r *testTypeRepository) FindAll(db *gorm.DB, limit, offset int) ([]entity.TestType, int64, error) {
	var testTypes []entity.TestType
	var total int64

	if err := db.Model(&entity.TestType{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Limit(limit).Offset(offset).Order("name ASC").Find(&testTypes).Error; err != nil {
		return nil, 0, err
	}

	return testTypes, total, nil
}

func (r *testTypeRepository) FindByID(db *gorm.DB, id int) (*entity.TestType, error) {
	var testType entity.TestType
	err := db.Where("id = ?", id).First(&testType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &testType, nil
}

func (r *testTypeRepository) Update(db *gorm.DB, testType *entity.TestType) error {
	return db.Save(testType).Error
}

func (r *testTypeRepository) Delete(db *gorm.DB, id int) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.TestType{})
	return result.RowsAffected, result.Error
}
