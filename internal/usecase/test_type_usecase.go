package usecase

import (
	"context"
	"errors"
	"strconv"

	"clinic-care/internal/converter"
	"clinic-care/internal/delivery/dto"
	"clinic-care/internal/domain/entity"
	"clinic-care/internal/domain/repository"
	"clinic-care/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrTestTypeNameExists = errors.New("test type name already exists")

// TestTypeUsecase manages the catalog of orderable lab tests
type TestTypeUsecase interface {
	CreateTestType(ctx context.Context, req *dto.CreateTestTypeRequest) (*dto.TestTypeResponse, error)
	UpdateTestType(ctx context.Context, testTypeID int, req *dto.UpdateTestTypeRequest) (*dto.TestTypeResponse, error)
	GetTestTypeByID(ctx context.Context, testTypeID int) (*dto.TestTypeResponse, error)
	ListTestTypes(ctx context.Context, page, pageSize int) (*dto.TestTypeListResponse, error)
	DeleteTestType(ctx context.Context, testTypeID int) error
}

type testTypeUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	testTypeRepo repository.TestTypeRepository
	auditService service.AuditService
}

func NewTestTypeUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	testTypeRepo repository.TestTypeRepository,
	auditService service.AuditService,
) TestTypeUsecase {
	return &testTypeUsecase{
		db:           db,
		log:          log,
		testTypeRepo: testTypeRepo,
		auditService: auditService,
	}
}

func (u *testTypeUsecase) CreateTestType(ctx context.Context, req *dto.CreateTestTypeRequest) (*dto.TestTypeResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	testType := &entity.TestType{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}

	if err := u.testTypeRepo.Create(tx, testType); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrTestTypeNameExists
		}
		u.log.Warnf("Failed to create test type: %+v", err)
		return nil, err
	}

	actor := actorFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, tx, actor, entity.AuditActionTestTypeCreate, "test_type", strconv.Itoa(testType.ID), testType); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.TestTypeToResponse(testType), nil
}

func (u *testTypeUsecase) UpdateTestType(ctx context.Context, testTypeID int, req *dto.UpdateTestTypeRequest) (*dto.TestTypeResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	testType, err := u.testTypeRepo.FindByID(u.db.WithContext(ctx), testTypeID)
	if err != nil {
		u.log.Warnf("Failed to find test type %d: %+v", testTypeID, err)
		return nil, err
	}
	if testType == nil {
		return nil, ErrTestTypeNotFound
	}

	old := *testType

	testType.Name = req.Name
	testType.Description = req.Description
	testType.Price = req.Price

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.testTypeRepo.Update(tx, testType); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrTestTypeNameExists
		}
		u.log.Warnf("Failed to update test type %d: %+v", testTypeID, err)
		return nil, err
	}

	actor := actorFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, actor, entity.AuditActionTestTypeUpdate, "test_type", strconv.Itoa(testType.ID), old, testType); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.TestTypeToResponse(testType), nil
}

func (u *testTypeUsecase) GetTestTypeByID(ctx context.Context, testTypeID int) (*dto.TestTypeResponse, error) {
	testType, err := u.testTypeRepo.FindByID(u.db.WithContext(ctx), testTypeID)
	if err != nil {
		u.log.Warnf("Failed to find test type %d: %+v", testTypeID, err)
		return nil, err
	}
	if testType == nil {
		return nil, ErrTestTypeNotFound
	}

	return converter.TestTypeToResponse(testType), nil
}

func (u *testTypeUsecase) ListTestTypes(ctx context.Context, page, pageSize int) (*dto.TestTypeListResponse, error) {
	page, pageSize = normalizePagination(page, pageSize)
	offset := (page - 1) * pageSize

	testTypes, total, err := u.testTypeRepo.FindAll(u.db.WithContext(ctx), pageSize, offset)
	if err != nil {
		u.log.Warnf("Failed to list test types: %+v", err)
		return nil, err
	}

	responses := make([]dto.TestTypeResponse, len(testTypes))
	for i := range testTypes {
		responses[i] = *converter.TestTypeToResponse(&testTypes[i])
	}

	return &dto.TestTypeListResponse{
		TestTypes: responses,
		Meta:      newPaginationMeta(page, pageSize, total),
	}, nil
}

func (u *testTypeUsecase) DeleteTestType(ctx context.Context, testTypeID int) error {
	testType, err := u.testTypeRepo.FindByID(u.db.WithContext(ctx), testTypeID)
	if err != nil {
		u.log.Warnf("Failed to find test type %d: %+v", testTypeID, err)
		return err
	}
	if testType == nil {
		return ErrTestTypeNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.testTypeRepo.Delete(tx, testTypeID)
	if err != nil {
		u.log.Warnf("Failed to delete test type %d: %+v", testTypeID, err)
		return err
	}
	if rows == 0 {
		return ErrTestTypeNotFound
	}

	actor := actorFromContext(ctx)
	if err := u.auditService.LogDelete(ctx, tx, actor, entity.AuditActionTestTypeDelete, "test_type", strconv.Itoa(testTypeID), testType); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
