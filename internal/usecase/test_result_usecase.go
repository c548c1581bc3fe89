package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-care/internal/converter"
	"clinic-care/internal/delivery/dto"
	"clinic-care/internal/domain/entity"
	"clinic-care/internal/domain/repository"
	"clinic-care/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrTestResultNotFound        = errors.New("test result not found")
	ErrTestTypeNotFound          = errors.New("test type not found")
	ErrAppointmentAlreadyHasTest = errors.New("appointment already has a test result")
)

type TestResultUsecase interface {
	CreateTestResult(ctx context.Context, req *dto.CreateTestResultRequest) (*dto.TestResultResponse, error)
	UpdateTestResult(ctx context.Context, resultID uuid.UUID, req *dto.UpdateTestResultRequest) (*dto.TestResultResponse, error)
	GetTestResultByID(ctx context.Context, resultID uuid.UUID) (*dto.TestResultResponse, error)
	GetTestResultsByPatient(ctx context.Context, patientID uuid.UUID) (*dto.TestResultListResponse, error)
	GetAllTestResults(ctx context.Context) (*dto.TestResultListResponse, error)
	DeleteTestResult(ctx context.Context, resultID uuid.UUID) error
}

type testResultUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	testResultRepo     repository.TestResultRepository
	testTypeRepo       repository.TestTypeRepository
	appointmentRepo    repository.AppointmentRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
}

func NewTestResultUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	testResultRepo repository.TestResultRepository,
	testTypeRepo repository.TestTypeRepository,
	appointmentRepo repository.AppointmentRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
) TestResultUsecase {
	return &testResultUsecase{
		db:                 db,
		log:                log,
		testResultRepo:     testResultRepo,
		testTypeRepo:       testTypeRepo,
		appointmentRepo:    appointmentRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
	}
}

// CreateTestResult records a lab value for a patient. Every referenced row is
// verified up front so the caller gets a specific not-found error instead of a
// raw foreign key violation. An appointment can carry at most one result.
func (u *testResultUsecase) CreateTestResult(ctx context.Context, req *dto.CreateTestResultRequest) (*dto.TestResultResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	resultDate, err := time.Parse("2006-01-02", req.ResultDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	patient, err := u.patientProfileRepo.FindByUserID(u.db.WithContext(ctx), req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	doctor, err := u.doctorProfileRepo.FindByUserID(u.db.WithContext(ctx), req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	testType, err := u.testTypeRepo.FindByID(u.db.WithContext(ctx), req.TestTypeID)
	if err != nil {
		u.log.Warnf("Failed to find test type %d: %+v", req.TestTypeID, err)
		return nil, err
	}
	if testType == nil {
		return nil, ErrTestTypeNotFound
	}

	if req.AppointmentID != nil {
		appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), *req.AppointmentID)
		if err != nil {
			u.log.Warnf("Failed to find appointment %s: %+v", *req.AppointmentID, err)
			return nil, err
		}
		if appointment == nil {
			return nil, ErrAppointmentNotFound
		}

		existing, err := u.testResultRepo.FindByAppointmentID(u.db.WithContext(ctx), *req.AppointmentID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrAppointmentAlreadyHasTest
		}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	result := &entity.TestResult{
		PatientID:      req.PatientID,
		DoctorID:       req.DoctorID,
		TestTypeID:     req.TestTypeID,
		AppointmentID:  req.AppointmentID,
		Value:          req.Value,
		Unit:           req.Unit,
		ReferenceRange: req.ReferenceRange,
		Notes:          req.Notes,
		ResultDate:     resultDate,
	}

	if err := u.testResultRepo.Create(tx, result); err != nil {
		if isDuplicateKeyError(err, "appointment_id") {
			return nil, ErrAppointmentAlreadyHasTest
		}
		u.log.Warnf("Failed to create test result: %+v", err)
		return nil, err
	}

	actor := actorFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, tx, actor, entity.AuditActionTestResultCreate, "test_result", result.ID.String(), result); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	full, err := u.testResultRepo.FindByID(u.db.WithContext(ctx), result.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload test result %s: %+v", result.ID, err)
		return converter.TestResultToResponse(result), nil
	}

	return converter.TestResultToResponse(full), nil
}

// UpdateTestResult merges the provided fields onto the stored row. Identity
// fields (patient, doctor, test type, appointment) are immutable after create.
func (u *testResultUsecase) UpdateTestResult(ctx context.Context, resultID uuid.UUID, req *dto.UpdateTestResultRequest) (*dto.TestResultResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	result, err := u.testResultRepo.FindByID(u.db.WithContext(ctx), resultID)
	if err != nil {
		u.log.Warnf("Failed to find test result %s: %+v", resultID, err)
		return nil, err
	}
	if result == nil {
		return nil, ErrTestResultNotFound
	}

	old := *result

	if req.Value != nil {
		result.Value = *req.Value
	}
	if req.Unit != "" {
		result.Unit = req.Unit
	}
	if req.ReferenceRange != "" {
		result.ReferenceRange = req.ReferenceRange
	}
	if req.Notes != nil {
		result.Notes = *req.Notes
	}
	if req.ResultDate != "" {
		resultDate, err := time.Parse("2006-01-02", req.ResultDate)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		result.ResultDate = resultDate
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.testResultRepo.Update(tx, result); err != nil {
		u.log.Warnf("Failed to update test result %s: %+v", resultID, err)
		return nil, err
	}

	actor := actorFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, actor, entity.AuditActionTestResultUpdate, "test_result", result.ID.String(), old.Value, result.Value); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	full, err := u.testResultRepo.FindByID(u.db.WithContext(ctx), result.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload test result %s: %+v", result.ID, err)
		return converter.TestResultToResponse(result), nil
	}

	return converter.TestResultToResponse(full), nil
}

func (u *testResultUsecase) GetTestResultByID(ctx context.Context, resultID uuid.UUID) (*dto.TestResultResponse, error) {
	result, err := u.testResultRepo.FindByID(u.db.WithContext(ctx), resultID)
	if err != nil {
		u.log.Warnf("Failed to find test result %s: %+v", resultID, err)
		return nil, err
	}
	if result == nil {
		return nil, ErrTestResultNotFound
	}

	return converter.TestResultToResponse(result), nil
}

func (u *testResultUsecase) GetTestResultsByPatient(ctx context.Context, patientID uuid.UUID) (*dto.TestResultListResponse, error) {
	results, err := u.testResultRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find test results for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.TestResultListResponse{
		Results: converter.TestResultsToResponses(results),
		Total:   len(results),
	}, nil
}

func (u *testResultUsecase) GetAllTestResults(ctx context.Context) (*dto.TestResultListResponse, error) {
	results, err := u.testResultRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list test results: %+v", err)
		return nil, err
	}

	return &dto.TestResultListResponse{
		Results: converter.TestResultsToResponses(results),
		Total:   len(results),
	}, nil
}

func (u *testResultUsecase) DeleteTestResult(ctx context.Context, resultID uuid.UUID) error {
	result, err := u.testResultRepo.FindByID(u.db.WithContext(ctx), resultID)
	if err != nil {
		u.log.Warnf("Failed to find test result %s: %+v", resultID, err)
		return err
	}
	if result == nil {
		return ErrTestResultNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.testResultRepo.Delete(tx, resultID)
	if err != nil {
		u.log.Warnf("Failed to delete test result %s: %+v", resultID, err)
		return err
	}
	if rows == 0 {
		return ErrTestResultNotFound
	}

	actor := actorFromContext(ctx)
	if err := u.auditService.LogDelete(ctx, tx, actor, entity.AuditActionTestResultDelete, "test_result", resultID.String(), result); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
