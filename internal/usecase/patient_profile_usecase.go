package usecase

import (
	"context"

	"clinic-care/internal/converter"
	"clinic-care/internal/delivery/dto"
	"clinic-care/internal/domain/entity"
	"clinic-care/internal/domain/repository"
	"clinic-care/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PatientProfileUsecase interface {
	GetPatientByID(ctx context.Context, patientID uuid.UUID) (*dto.PatientResponse, error)
	ListPatients(ctx context.Context) (*dto.PatientListResponse, error)
	UpdatePatient(ctx context.Context, patientID uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
}

type patientProfileUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
}

func NewPatientProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
) PatientProfileUsecase {
	return &patientProfileUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
	}
}

func (u *patientProfileUsecase) GetPatientByID(ctx context.Context, patientID uuid.UUID) (*dto.PatientResponse, error) {
	profile, err := u.patientProfileRepo.FindByUserID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientNotFound
	}

	return converter.PatientToResponse(profile), nil
}

func (u *patientProfileUsecase) ListPatients(ctx context.Context) (*dto.PatientListResponse, error) {
	profiles, err := u.patientProfileRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list patients: %+v", err)
		return nil, err
	}

	patients := make([]dto.PatientResponse, len(profiles))
	for i := range profiles {
		patients[i] = *converter.PatientToResponse(&profiles[i])
	}

	return &dto.PatientListResponse{
		Patients: patients,
		Total:    len(patients),
	}, nil
}

func (u *patientProfileUsecase) UpdatePatient(ctx context.Context, patientID uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	profile, err := u.patientProfileRepo.FindByUserID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientNotFound
	}

	if req.PhoneNumber != "" {
		profile.PhoneNumber = req.PhoneNumber
	}
	if req.Address != "" {
		profile.Address = req.Address
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.patientProfileRepo.Update(tx, profile); err != nil {
		u.log.Warnf("Failed to update patient profile %s: %+v", patientID, err)
		return nil, err
	}

	if req.FullName != "" {
		user, err := u.userRepo.FindByID(tx, patientID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		user.FullName = req.FullName
		if err := u.userRepo.Update(tx, user); err != nil {
			u.log.Warnf("Failed to update user %s: %+v", patientID, err)
			return nil, err
		}
		profile.User = *user
	}

	actor := actorFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, actor, entity.AuditActionProfileUpdate, "patient_profile", patientID.String(), nil, req); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.PatientToResponse(profile), nil
}
