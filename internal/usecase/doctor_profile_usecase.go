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

type DoctorProfileUsecase interface {
	GetDoctorByID(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	ListDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	DeactivateDoctor(ctx context.Context, doctorID uuid.UUID) error
}

type doctorProfileUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	userRepo          repository.UserRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
}

func NewDoctorProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
) DoctorProfileUsecase {
	return &doctorProfileUsecase{
		db:                db,
		log:               log,
		userRepo:          userRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
	}
}

func (u *doctorProfileUsecase) GetDoctorByID(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	profile, err := u.doctorProfileRepo.FindByUserID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(profile), nil
}

func (u *doctorProfileUsecase) ListDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	profiles, err := u.doctorProfileRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	doctors := make([]dto.DoctorResponse, len(profiles))
	for i := range profiles {
		doctors[i] = *converter.DoctorToResponse(&profiles[i])
	}

	return &dto.DoctorListResponse{
		Doctors: doctors,
		Total:   len(doctors),
	}, nil
}

// UpdateDoctor merges profile fields; the full name lives on the user row so
// both rows are written in one transaction.
func (u *doctorProfileUsecase) UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	profile, err := u.doctorProfileRepo.FindByUserID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	if req.Specialization != "" {
		profile.Specialization = req.Specialization
	}
	if req.Biography != "" {
		profile.Biography = req.Biography
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.doctorProfileRepo.Update(tx, profile); err != nil {
		u.log.Warnf("Failed to update doctor profile %s: %+v", doctorID, err)
		return nil, err
	}

	if req.FullName != "" {
		user, err := u.userRepo.FindByID(tx, doctorID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		user.FullName = req.FullName
		if err := u.userRepo.Update(tx, user); err != nil {
			u.log.Warnf("Failed to update user %s: %+v", doctorID, err)
			return nil, err
		}
		profile.User = *user
	}

	actor := actorFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, actor, entity.AuditActionProfileUpdate, "doctor_profile", doctorID.String(), nil, req); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(profile), nil
}

// DeactivateDoctor flips the user row inactive. The profile row stays so
// existing appointments and results keep their references; the doctor simply
// stops appearing in listings and availability scans.
func (u *doctorProfileUsecase) DeactivateDoctor(ctx context.Context, doctorID uuid.UUID) error {
	profile, err := u.doctorProfileRepo.FindByUserID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return err
	}
	if profile == nil {
		return ErrDoctorNotFound
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	inactive := false
	user.IsActive = &inactive
	if err := u.userRepo.Update(tx, user); err != nil {
		u.log.Warnf("Failed to deactivate doctor %s: %+v", doctorID, err)
		return err
	}

	actor := actorFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, actor, entity.AuditActionProfileUpdate, "user", doctorID.String(), true, false); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
