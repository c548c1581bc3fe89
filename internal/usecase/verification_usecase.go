package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"clinic-care/internal/delivery/dto"
	"clinic-care/internal/domain/entity"
	"clinic-care/internal/domain/repository"
	"clinic-care/internal/service"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidVerificationCode = errors.New("invalid or expired verification code")
	ErrUserAlreadyVerified     = errors.New("account is already verified")
)

type VerificationUsecase interface {
	SendVerificationEmail(ctx context.Context, req *dto.SendVerificationRequest) error
	VerifyUser(ctx context.Context, req *dto.VerifyUserRequest) (*dto.UserResponse, error)
	SendForgotPasswordEmail(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) (*dto.ChangePasswordResponse, error)
}

type verificationUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	codeStore    *service.VerificationCodeStore
	mailer       service.Mailer
	auditService service.AuditService
}

func NewVerificationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	codeStore *service.VerificationCodeStore,
	mailer service.Mailer,
	auditService service.AuditService,
) VerificationUsecase {
	return &verificationUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		codeStore:    codeStore,
		mailer:       mailer,
		auditService: auditService,
	}
}

// SendVerificationEmail generates a fresh 6-digit code for the account and
// mails it. A pending code for the same email is replaced, so only the most
// recently issued code is accepted.
func (u *verificationUsecase) SendVerificationEmail(ctx context.Context, req *dto.SendVerificationRequest) error {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.Verified() {
		return ErrUserAlreadyVerified
	}

	code, err := generateVerificationCode()
	if err != nil {
		u.log.Warnf("Failed to generate verification code: %+v", err)
		return err
	}

	u.codeStore.Put(req.Email, code)

	if err := u.mailer.SendVerificationEmail(req.Email, code); err != nil {
		// Undo the pending code so a delivery failure cannot leave an
		// unverifiable dangling entry.
		u.codeStore.Remove(req.Email)
		u.log.Warnf("Failed to send verification email to %s: %+v", req.Email, err)
		return err
	}

	u.log.Infof("Verification code sent to %s", req.Email)
	return nil
}

// VerifyUser checks the presented code against the pending one and flips the
// account to verified. The code is consumed on success.
func (u *verificationUsecase) VerifyUser(ctx context.Context, req *dto.VerifyUserRequest) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	pending, ok := u.codeStore.Get(req.Email)
	if !ok || pending != req.Code {
		return nil, ErrInvalidVerificationCode
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	verified := true
	user.IsVerified = &verified
	if err := u.userRepo.Update(tx, user); err != nil {
		u.log.Warnf("Failed to update user: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &user.ID, entity.AuditActionUserVerify, "user", user.ID.String(), false, true); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.codeStore.Remove(req.Email)

	return &dto.UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		FullName:   user.FullName,
		Role:       user.Role.RoleName,
		IsVerified: true,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}, nil
}

// SendForgotPasswordEmail issues a reset code for an existing account. The
// same single-slot store backs both flows, so requesting a reset invalidates
// a pending verification code for the same email.
func (u *verificationUsecase) SendForgotPasswordEmail(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	code, err := generateVerificationCode()
	if err != nil {
		u.log.Warnf("Failed to generate reset code: %+v", err)
		return err
	}

	u.codeStore.Put(req.Email, code)

	if err := u.mailer.SendForgotPasswordEmail(req.Email, code); err != nil {
		u.codeStore.Remove(req.Email)
		u.log.Warnf("Failed to send reset email to %s: %+v", req.Email, err)
		return err
	}

	u.log.Infof("Password reset code sent to %s", req.Email)
	return nil
}

// ResetPassword sets a new password when the presented reset code matches the
// pending one. The code is consumed on success.
func (u *verificationUsecase) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) (*dto.ChangePasswordResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	pending, ok := u.codeStore.Get(req.Email)
	if !ok || pending != req.Code {
		return &dto.ChangePasswordResponse{Success: false}, ErrInvalidVerificationCode
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user.Password = string(hashedPassword)
	if err := u.userRepo.Update(tx, user); err != nil {
		u.log.Warnf("Failed to update user: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &user.ID, entity.AuditActionPasswordChange, "user", user.ID.String(), nil, nil); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.codeStore.Remove(req.Email)

	return &dto.ChangePasswordResponse{
		Success: true,
		User:    &dto.UserResponse{
			ID:         user.ID,
			Email:      user.Email,
			FullName:   user.FullName,
			Role:       user.Role.RoleName,
			IsVerified: user.Verified(),
			CreatedAt:  user.CreatedAt,
			UpdatedAt:  user.UpdatedAt,
		},
	}, nil
}

// generateVerificationCode returns a uniformly random 6-digit numeric code,
// zero-padded.
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
