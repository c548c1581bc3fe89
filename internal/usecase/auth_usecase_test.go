package usecase

import (
	"context"
	"errors"
	"testing"

	"clinic-care/internal/delivery/dto"
	"clinic-care/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginUnknownEmail(t *testing.T) {
	db, _ := newTestDB(t)

	userRepo := &mockUserRepository{
		FindByEmailFunc: func(db *gorm.DB, email string) (*entity.User, error) {
			return nil, nil
		},
	}

	uc := NewAuthUsecase(db, testLogger(), userRepo, nil, nil, &mockAuditService{}, nil, nil)

	_, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "ghost@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWrongPassword(t *testing.T) {
	db, _ := newTestDB(t)

	verified := true
	userRepo := &mockUserRepository{
		FindByEmailFunc: func(db *gorm.DB, email string) (*entity.User, error) {
			return &entity.User{
				ID: uuid.New(), Email: email,
				Password:   hashPassword(t, "correct"),
				IsVerified: &verified,
			}, nil
		},
	}

	uc := NewAuthUsecase(db, testLogger(), userRepo, nil, nil, &mockAuditService{}, nil, nil)

	// Same error as an unknown email, so responses do not leak registered emails
	_, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "a@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnverifiedAccount(t *testing.T) {
	db, _ := newTestDB(t)

	unverified := false
	userRepo := &mockUserRepository{
		FindByEmailFunc: func(db *gorm.DB, email string) (*entity.User, error) {
			return &entity.User{
				ID: uuid.New(), Email: email,
				Password:   hashPassword(t, "secret"),
				IsVerified: &unverified,
			}, nil
		},
	}

	uc := NewAuthUsecase(db, testLogger(), userRepo, nil, nil, &mockAuditService{}, nil, nil)

	_, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "a@example.com", Password: "secret"})
	assert.ErrorIs(t, err, ErrUserNotVerified)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	db, _ := newTestDB(t)

	verified := true
	inactive := false
	userRepo := &mockUserRepository{
		FindByEmailFunc: func(db *gorm.DB, email string) (*entity.User, error) {
			return &entity.User{
				ID: uuid.New(), Email: email,
				Password:   hashPassword(t, "secret"),
				IsVerified: &verified,
				IsActive:   &inactive,
			}, nil
		},
	}

	uc := NewAuthUsecase(db, testLogger(), userRepo, nil, nil, &mockAuditService{}, nil, nil)

	_, err := uc.Login(context.Background(), &dto.LoginRequest{Email: "a@example.com", Password: "secret"})
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestRegisterPatient(t *testing.T) {
	db, mock := newTestDB(t)

	userID := uuid.New()
	userRepo := &mockUserRepository{
		CreateFunc: func(db *gorm.DB, user *entity.User) error {
			assert.Equal(t, entity.RoleIDPatient, user.RoleID)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret-pw")))
			user.ID = userID
			return nil
		},
	}
	patientRepo := &mockPatientProfileRepository{
		CreateFunc: func(db *gorm.DB, profile *entity.PatientProfile) error {
			assert.Equal(t, userID, profile.UserID)
			assert.Equal(t, "3201011212900001", profile.NIK)
			return nil
		},
	}
	audit := &mockAuditService{}

	mock.ExpectBegin()
	mock.ExpectCommit()

	uc := NewAuthUsecase(db, testLogger(), userRepo, nil, patientRepo, audit, nil, nil)

	resp, err := uc.RegisterPatient(context.Background(), &dto.RegisterPatientRequest{
		Email:       "patient@example.com",
		Password:    "secret-pw",
		FullName:    "Pat Patient",
		NIK:         "3201011212900001",
		DateOfBirth: "1990-12-12",
		Gender:      "F",
	})
	require.NoError(t, err)
	assert.Equal(t, userID, resp.ID)
	assert.Equal(t, entity.RolePatient, resp.Role)
	assert.False(t, resp.IsVerified)
	assert.Equal(t, []string{entity.AuditActionUserRegister}, audit.Entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterPatientDuplicateEmail(t *testing.T) {
	db, mock := newTestDB(t)

	userRepo := &mockUserRepository{
		CreateFunc: func(db *gorm.DB, user *entity.User) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		},
	}

	mock.ExpectBegin()
	mock.ExpectRollback()

	uc := NewAuthUsecase(db, testLogger(), userRepo, nil, &mockPatientProfileRepository{}, &mockAuditService{}, nil, nil)

	_, err := uc.RegisterPatient(context.Background(), &dto.RegisterPatientRequest{
		Email: "taken@example.com", Password: "pw", FullName: "X",
		NIK: "3201011212900001", DateOfBirth: "1990-12-12", Gender: "M",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDoctorDuplicateSTR(t *testing.T) {
	db, mock := newTestDB(t)

	userRepo := &mockUserRepository{
		CreateFunc: func(db *gorm.DB, user *entity.User) error {
			user.ID = uuid.New()
			return nil
		},
	}
	doctorRepo := &mockDoctorProfileRepository{
		CreateFunc: func(db *gorm.DB, profile *entity.DoctorProfile) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "doctor_profiles_str_number_key"}
		},
	}

	mock.ExpectBegin()
	mock.ExpectRollback()

	uc := NewAuthUsecase(db, testLogger(), userRepo, doctorRepo, nil, &mockAuditService{}, nil, nil)

	_, err := uc.RegisterDoctor(context.Background(), &dto.RegisterDoctorRequest{
		Email: "doc@example.com", Password: "pw", FullName: "Dr. X",
		STRNumber: "STR-001", Specialization: "Cardiology",
	})
	assert.ErrorIs(t, err, ErrSTRAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangePasswordWrongOldPassword(t *testing.T) {
	db, _ := newTestDB(t)

	userRepo := &mockUserRepository{
		FindByIDFunc: func(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
			return &entity.User{ID: id, Password: hashPassword(t, "current")}, nil
		},
	}

	uc := NewAuthUsecase(db, testLogger(), userRepo, nil, nil, &mockAuditService{}, nil, nil)

	resp, err := uc.ChangePassword(context.Background(), uuid.New(), &dto.ChangePasswordRequest{
		OldPassword: "guess", NewPassword: "next-pw",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	require.NotNil(t, resp)
	assert.False(t, resp.Success)
}

func TestChangePasswordUserNotFound(t *testing.T) {
	db, _ := newTestDB(t)

	userRepo := &mockUserRepository{
		FindByIDFunc: func(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
			return nil, nil
		},
	}

	uc := NewAuthUsecase(db, testLogger(), userRepo, nil, nil, &mockAuditService{}, nil, nil)

	_, err := uc.ChangePassword(context.Background(), uuid.New(), &dto.ChangePasswordRequest{
		OldPassword: "old", NewPassword: "new-pw",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetCurrentUserNotFound(t *testing.T) {
	db, _ := newTestDB(t)

	userRepo := &mockUserRepository{
		FindByIDFunc: func(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
			return nil, nil
		},
	}

	uc := NewAuthUsecase(db, testLogger(), userRepo, nil, nil, &mockAuditService{}, nil, nil)

	_, err := uc.GetCurrentUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestIsDuplicateKeyError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "idx_appointments_active_slot"}
	assert.True(t, isDuplicateKeyError(dup, "active_slot"))
	assert.True(t, isDuplicateKeyError(dup, "ACTIVE_SLOT"))
	assert.False(t, isDuplicateKeyError(dup, "email"))

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "appointments_doctor_id_fkey"}
	assert.False(t, isDuplicateKeyError(fk, "doctor_id"))
	assert.True(t, isForeignKeyError(fk, "doctor_id"))
	assert.False(t, isForeignKeyError(fk, "patient_id"))

	assert.False(t, isDuplicateKeyError(errors.New("plain error"), "email"))
	assert.False(t, isForeignKeyError(nil, "email"))
}
