package usecase

import (
	"context"
	"testing"

	"clinic-care/internal/delivery/dto"
	"clinic-care/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGetDoctorByIDNotFound(t *testing.T) {
	db, _ := newTestDB(t)

	doctorRepo := &mockDoctorProfileRepository{
		FindByUserIDFunc: func(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
			return nil, nil
		},
	}

	uc := NewDoctorProfileUsecase(db, testLogger(), &mockUserRepository{}, doctorRepo, &mockAuditService{})

	_, err := uc.GetDoctorByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestUpdateDoctorMergesProfileAndName(t *testing.T) {
	db, mock := newTestDB(t)

	doctorID := uuid.New()
	doctorRepo := &mockDoctorProfileRepository{
		FindByUserIDFunc: func(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
			return &entity.DoctorProfile{
				UserID:         userID,
				STRNumber:      "STR-001",
				Specialization: "General",
				User:           entity.User{ID: userID, FullName: "Old Name", Email: "doc@example.com"},
			}, nil
		},
		UpdateFunc: func(db *gorm.DB, profile *entity.DoctorProfile) error {
			assert.Equal(t, "Cardiology", profile.Specialization)
			return nil
		},
	}
	userRepo := &mockUserRepository{
		FindByIDFunc: func(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
			return &entity.User{ID: id, FullName: "Old Name", Email: "doc@example.com"}, nil
		},
		UpdateFunc: func(db *gorm.DB, user *entity.User) error {
			assert.Equal(t, "New Name", user.FullName)
			return nil
		},
	}
	audit := &mockAuditService{}

	mock.ExpectBegin()
	mock.ExpectCommit()

	uc := NewDoctorProfileUsecase(db, testLogger(), userRepo, doctorRepo, audit)

	resp, err := uc.UpdateDoctor(context.Background(), doctorID, &dto.UpdateDoctorRequest{
		FullName:       "New Name",
		Specialization: "Cardiology",
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", resp.FullName)
	assert.Equal(t, "Cardiology", resp.Specialization)
	// STR number is not updatable
	assert.Equal(t, "STR-001", resp.STRNumber)
	assert.Equal(t, []string{entity.AuditActionProfileUpdate}, audit.Entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivateDoctor(t *testing.T) {
	db, mock := newTestDB(t)

	doctorID := uuid.New()
	doctorRepo := &mockDoctorProfileRepository{
		FindByUserIDFunc: func(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
			return &entity.DoctorProfile{UserID: userID}, nil
		},
	}
	active := true
	userRepo := &mockUserRepository{
		FindByIDFunc: func(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
			return &entity.User{ID: id, IsActive: &active}, nil
		},
		UpdateFunc: func(db *gorm.DB, user *entity.User) error {
			require.NotNil(t, user.IsActive)
			assert.False(t, *user.IsActive)
			return nil
		},
	}

	mock.ExpectBegin()
	mock.ExpectCommit()

	uc := NewDoctorProfileUsecase(db, testLogger(), userRepo, doctorRepo, &mockAuditService{})

	require.NoError(t, uc.DeactivateDoctor(context.Background(), doctorID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePatientKeepsUnsetFields(t *testing.T) {
	db, mock := newTestDB(t)

	patientID := uuid.New()
	patientRepo := &mockPatientProfileRepository{
		FindByUserIDFunc: func(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
			return &entity.PatientProfile{
				UserID:      userID,
				NIK:         "3201011212900001",
				PhoneNumber: "081200000000",
				Address:     "Old Street 1",
				User:        entity.User{ID: userID, FullName: "Pat", Email: "pat@example.com"},
			}, nil
		},
		UpdateFunc: func(db *gorm.DB, profile *entity.PatientProfile) error {
			assert.Equal(t, "081299999999", profile.PhoneNumber)
			assert.Equal(t, "Old Street 1", profile.Address)
			return nil
		},
	}

	mock.ExpectBegin()
	mock.ExpectCommit()

	uc := NewPatientProfileUsecase(db, testLogger(), &mockUserRepository{}, patientRepo, &mockAuditService{})

	resp, err := uc.UpdatePatient(context.Background(), patientID, &dto.UpdatePatientRequest{
		PhoneNumber: "081299999999",
	})
	require.NoError(t, err)
	assert.Equal(t, "081299999999", resp.PhoneNumber)
	assert.Equal(t, "Old Street 1", resp.Address)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPatientByIDNotFound(t *testing.T) {
	db, _ := newTestDB(t)

	patientRepo := &mockPatientProfileRepository{
		FindByUserIDFunc: func(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
			return nil, nil
		},
	}

	uc := NewPatientProfileUsecase(db, testLogger(), &mockUserRepository{}, patientRepo, &mockAuditService{})

	_, err := uc.GetPatientByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPatientNotFound)
}
