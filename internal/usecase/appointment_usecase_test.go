package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-care/internal/delivery/dto"
	"clinic-care/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNormalizePagination(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"defaults applied", 0, 0, 1, 10},
		{"negative page clamped", -3, 5, 1, 5},
		{"page size capped", 2, 500, 2, 100},
		{"valid values untouched", 3, 25, 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, pageSize := normalizePagination(tt.page, tt.pageSize)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPageSize, pageSize)
		})
	}
}

func TestNewPaginationMeta(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		total    int64
		want     dto.PaginationMeta
	}{
		{
			name: "first of three pages", page: 1, pageSize: 10, total: 25,
			want: dto.PaginationMeta{CurrentPage: 1, PageSize: 10, TotalPages: 3, TotalRecords: 25, HasNextPage: true, HasPreviousPage: false},
		},
		{
			name: "middle page", page: 2, pageSize: 10, total: 25,
			want: dto.PaginationMeta{CurrentPage: 2, PageSize: 10, TotalPages: 3, TotalRecords: 25, HasNextPage: true, HasPreviousPage: true},
		},
		{
			name: "last page", page: 3, pageSize: 10, total: 25,
			want: dto.PaginationMeta{CurrentPage: 3, PageSize: 10, TotalPages: 3, TotalRecords: 25, HasNextPage: false, HasPreviousPage: true},
		},
		{
			name: "empty result", page: 1, pageSize: 10, total: 0,
			want: dto.PaginationMeta{CurrentPage: 1, PageSize: 10, TotalPages: 0, TotalRecords: 0, HasNextPage: false, HasPreviousPage: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newPaginationMeta(tt.page, tt.pageSize, tt.total))
		})
	}
}

func TestSortByProximity(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	farFuture := entity.Appointment{ID: uuid.New(), AppointmentDate: day.AddDate(0, 0, 7), AppointmentTime: "12:00"}
	soon := entity.Appointment{ID: uuid.New(), AppointmentDate: day, AppointmentTime: "13:00"}
	justPassed := entity.Appointment{ID: uuid.New(), AppointmentDate: day, AppointmentTime: "11:30"}

	appointments := []entity.Appointment{farFuture, soon, justPassed}
	sortByProximity(appointments, now)

	// 30 minutes overdue beats 1 hour ahead; a week out comes last
	assert.Equal(t, justPassed.ID, appointments[0].ID)
	assert.Equal(t, soon.ID, appointments[1].ID)
	assert.Equal(t, farFuture.ID, appointments[2].ID)
}

func TestGetScheduledAppointments(t *testing.T) {
	db, _ := newTestDB(t)

	// Relative to now so proximity ordering is deterministic whenever the
	// test runs
	now := time.Now()
	scheduled := []entity.Appointment{
		{ID: uuid.New(), AppointmentDate: now.AddDate(0, 0, 5), AppointmentTime: "09:00", Status: entity.AppointmentStatusScheduled},
		{ID: uuid.New(), AppointmentDate: now.AddDate(0, 0, 1), AppointmentTime: "09:00", Status: entity.AppointmentStatusScheduled},
		{ID: uuid.New(), AppointmentDate: now.AddDate(0, 0, 3), AppointmentTime: "09:00", Status: entity.AppointmentStatusScheduled},
	}

	appointmentRepo := &mockAppointmentRepository{
		FindByStatusFunc: func(db *gorm.DB, status entity.AppointmentStatus) ([]entity.Appointment, error) {
			assert.Equal(t, entity.AppointmentStatusScheduled, status)
			out := make([]entity.Appointment, len(scheduled))
			copy(out, scheduled)
			return out, nil
		},
	}

	uc := NewAppointmentUsecase(db, testLogger(), appointmentRepo, nil, nil, nil, &mockAuditService{}, &mockMailer{})

	resp, err := uc.GetScheduledAppointments(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 2)

	// Closest slots to now come first regardless of repository order
	assert.Equal(t, scheduled[1].ID, resp.Appointments[0].ID)
	assert.Equal(t, scheduled[2].ID, resp.Appointments[1].ID)
	assert.Equal(t, 1, resp.Meta.CurrentPage)
	assert.Equal(t, 2, resp.Meta.TotalPages)
	assert.Equal(t, int64(3), resp.Meta.TotalRecords)
	assert.True(t, resp.Meta.HasNextPage)
	assert.False(t, resp.Meta.HasPreviousPage)

	resp, err = uc.GetScheduledAppointments(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, scheduled[0].ID, resp.Appointments[0].ID)
	assert.False(t, resp.Meta.HasNextPage)
	assert.True(t, resp.Meta.HasPreviousPage)
}

func TestGetScheduledAppointmentsPageBeyondEnd(t *testing.T) {
	db, _ := newTestDB(t)

	appointmentRepo := &mockAppointmentRepository{
		FindByStatusFunc: func(db *gorm.DB, status entity.AppointmentStatus) ([]entity.Appointment, error) {
			return []entity.Appointment{{ID: uuid.New(), AppointmentDate: time.Now(), AppointmentTime: "09:00"}}, nil
		},
	}

	uc := NewAppointmentUsecase(db, testLogger(), appointmentRepo, nil, nil, nil, &mockAuditService{}, &mockMailer{})

	resp, err := uc.GetScheduledAppointments(context.Background(), 5, 10)
	require.NoError(t, err)
	assert.Empty(t, resp.Appointments)
	assert.Equal(t, int64(1), resp.Meta.TotalRecords)
}

func TestGetAvailableDoctors(t *testing.T) {
	db, _ := newTestDB(t)
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	free := uuid.New()
	offDuty := uuid.New()
	booked := uuid.New()

	doctorRepo := &mockDoctorProfileRepository{
		FindAllFunc: func(db *gorm.DB) ([]entity.DoctorProfile, error) {
			return []entity.DoctorProfile{
				{UserID: free, Specialization: "Cardiology", User: entity.User{FullName: "Dr. Free"}},
				{UserID: offDuty, Specialization: "Neurology", User: entity.User{FullName: "Dr. Off"}},
				{UserID: booked, Specialization: "Pediatrics", User: entity.User{FullName: "Dr. Busy"}},
			}, nil
		},
	}
	scheduleRepo := &mockDoctorScheduleRepository{
		FindByDoctorAndDateFunc: func(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.DoctorSchedule, error) {
			if doctorID == offDuty {
				return nil, nil
			}
			return []entity.DoctorSchedule{{DoctorID: doctorID, ScheduleDate: day, StartTime: "09:00", EndTime: "12:00"}}, nil
		},
	}
	appointmentRepo := &mockAppointmentRepository{
		CountActiveAtSlotFunc: func(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeOfDay string, excludeID *uuid.UUID) (int64, error) {
			if doctorID == booked {
				return 1, nil
			}
			return 0, nil
		},
	}

	uc := NewAppointmentUsecase(db, testLogger(), appointmentRepo, scheduleRepo, doctorRepo, nil, &mockAuditService{}, &mockMailer{})

	resp, err := uc.GetAvailableDoctors(context.Background(), "2026-09-01", "10:00")
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, free, resp.Doctors[0].ID)
	assert.Equal(t, "Dr. Free", resp.Doctors[0].FullName)
	assert.Equal(t, "Cardiology", resp.Doctors[0].Specialization)
}

func TestGetAvailableDoctorsInvalidInput(t *testing.T) {
	db, _ := newTestDB(t)
	uc := NewAppointmentUsecase(db, testLogger(), nil, nil, nil, nil, &mockAuditService{}, &mockMailer{})

	_, err := uc.GetAvailableDoctors(context.Background(), "01-09-2026", "10:00")
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	_, err = uc.GetAvailableDoctors(context.Background(), "2026-09-01", "10am")
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestCreateAppointment(t *testing.T) {
	db, mock := newTestDB(t)
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	doctorID := uuid.New()
	patientID := uuid.New()
	createdID := uuid.New()

	patientRepo := &mockPatientProfileRepository{
		FindByUserIDFunc: func(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
			return &entity.PatientProfile{UserID: userID}, nil
		},
	}
	doctorRepo := &mockDoctorProfileRepository{
		FindByUserIDFunc: func(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
			return &entity.DoctorProfile{UserID: userID}, nil
		},
	}
	scheduleRepo := &mockDoctorScheduleRepository{
		FindByDoctorAndDateFunc: func(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.DoctorSchedule, error) {
			return []entity.DoctorSchedule{{DoctorID: doctorID, ScheduleDate: day, StartTime: "08:00", EndTime: "16:00"}}, nil
		},
	}
	appointmentRepo := &mockAppointmentRepository{
		CountActiveAtSlotFunc: func(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeOfDay string, excludeID *uuid.UUID) (int64, error) {
			assert.Nil(t, excludeID)
			return 0, nil
		},
		CreateFunc: func(db *gorm.DB, appointment *entity.Appointment) error {
			appointment.ID = createdID
			return nil
		},
		FindByIDFunc: func(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
			return &entity.Appointment{
				ID: id, DoctorID: doctorID, PatientID: patientID,
				AppointmentDate: day, AppointmentTime: "10:00",
				Status: entity.AppointmentStatusScheduled, Type: entity.AppointmentTypeVisit,
			}, nil
		},
	}
	audit := &mockAuditService{}

	mock.ExpectBegin()
	mock.ExpectCommit()

	uc := NewAppointmentUsecase(db, testLogger(), appointmentRepo, scheduleRepo, doctorRepo, patientRepo, audit, &mockMailer{})

	resp, err := uc.CreateAppointment(context.Background(), &dto.CreateAppointmentRequest{
		DoctorID:        doctorID,
		PatientID:       patientID,
		AppointmentDate: "2026-09-01",
		AppointmentTime: "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, createdID, resp.ID)
	assert.Equal(t, string(entity.AppointmentStatusScheduled), resp.Status)
	assert.Equal(t, string(entity.AppointmentTypeVisit), resp.Type)
	assert.Equal(t, []string{entity.AuditActionAppointmentCreate}, audit.Entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAppointmentValidation(t *testing.T) {
	db, _ := newTestDB(t)
	uc := NewAppointmentUsecase(db, testLogger(), nil, nil, nil, nil, &mockAuditService{}, &mockMailer{})

	_, err := uc.CreateAppointment(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = uc.CreateAppointment(context.Background(), &dto.CreateAppointmentRequest{
		AppointmentDate: "tomorrow", AppointmentTime: "10:00",
	})
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	_, err = uc.CreateAppointment(context.Background(), &dto.CreateAppointmentRequest{
		AppointmentDate: "2026-09-01", AppointmentTime: "25:99",
	})
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)

	_, err = uc.CreateAppointment(context.Background(), &dto.CreateAppointmentRequest{
		AppointmentDate: "2026-09-01", AppointmentTime: "10:00", Type: "surgery",
	})
	assert.ErrorIs(t, err, ErrInvalidAppointmentType)
}

func TestCreateAppointmentPatientNotFound(t *testing.T) {
	db, _ := newTestDB(t)

	patientRepo := &mockPatientProfileRepository{
		FindByUserIDFunc: func(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
			return nil, nil
		},
	}

	uc := NewAppointmentUsecase(db, testLogger(), nil, nil, nil, patientRepo, &mockAuditService{}, &mockMailer{})

	_, err := uc.CreateAppointment(context.Background(), &dto.CreateAppointmentRequest{
		DoctorID: uuid.New(), PatientID: uuid.New(),
		AppointmentDate: "2026-09-01", AppointmentTime: "10:00",
	})
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestCreateAppointmentOutsideScheduleWindow(t *testing.T) {
	db, _ := newTestDB(t)
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	patientRepo := &mockPatientProfileRepository{
		FindByUserIDFunc: func(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
			return &entity.PatientProfile{UserID: userID}, nil
		},
	}
	doctorRepo := &mockDoctorProfileRepository{
		FindByUserIDFunc: func(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
			return &entity.DoctorProfile{UserID: userID}, nil
		},
	}
	scheduleRepo := &mockDoctorScheduleRepository{
		FindByDoctorAndDateFunc: func(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.DoctorSchedule, error) {
			return []entity.DoctorSchedule{{DoctorID: doctorID, ScheduleDate: day, StartTime: "08:00", EndTime: "10:00"}}, nil
		},
	}

	uc := NewAppointmentUsecase(db, testLogger(), &mockAppointmentRepository{}, scheduleRepo, doctorRepo, patientRepo, &mockAuditService{}, &mockMailer{})

	// 10:00 is the exclusive end of the 08:00-10:00 window
	_, err := uc.CreateAppointment(context.Background(), &dto.CreateAppointmentRequest{
		DoctorID: uuid.New(), PatientID: uuid.New(),
		AppointmentDate: "2026-09-01", AppointmentTime: "10:00",
	})
	assert.ErrorIs(t, err, ErrDoctorNotAvailable)
}

func TestCreateAppointmentSlotTaken(t *testing.T) {
	db, _ := newTestDB(t)
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	patientRepo := &mockPatientProfileRepository{
		FindByUserIDFunc: func(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
			return &entity.PatientProfile{UserID: userID}, nil
		},
	}
	doctorRepo := &mockDoctorProfileRepository{
		FindByUserIDFunc: func(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
			return &entity.DoctorProfile{UserID: userID}, nil
		},
	}
	scheduleRepo := &mockDoctorScheduleRepository{
		FindByDoctorAndDateFunc: func(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.DoctorSchedule, error) {
			return []entity.DoctorSchedule{{DoctorID: doctorID, ScheduleDate: day, StartTime: "08:00", EndTime: "16:00"}}, nil
		},
	}
	appointmentRepo := &mockAppointmentRepository{
		CountActiveAtSlotFunc: func(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeOfDay string, excludeID *uuid.UUID) (int64, error) {
			return 1, nil
		},
	}

	uc := NewAppointmentUsecase(db, testLogger(), appointmentRepo, scheduleRepo, doctorRepo, patientRepo, &mockAuditService{}, &mockMailer{})

	_, err := uc.CreateAppointment(context.Background(), &dto.CreateAppointmentRequest{
		DoctorID: uuid.New(), PatientID: uuid.New(),
		AppointmentDate: "2026-09-01", AppointmentTime: "10:00",
	})
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestUpdateAppointmentNotFound(t *testing.T) {
	db, _ := newTestDB(t)

	appointmentRepo := &mockAppointmentRepository{
		FindByIDFunc: func(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
			return nil, nil
		},
	}

	uc := NewAppointmentUsecase(db, testLogger(), appointmentRepo, nil, nil, nil, &mockAuditService{}, &mockMailer{})

	_, err := uc.UpdateAppointment(context.Background(), uuid.New(), &dto.UpdateAppointmentRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestUpdateAppointmentStatusOnlySkipsAvailabilityCheck(t *testing.T) {
	db, mock := newTestDB(t)
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	appointmentID := uuid.New()
	stored := entity.Appointment{
		ID: appointmentID, DoctorID: uuid.New(), PatientID: uuid.New(),
		AppointmentDate: day, AppointmentTime: "10:00",
		Status: entity.AppointmentStatusScheduled, Type: entity.AppointmentTypeVisit,
	}

	var updated *entity.Appointment
	appointmentRepo := &mockAppointmentRepository{
		FindByIDFunc: func(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
			if updated != nil {
				a := *updated
				return &a, nil
			}
			a := stored
			return &a, nil
		},
		UpdateFunc: func(db *gorm.DB, appointment *entity.Appointment) error {
			assert.Equal(t, entity.AppointmentStatusConfirmed, appointment.Status)
			updated = appointment
			return nil
		},
	}
	mailer := &mockMailer{}
	audit := &mockAuditService{}

	mock.ExpectBegin()
	mock.ExpectCommit()

	// Schedule and count mocks are left unset: touching them would fail the
	// update, proving a status-only change skips the availability rule.
	uc := NewAppointmentUsecase(db, testLogger(), appointmentRepo, &mockDoctorScheduleRepository{}, &mockDoctorProfileRepository{}, nil, audit, mailer)

	resp, err := uc.UpdateAppointment(context.Background(), appointmentID, &dto.UpdateAppointmentRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, []string{entity.AuditActionAppointmentUpdate}, audit.Entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAppointmentRescheduleExcludesSelf(t *testing.T) {
	db, mock := newTestDB(t)
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	appointmentID := uuid.New()
	doctorID := uuid.New()
	stored := entity.Appointment{
		ID: appointmentID, DoctorID: doctorID, PatientID: uuid.New(),
		AppointmentDate: day, AppointmentTime: "10:00",
		Status: entity.AppointmentStatusScheduled, Type: entity.AppointmentTypeVisit,
	}

	var excludeSeen *uuid.UUID
	var updated *entity.Appointment
	appointmentRepo := &mockAppointmentRepository{
		FindByIDFunc: func(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
			if updated != nil {
				a := *updated
				return &a, nil
			}
			a := stored
			return &a, nil
		},
		CountActiveAtSlotFunc: func(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeOfDay string, excludeID *uuid.UUID) (int64, error) {
			excludeSeen = excludeID
			assert.Equal(t, "11:00", timeOfDay)
			return 0, nil
		},
		UpdateFunc: func(db *gorm.DB, appointment *entity.Appointment) error {
			updated = appointment
			return nil
		},
	}
	scheduleRepo := &mockDoctorScheduleRepository{
		FindByDoctorAndDateFunc: func(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.DoctorSchedule, error) {
			return []entity.DoctorSchedule{{DoctorID: doctorID, ScheduleDate: day, StartTime: "08:00", EndTime: "16:00"}}, nil
		},
	}

	mock.ExpectBegin()
	mock.ExpectCommit()

	uc := NewAppointmentUsecase(db, testLogger(), appointmentRepo, scheduleRepo, &mockDoctorProfileRepository{}, nil, &mockAuditService{}, &mockMailer{})

	resp, err := uc.UpdateAppointment(context.Background(), appointmentID, &dto.UpdateAppointmentRequest{AppointmentTime: "11:00"})
	require.NoError(t, err)
	assert.Equal(t, "11:00", resp.AppointmentTime)
	require.NotNil(t, excludeSeen)
	assert.Equal(t, appointmentID, *excludeSeen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAppointmentInvalidStatus(t *testing.T) {
	db, _ := newTestDB(t)
	uc := NewAppointmentUsecase(db, testLogger(), nil, nil, nil, nil, &mockAuditService{}, &mockMailer{})

	_, err := uc.UpdateAppointment(context.Background(), uuid.New(), &dto.UpdateAppointmentRequest{Status: "done"})
	assert.ErrorIs(t, err, ErrInvalidAppointmentStatus)
}

func TestUpdateAppointmentNotifiesPatient(t *testing.T) {
	db, mock := newTestDB(t)
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	appointmentID := uuid.New()
	stored := entity.Appointment{
		ID: appointmentID, DoctorID: uuid.New(), PatientID: uuid.New(),
		AppointmentDate: day, AppointmentTime: "10:00",
		Status: entity.AppointmentStatusScheduled, Type: entity.AppointmentTypeVisit,
		Patient: entity.PatientProfile{
			User: entity.User{FullName: "Jane Roe", Email: "jane@example.com"},
		},
	}

	appointmentRepo := &mockAppointmentRepository{
		FindByIDFunc: func(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
			a := stored
			return &a, nil
		},
		UpdateFunc: func(db *gorm.DB, appointment *entity.Appointment) error {
			return nil
		},
	}
	mailer := &mockMailer{}

	mock.ExpectBegin()
	mock.ExpectCommit()

	uc := NewAppointmentUsecase(db, testLogger(), appointmentRepo, nil, nil, nil, &mockAuditService{}, mailer)

	_, err := uc.UpdateAppointment(context.Background(), appointmentID, &dto.UpdateAppointmentRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, []string{"jane@example.com"}, mailer.ApprovalSent)
}

func TestGetAppointmentByIDNotFound(t *testing.T) {
	db, _ := newTestDB(t)

	appointmentRepo := &mockAppointmentRepository{
		FindByIDFunc: func(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
			return nil, nil
		},
	}

	uc := NewAppointmentUsecase(db, testLogger(), appointmentRepo, nil, nil, nil, &mockAuditService{}, &mockMailer{})

	_, err := uc.GetAppointmentByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}
