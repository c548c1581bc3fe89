package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-care/internal/domain/entity"
	"clinic-care/internal/domain/repository"
	"clinic-care/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB returns a gorm handle backed by sqlmock. Tests that never reach
// the driver need no expectations; transactional tests set ExpectBegin and
// ExpectCommit on the returned mock.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	return db, mock
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// --- mockUserRepository ---

var _ repository.UserRepository = (*mockUserRepository)(nil)

type mockUserRepository struct {
	CreateFunc      func(db *gorm.DB, user *entity.User) error
	FindByEmailFunc func(db *gorm.DB, email string) (*entity.User, error)
	FindByIDFunc    func(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	UpdateFunc      func(db *gorm.DB, user *entity.User) error
}

func (m *mockUserRepository) Create(db *gorm.DB, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(db, user)
	}
	return errors.New("CreateFunc not implemented in mock")
}

func (m *mockUserRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(db, email)
	}
	return nil, errors.New("FindByEmailFunc not implemented in mock")
}

func (m *mockUserRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(db, id)
	}
	return nil, errors.New("FindByIDFunc not implemented in mock")
}

func (m *mockUserRepository) Update(db *gorm.DB, user *entity.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(db, user)
	}
	return errors.New("UpdateFunc not implemented in mock")
}

// --- mockDoctorProfileRepository ---

var _ repository.DoctorProfileRepository = (*mockDoctorProfileRepository)(nil)

type mockDoctorProfileRepository struct {
	CreateFunc       func(db *gorm.DB, profile *entity.DoctorProfile) error
	FindByUserIDFunc func(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error)
	FindAllFunc      func(db *gorm.DB) ([]entity.DoctorProfile, error)
	UpdateFunc       func(db *gorm.DB, profile *entity.DoctorProfile) error
	DeleteFunc       func(db *gorm.DB, userID uuid.UUID) (int64, error)
}

func (m *mockDoctorProfileRepository) Create(db *gorm.DB, profile *entity.DoctorProfile) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(db, profile)
	}
	return errors.New("CreateFunc not implemented in mock")
}

func (m *mockDoctorProfileRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(db, userID)
	}
	return nil, errors.New("FindByUserIDFunc not implemented in mock")
}

func (m *mockDoctorProfileRepository) FindAll(db *gorm.DB) ([]entity.DoctorProfile, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(db)
	}
	return nil, errors.New("FindAllFunc not implemented in mock")
}

func (m *mockDoctorProfileRepository) Update(db *gorm.DB, profile *entity.DoctorProfile) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(db, profile)
	}
	return errors.New("UpdateFunc not implemented in mock")
}

func (m *mockDoctorProfileRepository) Delete(db *gorm.DB, userID uuid.UUID) (int64, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(db, userID)
	}
	return 0, errors.New("DeleteFunc not implemented in mock")
}

// --- mockPatientProfileRepository ---

var _ repository.PatientProfileRepository = (*mockPatientProfileRepository)(nil)

type mockPatientProfileRepository struct {
	CreateFunc       func(db *gorm.DB, profile *entity.PatientProfile) error
	FindByUserIDFunc func(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error)
	FindAllFunc      func(db *gorm.DB) ([]entity.PatientProfile, error)
	UpdateFunc       func(db *gorm.DB, profile *entity.PatientProfile) error
}

func (m *mockPatientProfileRepository) Create(db *gorm.DB, profile *entity.PatientProfile) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(db, profile)
	}
	return errors.New("CreateFunc not implemented in mock")
}

func (m *mockPatientProfileRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(db, userID)
	}
	return nil, errors.New("FindByUserIDFunc not implemented in mock")
}

func (m *mockPatientProfileRepository) FindAll(db *gorm.DB) ([]entity.PatientProfile, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(db)
	}
	return nil, errors.New("FindAllFunc not implemented in mock")
}

func (m *mockPatientProfileRepository) Update(db *gorm.DB, profile *entity.PatientProfile) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(db, profile)
	}
	return errors.New("UpdateFunc not implemented in mock")
}

// --- mockDoctorScheduleRepository ---

var _ repository.DoctorScheduleRepository = (*mockDoctorScheduleRepository)(nil)

type mockDoctorScheduleRepository struct {
	CreateFunc                  func(db *gorm.DB, schedule *entity.DoctorSchedule) error
	FindByIDFunc                func(db *gorm.DB, id int) (*entity.DoctorSchedule, error)
	FindByDoctorIDFunc          func(db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorSchedule, error)
	FindByDoctorAndDateFunc     func(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.DoctorSchedule, error)
	FindAllWithActiveDoctorFunc func(db *gorm.DB, filter *entity.ScheduleFilter) ([]entity.DoctorSchedule, error)
	UpdateFunc                  func(db *gorm.DB, schedule *entity.DoctorSchedule) error
	DeleteFunc                  func(db *gorm.DB, id int) (int64, error)
}

func (m *mockDoctorScheduleRepository) Create(db *gorm.DB, schedule *entity.DoctorSchedule) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(db, schedule)
	}
	return errors.New("CreateFunc not implemented in mock")
}

func (m *mockDoctorScheduleRepository) FindByID(db *gorm.DB, id int) (*entity.DoctorSchedule, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(db, id)
	}
	return nil, errors.New("FindByIDFunc not implemented in mock")
}

func (m *mockDoctorScheduleRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.DoctorSchedule, error) {
	if m.FindByDoctorIDFunc != nil {
		return m.FindByDoctorIDFunc(db, doctorID)
	}
	return nil, errors.New("FindByDoctorIDFunc not implemented in mock")
}

func (m *mockDoctorScheduleRepository) FindByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.DoctorSchedule, error) {
	if m.FindByDoctorAndDateFunc != nil {
		return m.FindByDoctorAndDateFunc(db, doctorID, date)
	}
	return nil, errors.New("FindByDoctorAndDateFunc not implemented in mock")
}

func (m *mockDoctorScheduleRepository) FindAllWithActiveDoctor(db *gorm.DB, filter *entity.ScheduleFilter) ([]entity.DoctorSchedule, error) {
	if m.FindAllWithActiveDoctorFunc != nil {
		return m.FindAllWithActiveDoctorFunc(db, filter)
	}
	return nil, errors.New("FindAllWithActiveDoctorFunc not implemented in mock")
}

func (m *mockDoctorScheduleRepository) Update(db *gorm.DB, schedule *entity.DoctorSchedule) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(db, schedule)
	}
	return errors.New("UpdateFunc not implemented in mock")
}

func (m *mockDoctorScheduleRepository) Delete(db *gorm.DB, id int) (int64, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(db, id)
	}
	return 0, errors.New("DeleteFunc not implemented in mock")
}

// --- mockAppointmentRepository ---

var _ repository.AppointmentRepository = (*mockAppointmentRepository)(nil)

type mockAppointmentRepository struct {
	CreateFunc            func(db *gorm.DB, appointment *entity.Appointment) error
	FindByIDFunc          func(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientIDFunc   func(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByDoctorIDFunc    func(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error)
	FindByStatusFunc      func(db *gorm.DB, status entity.AppointmentStatus) ([]entity.Appointment, error)
	CountActiveAtSlotFunc func(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeOfDay string, excludeID *uuid.UUID) (int64, error)
	UpdateFunc            func(db *gorm.DB, appointment *entity.Appointment) error
}

func (m *mockAppointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(db, appointment)
	}
	return errors.New("CreateFunc not implemented in mock")
}

func (m *mockAppointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(db, id)
	}
	return nil, errors.New("FindByIDFunc not implemented in mock")
}

func (m *mockAppointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	if m.FindByPatientIDFunc != nil {
		return m.FindByPatientIDFunc(db, patientID)
	}
	return nil, errors.New("FindByPatientIDFunc not implemented in mock")
}

func (m *mockAppointmentRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	if m.FindByDoctorIDFunc != nil {
		return m.FindByDoctorIDFunc(db, doctorID)
	}
	return nil, errors.New("FindByDoctorIDFunc not implemented in mock")
}

func (m *mockAppointmentRepository) FindByStatus(db *gorm.DB, status entity.AppointmentStatus) ([]entity.Appointment, error) {
	if m.FindByStatusFunc != nil {
		return m.FindByStatusFunc(db, status)
	}
	return nil, errors.New("FindByStatusFunc not implemented in mock")
}

func (m *mockAppointmentRepository) CountActiveAtSlot(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeOfDay string, excludeID *uuid.UUID) (int64, error) {
	if m.CountActiveAtSlotFunc != nil {
		return m.CountActiveAtSlotFunc(db, doctorID, date, timeOfDay, excludeID)
	}
	return 0, errors.New("CountActiveAtSlotFunc not implemented in mock")
}

func (m *mockAppointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(db, appointment)
	}
	return errors.New("UpdateFunc not implemented in mock")
}

// --- mockTestTypeRepository ---

var _ repository.TestTypeRepository = (*mockTestTypeRepository)(nil)

type mockTestTypeRepository struct {
	CreateFunc   func(db *gorm.DB, testType *entity.TestType) error
	FindAllFunc  func(db *gorm.DB, limit, offset int) ([]entity.TestType, int64, error)
	FindByIDFunc func(db *gorm.DB, id int) (*entity.TestType, error)
	UpdateFunc   func(db *gorm.DB, testType *entity.TestType) error
	DeleteFunc   func(db *gorm.DB, id int) (int64, error)
}

func (m *mockTestTypeRepository) Create(db *gorm.DB, testType *entity.TestType) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(db, testType)
	}
	return errors.New("CreateFunc not implemented in mock")
}

func (m *mockTestTypeRepository) FindAll(db *gorm.DB, limit, offset int) ([]entity.TestType, int64, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(db, limit, offset)
	}
	return nil, 0, errors.New("FindAllFunc not implemented in mock")
}

func (m *mockTestTypeRepository) FindByID(db *gorm.DB, id int) (*entity.TestType, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(db, id)
	}
	return nil, errors.New("FindByIDFunc not implemented in mock")
}

func (m *mockTestTypeRepository) Update(db *gorm.DB, testType *entity.TestType) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(db, testType)
	}
	return errors.New("UpdateFunc not implemented in mock")
}

func (m *mockTestTypeRepository) Delete(db *gorm.DB, id int) (int64, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(db, id)
	}
	return 0, errors.New("DeleteFunc not implemented in mock")
}

// --- mockTestResultRepository ---

var _ repository.TestResultRepository = (*mockTestResultRepository)(nil)

type mockTestResultRepository struct {
	CreateFunc              func(db *gorm.DB, result *entity.TestResult) error
	FindByIDFunc            func(db *gorm.DB, id uuid.UUID) (*entity.TestResult, error)
	FindAllFunc             func(db *gorm.DB) ([]entity.TestResult, error)
	FindByPatientIDFunc     func(db *gorm.DB, patientID uuid.UUID) ([]entity.TestResult, error)
	FindByAppointmentIDFunc func(db *gorm.DB, appointmentID uuid.UUID) (*entity.TestResult, error)
	UpdateFunc              func(db *gorm.DB, result *entity.TestResult) error
	DeleteFunc              func(db *gorm.DB, id uuid.UUID) (int64, error)
}

func (m *mockTestResultRepository) Create(db *gorm.DB, result *entity.TestResult) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(db, result)
	}
	return errors.New("CreateFunc not implemented in mock")
}

func (m *mockTestResultRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.TestResult, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(db, id)
	}
	return nil, errors.New("FindByIDFunc not implemented in mock")
}

func (m *mockTestResultRepository) FindAll(db *gorm.DB) ([]entity.TestResult, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(db)
	}
	return nil, errors.New("FindAllFunc not implemented in mock")
}

func (m *mockTestResultRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.TestResult, error) {
	if m.FindByPatientIDFunc != nil {
		return m.FindByPatientIDFunc(db, patientID)
	}
	return nil, errors.New("FindByPatientIDFunc not implemented in mock")
}

func (m *mockTestResultRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.TestResult, error) {
	if m.FindByAppointmentIDFunc != nil {
		return m.FindByAppointmentIDFunc(db, appointmentID)
	}
	return nil, errors.New("FindByAppointmentIDFunc not implemented in mock")
}

func (m *mockTestResultRepository) Update(db *gorm.DB, result *entity.TestResult) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(db, result)
	}
	return errors.New("UpdateFunc not implemented in mock")
}

func (m *mockTestResultRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(db, id)
	}
	return 0, errors.New("DeleteFunc not implemented in mock")
}

// --- mockAuditService ---

var _ service.AuditService = (*mockAuditService)(nil)

type mockAuditService struct {
	Entries []string
}

func (m *mockAuditService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	m.Entries = append(m.Entries, action)
	return nil
}

func (m *mockAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	m.Entries = append(m.Entries, action)
	return nil
}

func (m *mockAuditService) LogDelete(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, oldValue interface{}) error {
	m.Entries = append(m.Entries, action)
	return nil
}

// --- mockMailer ---

var _ service.Mailer = (*mockMailer)(nil)

type mockMailer struct {
	VerificationSent   []string
	ForgotSent         []string
	ApprovalSent       []string
	FailVerification   bool
	FailForgotPassword bool

	LastCode string
}

func (m *mockMailer) SendVerificationEmail(to, code string) error {
	if m.FailVerification {
		return errors.New("smtp unavailable")
	}
	m.VerificationSent = append(m.VerificationSent, to)
	m.LastCode = code
	return nil
}

func (m *mockMailer) SendForgotPasswordEmail(to, code string) error {
	if m.FailForgotPassword {
		return errors.New("smtp unavailable")
	}
	m.ForgotSent = append(m.ForgotSent, to)
	m.LastCode = code
	return nil
}

func (m *mockMailer) SendAppointmentApprovalEmail(to, name, date, timeOfDay string) error {
	m.ApprovalSent = append(m.ApprovalSent, to)
	return nil
}
