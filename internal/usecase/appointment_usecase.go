package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"clinic-care/internal/converter"
	"clinic-care/internal/delivery/dto"
	"clinic-care/internal/delivery/http/middleware"
	"clinic-care/internal/domain/entity"
	"clinic-care/internal/domain/repository"
	"clinic-care/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidRequest           = errors.New("request must not be nil")
	ErrAppointmentNotFound      = errors.New("appointment not found")
	ErrDoctorNotAvailable       = errors.New("doctor has no availability window at the requested time")
	ErrSlotTaken                = errors.New("doctor already has an appointment at the requested time")
	ErrInvalidAppointmentStatus = errors.New("invalid appointment status")
	ErrInvalidAppointmentType   = errors.New("invalid appointment type")
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateAppointment(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointmentByID(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	GetAppointmentsByPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error)
	GetAppointmentsByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.AppointmentListResponse, error)
	GetAvailableDoctors(ctx context.Context, date, timeOfDay string) (*dto.AvailableDoctorsResponse, error)
	GetScheduledAppointments(ctx context.Context, page, pageSize int) (*dto.ScheduledAppointmentsResponse, error)
}

type appointmentUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	appointmentRepo    repository.AppointmentRepository
	scheduleRepo       repository.DoctorScheduleRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
	mailer             service.Mailer
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	scheduleRepo repository.DoctorScheduleRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
	mailer service.Mailer,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:                 db,
		log:                log,
		appointmentRepo:    appointmentRepo,
		scheduleRepo:       scheduleRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
		mailer:             mailer,
	}
}

// CreateAppointment books a slot for a patient with a doctor.
//
// Flow:
// 1. Validate patient and doctor exist
// 2. Availability rule: schedule window covers the slot, slot not taken
// 3. Insert with status "scheduled" inside one transaction
// 4. Reload with relations for the response
//
// The availability pre-check is advisory; the partial unique index on the
// appointments table is what makes concurrent double-booking impossible. A
// unique violation there is reported as the same conflict error.
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	date, err := time.Parse("2006-01-02", req.AppointmentDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	if _, err := time.Parse("15:04", req.AppointmentTime); err != nil {
		return nil, ErrInvalidTimeFormat
	}

	apptType := entity.AppointmentType(req.Type)
	if req.Type == "" {
		apptType = entity.AppointmentTypeVisit
	}
	if !entity.ValidAppointmentType(string(apptType)) {
		return nil, ErrInvalidAppointmentType
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

	if err := u.ensureDoctorAvailable(u.db.WithContext(ctx), req.DoctorID, date, req.AppointmentTime, nil); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment := &entity.Appointment{
		DoctorID:        req.DoctorID,
		PatientID:       req.PatientID,
		AppointmentDate: date,
		AppointmentTime: req.AppointmentTime,
		Status:          entity.AppointmentStatusScheduled,
		Type:            apptType,
		Notes:           req.Notes,
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if isDuplicateKeyError(err, "active_slot") {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	actor := actorFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, tx, actor, entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), appointment); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	full, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointment.ID, err)
		return converter.AppointmentToResponse(appointment), nil
	}

	u.log.Infof("Appointment created: id=%s, doctor=%s, slot=%s %s",
		appointment.ID, req.DoctorID, req.AppointmentDate, req.AppointmentTime)
	return converter.AppointmentToResponse(full), nil
}

// UpdateAppointment applies a partial merge onto the stored appointment. The
// availability rule is re-run only when the (doctor, date, time) slot is
// actually changing, excluding the appointment itself from the conflict scan.
func (u *appointmentUsecase) UpdateAppointment(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	if req.Status != "" && !entity.ValidAppointmentStatus(req.Status) {
		return nil, ErrInvalidAppointmentStatus
	}
	if req.Type != "" && !entity.ValidAppointmentType(req.Type) {
		return nil, ErrInvalidAppointmentType
	}
	if req.AppointmentTime != "" {
		if _, err := time.Parse("15:04", req.AppointmentTime); err != nil {
			return nil, ErrInvalidTimeFormat
		}
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	// Effective slot: new value if provided, else existing value
	effectiveDoctor := appointment.DoctorID
	if req.DoctorID != nil {
		effectiveDoctor = *req.DoctorID
	}
	effectiveDate := appointment.AppointmentDate
	if req.AppointmentDate != "" {
		effectiveDate, err = time.Parse("2006-01-02", req.AppointmentDate)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
	}
	effectiveTime := appointment.AppointmentTime
	if req.AppointmentTime != "" {
		effectiveTime = req.AppointmentTime
	}

	if req.DoctorID != nil {
		doctor, err := u.doctorProfileRepo.FindByUserID(u.db.WithContext(ctx), effectiveDoctor)
		if err != nil {
			u.log.Warnf("Failed to find doctor %s: %+v", effectiveDoctor, err)
			return nil, err
		}
		if doctor == nil {
			return nil, ErrDoctorNotFound
		}
	}

	slotChanged := effectiveDoctor != appointment.DoctorID ||
		!sameDay(effectiveDate, appointment.AppointmentDate) ||
		effectiveTime != appointment.AppointmentTime
	if slotChanged {
		if err := u.ensureDoctorAvailable(u.db.WithContext(ctx), effectiveDoctor, effectiveDate, effectiveTime, &appointment.ID); err != nil {
			return nil, err
		}
	}

	old := *appointment

	appointment.DoctorID = effectiveDoctor
	appointment.AppointmentDate = effectiveDate
	appointment.AppointmentTime = effectiveTime
	if req.Status != "" {
		appointment.Status = entity.AppointmentStatus(req.Status)
	}
	if req.Type != "" {
		appointment.Type = entity.AppointmentType(req.Type)
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		if isDuplicateKeyError(err, "active_slot") {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed to update appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	actor := actorFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, actor, entity.AuditActionAppointmentUpdate, "appointment", appointment.ID.String(), old.Status, appointment.Status); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	full, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointment.ID, err)
		return converter.AppointmentToResponse(appointment), nil
	}

	u.notifyPatient(full)

	return converter.AppointmentToResponse(full), nil
}

func (u *appointmentUsecase) GetAppointmentByID(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) GetAppointmentsByPatient(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) GetAppointmentsByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// GetAvailableDoctors runs the availability predicate against every active
// doctor and returns the ones that pass. A candidate that fails the check is
// filtered out; a repository error for one candidate skips that candidate
// rather than failing the whole scan.
func (u *appointmentUsecase) GetAvailableDoctors(ctx context.Context, date, timeOfDay string) (*dto.AvailableDoctorsResponse, error) {
	parsedDate, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	if _, err := time.Parse("15:04", timeOfDay); err != nil {
		return nil, ErrInvalidTimeFormat
	}

	doctors, err := u.doctorProfileRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	available := make([]dto.AvailableDoctor, 0, len(doctors))
	for i := range doctors {
		ok, err := u.isDoctorAvailable(u.db.WithContext(ctx), doctors[i].UserID, parsedDate, timeOfDay)
		if err != nil {
			u.log.Warnf("Availability check failed for doctor %s: %+v", doctors[i].UserID, err)
			continue
		}
		if !ok {
			continue
		}
		available = append(available, dto.AvailableDoctor{
			ID:             doctors[i].UserID,
			FullName:       doctors[i].User.FullName,
			Specialization: doctors[i].Specialization,
		})
	}

	return &dto.AvailableDoctorsResponse{
		Doctors: available,
		Total:   len(available),
	}, nil
}

// GetScheduledAppointments lists appointments still in "scheduled" status,
// ordered by absolute time distance from now (soonest or most overdue first).
func (u *appointmentUsecase) GetScheduledAppointments(ctx context.Context, page, pageSize int) (*dto.ScheduledAppointmentsResponse, error) {
	page, pageSize = normalizePagination(page, pageSize)

	appointments, err := u.appointmentRepo.FindByStatus(u.db.WithContext(ctx), entity.AppointmentStatusScheduled)
	if err != nil {
		u.log.Warnf("Failed to find scheduled appointments: %+v", err)
		return nil, err
	}

	sortByProximity(appointments, time.Now())

	meta := newPaginationMeta(page, pageSize, int64(len(appointments)))

	start := (page - 1) * pageSize
	if start > len(appointments) {
		start = len(appointments)
	}
	end := start + pageSize
	if end > len(appointments) {
		end = len(appointments)
	}

	return &dto.ScheduledAppointmentsResponse{
		Appointments: converter.AppointmentsToResponses(appointments[start:end]),
		Meta:         meta,
	}, nil
}

// ensureDoctorAvailable enforces the availability rule for one slot:
// a declared window must cover the slot, and no non-cancelled appointment may
// occupy it already.
func (u *appointmentUsecase) ensureDoctorAvailable(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeOfDay string, excludeID *uuid.UUID) error {
	schedules, err := u.scheduleRepo.FindByDoctorAndDate(db, doctorID, date)
	if err != nil {
		return err
	}

	covered := false
	for i := range schedules {
		if schedules[i].Covers(date, timeOfDay) {
			covered = true
			break
		}
	}
	if !covered {
		return ErrDoctorNotAvailable
	}

	count, err := u.appointmentRepo.CountActiveAtSlot(db, doctorID, date, timeOfDay, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlotTaken
	}

	return nil
}

// isDoctorAvailable is the predicate form of the availability rule: expected
// negative outcomes are a false result, not an error.
func (u *appointmentUsecase) isDoctorAvailable(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeOfDay string) (bool, error) {
	err := u.ensureDoctorAvailable(db, doctorID, date, timeOfDay, nil)
	if errors.Is(err, ErrDoctorNotAvailable) || errors.Is(err, ErrSlotTaken) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// notifyPatient sends the approval email after a successful update. Delivery
// failure must not undo the committed state change, so it is only logged.
func (u *appointmentUsecase) notifyPatient(appointment *entity.Appointment) {
	email := appointment.Patient.User.Email
	if email == "" {
		return
	}
	err := u.mailer.SendAppointmentApprovalEmail(
		email,
		appointment.Patient.User.FullName,
		appointment.AppointmentDate.Format("2006-01-02"),
		appointment.AppointmentTime,
	)
	if err != nil {
		u.log.Warnf("Failed to send appointment email to %s: %+v", email, err)
	}
}

func actorFromContext(ctx context.Context) *uuid.UUID {
	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		return &userID
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// sortByProximity orders appointments by absolute distance of their slot from
// the reference instant, closest first. Stable so equal distances keep their
// repository order.
func sortByProximity(appointments []entity.Appointment, now time.Time) {
	sort.SliceStable(appointments, func(i, j int) bool {
		di := appointments[i].SlotTime().Sub(now)
		if di < 0 {
			di = -di
		}
		dj := appointments[j].SlotTime().Sub(now)
		if dj < 0 {
			dj = -dj
		}
		return di < dj
	})
}

func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func newPaginationMeta(page, pageSize int, total int64) dto.PaginationMeta {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return dto.PaginationMeta{
		CurrentPage:     page,
		PageSize:        pageSize,
		TotalPages:      totalPages,
		TotalRecords:    total,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}
