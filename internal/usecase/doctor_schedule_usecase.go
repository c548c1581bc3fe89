package usecase

import (
	"context"
	"errors"
	"strconv"
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
	ErrScheduleNotFound    = errors.New("schedule not found")
	ErrInvalidTimeWindow   = errors.New("start time must be before end time")
	ErrScheduleOverlapping = errors.New("schedule overlaps an existing window")
)

type DoctorScheduleUsecase interface {
	CreateSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error)
	UpdateSchedule(ctx context.Context, scheduleID int, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error)
	GetScheduleByID(ctx context.Context, scheduleID int) (*dto.ScheduleResponse, error)
	GetSchedulesByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.ScheduleListResponse, error)
	ListSchedules(ctx context.Context, req *dto.ScheduleFilterRequest) (*dto.ScheduleListResponse, error)
	DeleteSchedule(ctx context.Context, scheduleID int) error
}

type doctorScheduleUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	scheduleRepo      repository.DoctorScheduleRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
}

func NewDoctorScheduleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	scheduleRepo repository.DoctorScheduleRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
) DoctorScheduleUsecase {
	return &doctorScheduleUsecase{
		db:                db,
		log:               log,
		scheduleRepo:      scheduleRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
	}
}

// CreateSchedule declares an availability window for a doctor. Overlapping
// windows on the same date are rejected so the availability check never has
// to disambiguate between windows.
func (u *doctorScheduleUsecase) CreateSchedule(ctx context.Context, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	date, startTime, endTime, err := parseScheduleWindow(req.ScheduleDate, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	doctor, err := u.doctorProfileRepo.FindByUserID(u.db.WithContext(ctx), req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	existing, err := u.scheduleRepo.FindByDoctorAndDate(u.db.WithContext(ctx), req.DoctorID, date)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if windowsOverlap(startTime, endTime, existing[i].StartTime, existing[i].EndTime) {
			return nil, ErrScheduleOverlapping
		}
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	schedule := &entity.DoctorSchedule{
		DoctorID:     req.DoctorID,
		ScheduleDate: date,
		StartTime:    startTime,
		EndTime:      endTime,
	}

	if err := u.scheduleRepo.Create(tx, schedule); err != nil {
		u.log.Warnf("Failed to create schedule: %+v", err)
		return nil, err
	}

	actor := actorFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, tx, actor, entity.AuditActionScheduleCreate, "doctor_schedule", strconv.Itoa(schedule.ID), schedule); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.ScheduleToResponse(schedule), nil
}

func (u *doctorScheduleUsecase) UpdateSchedule(ctx context.Context, scheduleID int, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	schedule, err := u.scheduleRepo.FindByID(u.db.WithContext(ctx), scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find schedule %d: %+v", scheduleID, err)
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	old := *schedule

	dateStr := schedule.ScheduleDate.Format("2006-01-02")
	if req.ScheduleDate != "" {
		dateStr = req.ScheduleDate
	}
	startTime := schedule.StartTime
	if req.StartTime != "" {
		startTime = req.StartTime
	}
	endTime := schedule.EndTime
	if req.EndTime != "" {
		endTime = req.EndTime
	}

	date, startTime, endTime, err := parseScheduleWindow(dateStr, startTime, endTime)
	if err != nil {
		return nil, err
	}

	existing, err := u.scheduleRepo.FindByDoctorAndDate(u.db.WithContext(ctx), schedule.DoctorID, date)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].ID == schedule.ID {
			continue
		}
		if windowsOverlap(startTime, endTime, existing[i].StartTime, existing[i].EndTime) {
			return nil, ErrScheduleOverlapping
		}
	}

	schedule.ScheduleDate = date
	schedule.StartTime = startTime
	schedule.EndTime = endTime

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.scheduleRepo.Update(tx, schedule); err != nil {
		u.log.Warnf("Failed to update schedule %d: %+v", scheduleID, err)
		return nil, err
	}

	actor := actorFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, actor, entity.AuditActionScheduleUpdate, "doctor_schedule", strconv.Itoa(schedule.ID), old, schedule); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.ScheduleToResponse(schedule), nil
}

func (u *doctorScheduleUsecase) GetScheduleByID(ctx context.Context, scheduleID int) (*dto.ScheduleResponse, error) {
	schedule, err := u.scheduleRepo.FindByID(u.db.WithContext(ctx), scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find schedule %d: %+v", scheduleID, err)
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	return converter.ScheduleToResponse(schedule), nil
}

func (u *doctorScheduleUsecase) GetSchedulesByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.ScheduleListResponse, error) {
	schedules, err := u.scheduleRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find schedules for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return &dto.ScheduleListResponse{
		Schedules: converter.SchedulesToResponses(schedules),
		Total:     len(schedules),
	}, nil
}

// ListSchedules returns windows belonging to active doctors, optionally
// narrowed by date range, doctor name, or specialization.
func (u *doctorScheduleUsecase) ListSchedules(ctx context.Context, req *dto.ScheduleFilterRequest) (*dto.ScheduleListResponse, error) {
	filter := &entity.ScheduleFilter{}
	if req != nil {
		if req.StartAt != "" {
			if _, err := time.Parse("2006-01-02", req.StartAt); err != nil {
				return nil, ErrInvalidDateFormat
			}
			filter.StartAt = req.StartAt
		}
		if req.EndAt != "" {
			if _, err := time.Parse("2006-01-02", req.EndAt); err != nil {
				return nil, ErrInvalidDateFormat
			}
			filter.EndAt = req.EndAt
		}
		filter.DoctorName = req.DoctorName
		filter.Specialization = req.Specialization
	}

	schedules, err := u.scheduleRepo.FindAllWithActiveDoctor(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list schedules: %+v", err)
		return nil, err
	}

	return &dto.ScheduleListResponse{
		Schedules: converter.SchedulesToResponses(schedules),
		Total:     len(schedules),
	}, nil
}

func (u *doctorScheduleUsecase) DeleteSchedule(ctx context.Context, scheduleID int) error {
	schedule, err := u.scheduleRepo.FindByID(u.db.WithContext(ctx), scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find schedule %d: %+v", scheduleID, err)
		return err
	}
	if schedule == nil {
		return ErrScheduleNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.scheduleRepo.Delete(tx, scheduleID)
	if err != nil {
		u.log.Warnf("Failed to delete schedule %d: %+v", scheduleID, err)
		return err
	}
	if rows == 0 {
		return ErrScheduleNotFound
	}

	actor := actorFromContext(ctx)
	if err := u.auditService.LogDelete(ctx, tx, actor, entity.AuditActionScheduleDelete, "doctor_schedule", strconv.Itoa(scheduleID), schedule); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

// parseScheduleWindow validates the window fields together: parseable date,
// well-formed HH:MM bounds, start strictly before end.
func parseScheduleWindow(dateStr, startTime, endTime string) (time.Time, string, string, error) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, "", "", ErrInvalidDateFormat
	}
	if _, err := time.Parse("15:04", startTime); err != nil {
		return time.Time{}, "", "", ErrInvalidTimeFormat
	}
	if _, err := time.Parse("15:04", endTime); err != nil {
		return time.Time{}, "", "", ErrInvalidTimeFormat
	}
	if startTime >= endTime {
		return time.Time{}, "", "", ErrInvalidTimeWindow
	}
	return date, startTime, endTime, nil
}

// windowsOverlap reports whether two half-open HH:MM windows intersect
func windowsOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}
