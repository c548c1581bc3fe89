package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"clinic-care/internal/delivery/dto"
	"clinic-care/internal/usecase"
	"clinic-care/pkg/response"
	"clinic-care/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type DoctorScheduleHandler struct {
	scheduleUsecase usecase.DoctorScheduleUsecase
	validator       *validator.CustomValidator
}

func NewDoctorScheduleHandler(scheduleUsecase usecase.DoctorScheduleUsecase, validator *validator.CustomValidator) *DoctorScheduleHandler {
	return &DoctorScheduleHandler{
		scheduleUsecase: scheduleUsecase,
		validator:       validator,
	}
}

func (h *DoctorScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleUsecase.CreateSchedule(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrScheduleOverlapping:
			response.Conflict(w, "Schedule overlaps an existing window")
		case usecase.ErrInvalidDateFormat, usecase.ErrInvalidTimeFormat, usecase.ErrInvalidTimeWindow:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to create schedule")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Schedule created successfully", schedule)
}

func (h *DoctorScheduleHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	scheduleID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid schedule ID", nil)
		return
	}

	var req dto.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleUsecase.UpdateSchedule(r.Context(), scheduleID, &req)
	if err != nil {
		switch err {
		case usecase.ErrScheduleNotFound:
			response.NotFound(w, "Schedule not found")
		case usecase.ErrScheduleOverlapping:
			response.Conflict(w, "Schedule overlaps an existing window")
		case usecase.ErrInvalidDateFormat, usecase.ErrInvalidTimeFormat, usecase.ErrInvalidTimeWindow:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to update schedule")
		}
		return
	}

	response.Success(w, http.StatusOK, "Schedule updated successfully", schedule)
}

func (h *DoctorScheduleHandler) GetScheduleByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	scheduleID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid schedule ID", nil)
		return
	}

	schedule, err := h.scheduleUsecase.GetScheduleByID(r.Context(), scheduleID)
	if err != nil {
		switch err {
		case usecase.ErrScheduleNotFound:
			response.NotFound(w, "Schedule not found")
		default:
			response.InternalServerError(w, "Failed to get schedule")
		}
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", schedule)
}

func (h *DoctorScheduleHandler) GetSchedulesByDoctor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	schedules, err := h.scheduleUsecase.GetSchedulesByDoctor(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to get schedules")
		return
	}

	response.Success(w, http.StatusOK, "Schedules retrieved successfully", schedules)
}

// ListSchedules supports start_at, end_at, doctor_name, and specialization
// query params
func (h *DoctorScheduleHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := dto.ScheduleFilterRequest{
		StartAt:        query.Get("start_at"),
		EndAt:          query.Get("end_at"),
		DoctorName:     query.Get("doctor_name"),
		Specialization: query.Get("specialization"),
	}

	schedules, err := h.scheduleUsecase.ListSchedules(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to list schedules")
		}
		return
	}

	response.Success(w, http.StatusOK, "Schedules retrieved successfully", schedules)
}

func (h *DoctorScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	scheduleID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid schedule ID", nil)
		return
	}

	if err := h.scheduleUsecase.DeleteSchedule(r.Context(), scheduleID); err != nil {
		switch err {
		case usecase.ErrScheduleNotFound:
			response.NotFound(w, "Schedule not found")
		default:
			response.InternalServerError(w, "Failed to delete schedule")
		}
		return
	}

	response.Success(w, http.StatusOK, "Schedule deleted successfully", nil)
}
