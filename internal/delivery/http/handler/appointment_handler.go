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

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.CreateAppointment(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrDoctorNotAvailable:
			response.Conflict(w, "Doctor is not available at the requested time")
		case usecase.ErrSlotTaken:
			response.Conflict(w, "Doctor already has an appointment at the requested time")
		case usecase.ErrInvalidDateFormat, usecase.ErrInvalidTimeFormat, usecase.ErrInvalidAppointmentType:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to create appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.UpdateAppointment(r.Context(), appointmentID, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrDoctorNotAvailable:
			response.Conflict(w, "Doctor is not available at the requested time")
		case usecase.ErrSlotTaken:
			response.Conflict(w, "Doctor already has an appointment at the requested time")
		case usecase.ErrInvalidAppointmentStatus, usecase.ErrInvalidAppointmentType,
			usecase.ErrInvalidDateFormat, usecase.ErrInvalidTimeFormat:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to update appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}

func (h *AppointmentHandler) GetAppointmentByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointmentByID(r.Context(), appointmentID)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		default:
			response.InternalServerError(w, "Failed to get appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) GetAppointmentsByPatient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	appointments, err := h.appointmentUsecase.GetAppointmentsByPatient(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetAppointmentsByDoctor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	appointments, err := h.appointmentUsecase.GetAppointmentsByDoctor(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// GetAvailableDoctors expects date (YYYY-MM-DD) and time (HH:MM) query params
func (h *AppointmentHandler) GetAvailableDoctors(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	timeOfDay := r.URL.Query().Get("time")
	if date == "" || timeOfDay == "" {
		response.Error(w, http.StatusBadRequest, "date and time query parameters are required", nil)
		return
	}

	doctors, err := h.appointmentUsecase.GetAvailableDoctors(r.Context(), date, timeOfDay)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateFormat, usecase.ErrInvalidTimeFormat:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to get available doctors")
		}
		return
	}

	response.Success(w, http.StatusOK, "Available doctors retrieved successfully", doctors)
}

// GetScheduledAppointments supports page and page_size query params. Out of
// range values fall back to defaults instead of failing.
func (h *AppointmentHandler) GetScheduledAppointments(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	appointments, err := h.appointmentUsecase.GetScheduledAppointments(r.Context(), page, pageSize)
	if err != nil {
		response.InternalServerError(w, "Failed to get scheduled appointments")
		return
	}

	response.Success(w, http.StatusOK, "Scheduled appointments retrieved successfully", appointments)
}
