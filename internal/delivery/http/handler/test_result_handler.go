package handler

import (
	"encoding/json"
	"net/http"

	"clinic-care/internal/delivery/dto"
	"clinic-care/internal/usecase"
	"clinic-care/pkg/response"
	"clinic-care/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type TestResultHandler struct {
	testResultUsecase usecase.TestResultUsecase
	validator         *validator.CustomValidator
}

func NewTestResultHandler(testResultUsecase usecase.TestResultUsecase, validator *validator.CustomValidator) *TestResultHandler {
	return &TestResultHandler{
		testResultUsecase: testResultUsecase,
		validator:         validator,
	}
}

func (h *TestResultHandler) CreateTestResult(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTestResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.testResultUsecase.CreateTestResult(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrTestTypeNotFound:
			response.NotFound(w, "Test type not found")
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrAppointmentAlreadyHasTest:
			response.Conflict(w, "Appointment already has a test result")
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to create test result")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Test result created successfully", result)
}

func (h *TestResultHandler) UpdateTestResult(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	resultID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid test result ID", nil)
		return
	}

	var req dto.UpdateTestResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.testResultUsecase.UpdateTestResult(r.Context(), resultID, &req)
	if err != nil {
		switch err {
		case usecase.ErrTestResultNotFound:
			response.NotFound(w, "Test result not found")
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to update test result")
		}
		return
	}

	response.Success(w, http.StatusOK, "Test result updated successfully", result)
}

func (h *TestResultHandler) GetTestResultByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	resultID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid test result ID", nil)
		return
	}

	result, err := h.testResultUsecase.GetTestResultByID(r.Context(), resultID)
	if err != nil {
		switch err {
		case usecase.ErrTestResultNotFound:
			response.NotFound(w, "Test result not found")
		default:
			response.InternalServerError(w, "Failed to get test result")
		}
		return
	}

	response.Success(w, http.StatusOK, "Test result retrieved successfully", result)
}

func (h *TestResultHandler) GetTestResultsByPatient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	results, err := h.testResultUsecase.GetTestResultsByPatient(r.Context(), patientID)
	if err != nil {
		response.InternalServerError(w, "Failed to get test results")
		return
	}

	response.Success(w, http.StatusOK, "Test results retrieved successfully", results)
}

func (h *TestResultHandler) GetAllTestResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.testResultUsecase.GetAllTestResults(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get test results")
		return
	}

	response.Success(w, http.StatusOK, "Test results retrieved successfully", results)
}

func (h *TestResultHandler) DeleteTestResult(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	resultID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid test result ID", nil)
		return
	}

	if err := h.testResultUsecase.DeleteTestResult(r.Context(), resultID); err != nil {
		switch err {
		case usecase.ErrTestResultNotFound:
			response.NotFound(w, "Test result not found")
		default:
			response.InternalServerError(w, "Failed to delete test result")
		}
		return
	}

	response.Success(w, http.StatusOK, "Test result deleted successfully", nil)
}
