package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"clinic-care/internal/delivery/dto"
	"clinic-care/internal/usecase"
	"clinic-care/pkg/response"
	"clinic-care/pkg/validator"

	"github.com/gorilla/mux"
)

type TestTypeHandler struct {
	testTypeUsecase usecase.TestTypeUsecase
	validator       *validator.CustomValidator
}

func NewTestTypeHandler(testTypeUsecase usecase.TestTypeUsecase, validator *validator.CustomValidator) *TestTypeHandler {
	return &TestTypeHandler{
		testTypeUsecase: testTypeUsecase,
		validator:       validator,
	}
}

func (h *TestTypeHandler) CreateTestType(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTestTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	testType, err := h.testTypeUsecase.CreateTestType(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrTestTypeNameExists:
			response.Conflict(w, "Test type name already exists")
		default:
			response.InternalServerError(w, "Failed to create test type")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Test type created successfully", testType)
}

func (h *TestTypeHandler) UpdateTestType(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	testTypeID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid test type ID", nil)
		return
	}

	var req dto.UpdateTestTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	testType, err := h.testTypeUsecase.UpdateTestType(r.Context(), testTypeID, &req)
	if err != nil {
		switch err {
		case usecase.ErrTestTypeNotFound:
			response.NotFound(w, "Test type not found")
		case usecase.ErrTestTypeNameExists:
			response.Conflict(w, "Test type name already exists")
		default:
			response.InternalServerError(w, "Failed to update test type")
		}
		return
	}

	response.Success(w, http.StatusOK, "Test type updated successfully", testType)
}

func (h *TestTypeHandler) GetTestTypeByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	testTypeID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid test type ID", nil)
		return
	}

	testType, err := h.testTypeUsecase.GetTestTypeByID(r.Context(), testTypeID)
	if err != nil {
		switch err {
		case usecase.ErrTestTypeNotFound:
			response.NotFound(w, "Test type not found")
		default:
			response.InternalServerError(w, "Failed to get test type")
		}
		return
	}

	response.Success(w, http.StatusOK, "Test type retrieved successfully", testType)
}

func (h *TestTypeHandler) ListTestTypes(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	testTypes, err := h.testTypeUsecase.ListTestTypes(r.Context(), page, pageSize)
	if err != nil {
		response.InternalServerError(w, "Failed to list test types")
		return
	}

	response.Success(w, http.StatusOK, "Test types retrieved successfully", testTypes)
}

func (h *TestTypeHandler) DeleteTestType(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	testTypeID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid test type ID", nil)
		return
	}

	if err := h.testTypeUsecase.DeleteTestType(r.Context(), testTypeID); err != nil {
		switch err {
		case usecase.ErrTestTypeNotFound:
			response.NotFound(w, "Test type not found")
		default:
			response.InternalServerError(w, "Failed to delete test type")
		}
		return
	}

	response.Success(w, http.StatusOK, "Test type deleted successfully", nil)
}
