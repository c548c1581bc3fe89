package converter

import (
	"clinic-care/internal/delivery/dto"
	"clinic-care/internal/domain/entity"

	"github.com/google/uuid"
)

// TestTypeToResponse converts a TestType entity to TestTypeResponse DTO
func TestTypeToResponse(testType *entity.TestType) *dto.TestTypeResponse {
	if testType == nil {
		return nil
	}

	return &dto.TestTypeResponse{
		ID:          testType.ID,
		Name:        testType.Name,
		Description: testType.Description,
		Price:       testType.Price,
		CreatedAt:   testType.CreatedAt,
		UpdatedAt:   testType.UpdatedAt,
	}
}

// TestResultToResponse converts a TestResult entity to TestResultResponse
// DTO with whatever relations were preloaded attached.
func TestResultToResponse(result *entity.TestResult) *dto.TestResultResponse {
	if result == nil {
		return nil
	}

	response := &dto.TestResultResponse{
		ID:             result.ID,
		PatientID:      result.PatientID,
		DoctorID:       result.DoctorID,
		TestTypeID:     result.TestTypeID,
		AppointmentID:  result.AppointmentID,
		Value:          result.Value,
		Unit:           result.Unit,
		ReferenceRange: result.ReferenceRange,
		Notes:          result.Notes,
		ResultDate:     result.ResultDate.Format("2006-01-02"),
		CreatedAt:      result.CreatedAt,
		UpdatedAt:      result.UpdatedAt,
	}

	if result.TestType.ID != 0 {
		response.TestType = TestTypeToResponse(&result.TestType)
	}
	if result.Patient.UserID != uuid.Nil {
		response.Patient = PatientToResponse(&result.Patient)
	}
	if result.Doctor.UserID != uuid.Nil {
		response.Doctor = DoctorToResponse(&result.Doctor)
	}
	if result.Appointment != nil {
		response.Appointment = AppointmentToResponse(result.Appointment)
	}

	return response
}

// TestResultsToResponses converts a slice of TestResult entities
func TestResultsToResponses(results []entity.TestResult) []dto.TestResultResponse {
	responses := make([]dto.TestResultResponse, len(results))
	for i, result := range results {
		resp := TestResultToResponse(&result)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
