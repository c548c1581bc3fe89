package converter

import (
	"clinic-care/internal/delivery/dto"
	"clinic-care/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse
// DTO. Doctor and patient are included when their relations are preloaded.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:              appointment.ID,
		DoctorID:        appointment.DoctorID,
		PatientID:       appointment.PatientID,
		AppointmentDate: appointment.AppointmentDate.Format("2006-01-02"),
		AppointmentTime: appointment.AppointmentTime,
		Status:          string(appointment.Status),
		Type:            string(appointment.Type),
		Notes:           appointment.Notes,
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}

	if appointment.Doctor.UserID != uuid.Nil {
		response.Doctor = DoctorToResponse(&appointment.Doctor)
	}
	if appointment.Patient.UserID != uuid.Nil {
		response.Patient = PatientToResponse(&appointment.Patient)
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		resp := AppointmentToResponse(&appointment)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
