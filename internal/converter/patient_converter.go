package converter

import (
	"clinic-care/internal/delivery/dto"
	"clinic-care/internal/domain/entity"
)

// PatientToResponse converts a PatientProfile entity (with preloaded User)
// to PatientResponse DTO
func PatientToResponse(profile *entity.PatientProfile) *dto.PatientResponse {
	if profile == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:          profile.UserID,
		Email:       profile.User.Email,
		FullName:    profile.User.FullName,
		NIK:         profile.NIK,
		PhoneNumber: profile.PhoneNumber,
		DateOfBirth: profile.DateOfBirth.Format("2006-01-02"),
		Gender:      profile.Gender,
		Address:     profile.Address,
	}
}

// PatientsToResponses converts a slice of PatientProfile entities
func PatientsToResponses(profiles []entity.PatientProfile) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(profiles))
	for i, profile := range profiles {
		resp := PatientToResponse(&profile)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
