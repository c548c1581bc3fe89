package converter

import (
	"clinic-care/internal/delivery/dto"
	"clinic-care/internal/domain/entity"
)

// DoctorToResponse converts a DoctorProfile entity (with preloaded User)
// to DoctorResponse DTO
func DoctorToResponse(profile *entity.DoctorProfile) *dto.DoctorResponse {
	if profile == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:             profile.UserID,
		Email:          profile.User.Email,
		FullName:       profile.User.FullName,
		STRNumber:      profile.STRNumber,
		Specialization: profile.Specialization,
		Biography:      profile.Biography,
		IsActive:       profile.User.IsActive,
	}
}

// DoctorsToResponses converts a slice of DoctorProfile entities
func DoctorsToResponses(profiles []entity.DoctorProfile) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(profiles))
	for i, profile := range profiles {
		resp := DoctorToResponse(&profile)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
