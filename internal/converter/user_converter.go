package converter

import (
	"clinic-care/internal/delivery/dto"
	"clinic-care/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// Includes DoctorProfile and PatientProfile if they are loaded.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		FullName:   user.FullName,
		Role:       user.Role.RoleName,
		IsVerified: user.Verified(),
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}

	if user.DoctorProfile != nil {
		response.DoctorProfile = &dto.DoctorProfileResponse{
			STRNumber:      user.DoctorProfile.STRNumber,
			Specialization: user.DoctorProfile.Specialization,
			Biography:      user.DoctorProfile.Biography,
		}
	}

	if user.PatientProfile != nil {
		response.PatientProfile = &dto.PatientProfileResponse{
			UserID:      user.PatientProfile.UserID,
			NIK:         user.PatientProfile.NIK,
			PhoneNumber: user.PatientProfile.PhoneNumber,
			DateOfBirth: user.PatientProfile.DateOfBirth.Format("2006-01-02"),
			Gender:      user.PatientProfile.Gender,
			Address:     user.PatientProfile.Address,
		}
	}

	return response
}
