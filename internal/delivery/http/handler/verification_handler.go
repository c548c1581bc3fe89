package handler

import (
	"encoding/json"
	"net/http"

	"clinic-care/internal/delivery/dto"
	"clinic-care/internal/usecase"
	"clinic-care/pkg/response"
	"clinic-care/pkg/validator"
)

type VerificationHandler struct {
	verificationUsecase usecase.VerificationUsecase
	validator           *validator.CustomValidator
}

func NewVerificationHandler(verificationUsecase usecase.VerificationUsecase, validator *validator.CustomValidator) *VerificationHandler {
	return &VerificationHandler{
		verificationUsecase: verificationUsecase,
		validator:           validator,
	}
}

func (h *VerificationHandler) SendVerificationEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.SendVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.verificationUsecase.SendVerificationEmail(r.Context(), &req); err != nil {
		switch err {
		case usecase.ErrUserNotFound:
			response.NotFound(w, "User not found")
		case usecase.ErrUserAlreadyVerified:
			response.Conflict(w, "Account is already verified")
		default:
			response.InternalServerError(w, "Failed to send verification email")
		}
		return
	}

	response.Success(w, http.StatusOK, "Verification email sent", nil)
}

func (h *VerificationHandler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.verificationUsecase.VerifyUser(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrUserNotFound:
			response.NotFound(w, "User not found")
		case usecase.ErrInvalidVerificationCode:
			response.Error(w, http.StatusBadRequest, "Invalid or expired verification code", nil)
		default:
			response.InternalServerError(w, "Failed to verify account")
		}
		return
	}

	response.Success(w, http.StatusOK, "Account verified successfully", user)
}

func (h *VerificationHandler) SendForgotPasswordEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.verificationUsecase.SendForgotPasswordEmail(r.Context(), &req); err != nil {
		switch err {
		case usecase.ErrUserNotFound:
			response.NotFound(w, "User not found")
		default:
			response.InternalServerError(w, "Failed to send password reset email")
		}
		return
	}

	response.Success(w, http.StatusOK, "Password reset email sent", nil)
}

func (h *VerificationHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.verificationUsecase.ResetPassword(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrUserNotFound:
			response.NotFound(w, "User not found")
		case usecase.ErrInvalidVerificationCode:
			response.Error(w, http.StatusBadRequest, "Invalid or expired reset code", nil)
		default:
			response.InternalServerError(w, "Failed to reset password")
		}
		return
	}

	response.Success(w, http.StatusOK, "Password reset successfully", result)
}
