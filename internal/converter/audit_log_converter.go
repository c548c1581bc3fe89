package converter

import (
	"clinic-care/internal/delivery/dto"
	"clinic-care/internal/domain/entity"
)

// AuditLogToResponse converts an AuditLog entity to AuditLogResponse DTO
func AuditLogToResponse(auditLog *entity.AuditLog) *dto.AuditLogResponse {
	if auditLog == nil {
		return nil
	}

	response := &dto.AuditLogResponse{
		ID:        auditLog.ID,
		UserID:    auditLog.UserID,
		Action:    auditLog.Action,
		Metadata:  auditLog.Metadata,
		CreatedAt: auditLog.CreatedAt,
	}

	if auditLog.User != nil {
		response.UserEmail = auditLog.User.Email
	}

	return response
}

// AuditLogsToResponses converts a slice of AuditLog entities
func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, len(logs))
	for i, auditLog := range logs {
		resp := AuditLogToResponse(&auditLog)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
