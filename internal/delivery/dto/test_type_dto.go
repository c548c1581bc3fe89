package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateTestTypeRequest struct {
	Name        string          `json:"name" validate:"required,min=2"`
	Description string          `json:"description" validate:"omitempty"`
	Price       decimal.Decimal `json:"price" validate:"required"`
}

type UpdateTestTypeRequest struct {
	Name        string          `json:"name" validate:"required,min=2"`
	Description string          `json:"description" validate:"omitempty"`
	Price       decimal.Decimal `json:"price" validate:"required"`
}

// Response DTOs

type TestTypeListResponse struct {
	TestTypes []TestTypeResponse `json:"test_types"`
	Meta      PaginationMeta     `json:"meta"`
}

type TestTypeResponse struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
