package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TestResult is a lab result for a patient, optionally linked to the
// appointment it was ordered at. The appointment link is unique: one
// appointment can carry at most one result.
type TestResult struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"doctor_id"`
	TestTypeID     int             `gorm:"not null;index" json:"test_type_id"`
	AppointmentID  *uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"appointment_id,omitempty"`
	Value          decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"value"`
	Unit           string          `gorm:"type:varchar(50)" json:"unit,omitempty"`
	ReferenceRange string          `gorm:"type:varchar(100)" json:"reference_range,omitempty"`
	Notes          string          `gorm:"type:text" json:"notes,omitempty"`
	ResultDate     time.Time       `gorm:"type:date;not null" json:"result_date"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient     PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor      DoctorProfile  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	TestType    TestType       `gorm:"foreignKey:TestTypeID" json:"test_type,omitempty"`
	Appointment *Appointment   `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
}

func (TestResult) TableName() string {
	return "test_results"
}
