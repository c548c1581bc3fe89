package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TestType is a catalog entry describing a kind of lab test
type TestType struct {
	ID          int             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	TestResults []TestResult `gorm:"foreignKey:TestTypeID" json:"test_results,omitempty"`
}

func (TestType) TableName() string {
	return "test_types"
}
