package awmodel

import (
	"time"

	"github.com/shopspring/decimal"
)

type Asset struct {
	ID              int             `json:"id"`
	UUID            string          `json:"uuid"`
	RegisterNo      string          `json:"register_no"`
	Slug            string          `json:"slug" gorm:"uniqueIndex"`
	Type            string          `json:"type"`
	Category        string          `json:"category"`
	Description     string          `json:"description"`
	AcquisitionCost decimal.Decimal `json:"acquisition_cost" gorm:"type:decimal(14,2)"`
	AcquiredAt      time.Time       `json:"acquired_at"`
	OwnerID         int             `json:"owner_id"`
	Owner           *User           `json:"owner,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
	CostCenterID    int             `json:"cost_center_id"`
	DepartmentID    int             `json:"department_id"`
	LocationID      int             `json:"location_id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (Asset) TableName() string {
	return "assets"
}
