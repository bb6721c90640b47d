package awmodel

import "time"

const (
	ItemStatusPending  = "pending"
	ItemStatusAccepted = "accepted"
	ItemStatusRejected = "rejected"
)

// MaxItemAttachments is the number of attachment slots the acceptance
// endpoint exposes. Anything past this is refused.
const MaxItemAttachments = 2

type TransferItem struct {
	ID                  int                  `json:"id"`
	TransferID          int                  `json:"transfer_id"`
	AssetID             int                  `json:"asset_id"`
	Asset               *Asset               `json:"asset,omitempty" gorm:"foreignKey:AssetID;references:ID"`
	Status              string               `json:"status"`
	EffectiveDate       *time.Time           `json:"effective_date"`
	CurrentOwnerID      int                  `json:"current_owner_id"`
	NewOwnerID          int                  `json:"new_owner_id"`
	CurrentCostCenterID int                  `json:"current_cost_center_id"`
	NewCostCenterID     int                  `json:"new_cost_center_id"`
	CurrentDepartmentID int                  `json:"current_department_id"`
	NewDepartmentID     int                  `json:"new_department_id"`
	CurrentLocationID   int                  `json:"current_location_id"`
	NewLocationID       int                  `json:"new_location_id"`
	AcceptanceBy        string               `json:"acceptance_by"`
	AcceptanceAt        *time.Time           `json:"acceptance_at"`
	AcceptanceRemarks   string               `json:"acceptance_remarks"`
	Attachments         []TransferAttachment `json:"attachments" gorm:"foreignKey:TransferItemID;references:ID"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

func (TransferItem) TableName() string {
	return "transfer_items"
}

func (i TransferItem) IsPending() bool {
	return i.Status == ItemStatusPending
}

type TransferAttachment struct {
	ID             int       `json:"id"`
	TransferItemID int       `json:"transfer_item_id"`
	Name           string    `json:"name"`
	Path           string    `json:"path"`
	Size           int64     `json:"size"`
	CreatedAt      time.Time `json:"created_at"`
}

func (TransferAttachment) TableName() string {
	return "transfer_attachments"
}
