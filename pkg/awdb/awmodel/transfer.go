package awmodel

import "time"

// Transfer statuses. A transfer as a whole is approved or rejected by an
// approver; individual items are then accepted or rejected by the new owner.
const (
	TransferStatusPending  = "pending"
	TransferStatusApproved = "approved"
	TransferStatusRejected = "rejected"
	TransferStatusAccepted = "accepted"
)

type Transfer struct {
	ID            int            `json:"id"`
	UUID          string         `json:"uuid"`
	Status        string         `json:"status"`
	TransferDate  time.Time      `json:"transfer_date"`
	RequestedByID int            `json:"requested_by_id"`
	RequestedBy   *User          `json:"requested_by,omitempty" gorm:"foreignKey:RequestedByID;references:ID"`
	TotalItems    int            `json:"total_items"`
	ApprovedBy    string         `json:"approved_by"`
	ApprovedAt    *time.Time     `json:"approved_at"`
	Remarks       string         `json:"remarks"`
	Items         []TransferItem `json:"items" gorm:"foreignKey:TransferID;references:ID"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (Transfer) TableName() string {
	return "transfers"
}
