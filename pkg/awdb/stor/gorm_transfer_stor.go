package stor

import (
	"time"

	"github.com/assetworks/gantry/pkg/awdb/awmodel"
	"github.com/hashicorp/go-uuid"
	"gorm.io/gorm"
)

type GormTransferStor struct {
	db *gorm.DB
}

func NewGormTransferStor(db *gorm.DB) *GormTransferStor {
	return &GormTransferStor{db: db}
}

func (s *GormTransferStor) CreateTransfer(transfer *awmodel.Transfer, items []awmodel.TransferItem) (*awmodel.Transfer, error) {
	var err error

	if transfer.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	transfer.Status = awmodel.TransferStatusPending
	transfer.TotalItems = len(items)

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(transfer).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].TransferID = transfer.ID
			items[i].Status = awmodel.ItemStatusPending
		}

		return tx.Create(&items).Error
	})

	if err != nil {
		return nil, err
	}

	transfer.Items = items
	return transfer, nil
}

func (s *GormTransferStor) GetTransferByID(transferID int) (*awmodel.Transfer, error) {
	var transfer awmodel.Transfer

	err := s.db.Preload("RequestedBy").
		Preload("Items").
		Preload("Items.Asset").
		Preload("Items.Attachments").
		Where("id = ?", transferID).
		First(&transfer).Error
	if err != nil {
		return nil, err
	}

	return &transfer, nil
}

// ListPendingTransfersForNewOwner returns approved transfers that still have
// pending items addressed to the given user. Only those pending items are
// loaded; items already dispositioned never show up in an actionable list.
func (s *GormTransferStor) ListPendingTransfersForNewOwner(newOwnerID int) ([]awmodel.Transfer, error) {
	var transfers []awmodel.Transfer

	pendingItems := s.db.Model(&awmodel.TransferItem{}).
		Select("transfer_id").
		Where("new_owner_id = ? and status = ?", newOwnerID, awmodel.ItemStatusPending)

	err := s.db.Where("status = ?", awmodel.TransferStatusApproved).
		Where("id in (?)", pendingItems).
		Preload("RequestedBy").
		Preload("Items", "new_owner_id = ? and status = ?", newOwnerID, awmodel.ItemStatusPending).
		Preload("Items.Asset").
		Preload("Items.Attachments").
		Find(&transfers).Error

	return transfers, err
}

func (s *GormTransferStor) ListTransfersForDepartment(departmentID int, status string) ([]awmodel.Transfer, error) {
	var transfers []awmodel.Transfer

	departmentItems := s.db.Model(&awmodel.TransferItem{}).
		Select("transfer_id").
		Where("current_department_id = ?", departmentID)

	err := s.db.Where("status = ?", status).
		Where("id in (?)", departmentItems).
		Preload("RequestedBy").
		Preload("Items").
		Preload("Items.Asset").
		Preload("Items.Attachments").
		Find(&transfers).Error

	return transfers, err
}

func (s *GormTransferStor) SetTransfersStatus(transferIDs []int, status, approvedBy string, approvedAt time.Time, remarks string) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		result := tx.Model(&awmodel.Transfer{}).
			Where("id in ? and status = ?", transferIDs, awmodel.TransferStatusPending).
			Updates(map[string]interface{}{
				"status":      status,
				"approved_by": approvedBy,
				"approved_at": approvedAt,
				"remarks":     remarks,
			})

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrNoMatchingTransfers
		}

		return nil
	})
}

// DisposeItems marks the given pending items as accepted or rejected. Once a
// transfer has no pending items left its parent status flips to a terminal
// state so it drops out of every actionable list: accepted when at least one
// item was accepted, rejected when every item was rejected.
func (s *GormTransferStor) DisposeItems(transferID int, itemIDs []int, disposition ItemDisposition) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		result := tx.Model(&awmodel.TransferItem{}).
			Where("transfer_id = ? and id in ? and status = ?", transferID, itemIDs, awmodel.ItemStatusPending).
			Updates(map[string]interface{}{
				"status":             disposition.Status,
				"acceptance_by":      disposition.By,
				"acceptance_at":      disposition.At,
				"acceptance_remarks": disposition.Remarks,
			})

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrNoMatchingItems
		}

		var pendingCount int64
		err := tx.Model(&awmodel.TransferItem{}).
			Where("transfer_id = ? and status = ?", transferID, awmodel.ItemStatusPending).
			Count(&pendingCount).Error
		if err != nil {
			return err
		}

		if pendingCount != 0 {
			return nil
		}

		var acceptedCount int64
		err = tx.Model(&awmodel.TransferItem{}).
			Where("transfer_id = ? and status = ?", transferID, awmodel.ItemStatusAccepted).
			Count(&acceptedCount).Error
		if err != nil {
			return err
		}

		finalStatus := awmodel.TransferStatusAccepted
		if acceptedCount == 0 {
			finalStatus = awmodel.TransferStatusRejected
		}

		return tx.Model(&awmodel.Transfer{}).
			Where("id = ?", transferID).
			Update("status", finalStatus).Error
	})
}

func (s *GormTransferStor) AddItemAttachment(itemID int, attachment *awmodel.TransferAttachment) (*awmodel.TransferAttachment, error) {
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&awmodel.TransferAttachment{}).
			Where("transfer_item_id = ?", itemID).
			Count(&count).Error
		if err != nil {
			return err
		}

		if count >= awmodel.MaxItemAttachments {
			return ErrTooManyAttachments
		}

		attachment.TransferItemID = itemID
		return tx.Create(attachment).Error
	})

	if err != nil {
		return nil, err
	}

	return attachment, nil
}
