package stor

import (
	"time"

	"github.com/assetworks/gantry/pkg/awdb/awmodel"
	"github.com/hashicorp/go-uuid"
)

type InMemoryTransferStor struct {
	ErrToReturn error
	Transfers   []awmodel.Transfer
	lastID      int
}

func NewInMemoryTransferStor(transfers []awmodel.Transfer) *InMemoryTransferStor {
	return &InMemoryTransferStor{
		Transfers: transfers,
		lastID:    10000,
	}
}

func (s *InMemoryTransferStor) CreateTransfer(transfer *awmodel.Transfer, items []awmodel.TransferItem) (*awmodel.Transfer, error) {
	if s.ErrToReturn != nil {
		return nil, s.ErrToReturn
	}

	var err error
	if transfer.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	s.lastID = s.lastID + 1
	transfer.ID = s.lastID
	transfer.Status = awmodel.TransferStatusPending
	transfer.TotalItems = len(items)

	for i := range items {
		s.lastID = s.lastID + 1
		items[i].ID = s.lastID
		items[i].TransferID = transfer.ID
		items[i].Status = awmodel.ItemStatusPending
	}

	transfer.Items = items
	s.Transfers = append(s.Transfers, *transfer)

	return transfer, nil
}

func (s *InMemoryTransferStor) GetTransferByID(transferID int) (*awmodel.Transfer, error) {
	if s.ErrToReturn != nil {
		return nil, s.ErrToReturn
	}

	for i := range s.Transfers {
		if s.Transfers[i].ID == transferID {
			return &s.Transfers[i], nil
		}
	}

	return nil, ErrNoMatchingTransfers
}

func (s *InMemoryTransferStor) ListPendingTransfersForNewOwner(newOwnerID int) ([]awmodel.Transfer, error) {
	if s.ErrToReturn != nil {
		return nil, s.ErrToReturn
	}

	var transfers []awmodel.Transfer
	for _, t := range s.Transfers {
		if t.Status != awmodel.TransferStatusApproved {
			continue
		}

		var pending []awmodel.TransferItem
		for _, item := range t.Items {
			if item.NewOwnerID == newOwnerID && item.IsPending() {
				pending = append(pending, item)
			}
		}

		if len(pending) != 0 {
			t.Items = pending
			transfers = append(transfers, t)
		}
	}

	return transfers, nil
}

func (s *InMemoryTransferStor) ListTransfersForDepartment(departmentID int, status string) ([]awmodel.Transfer, error) {
	if s.ErrToReturn != nil {
		return nil, s.ErrToReturn
	}

	var transfers []awmodel.Transfer
	for _, t := range s.Transfers {
		if t.Status != status {
			continue
		}

		for _, item := range t.Items {
			if item.CurrentDepartmentID == departmentID {
				transfers = append(transfers, t)
				break
			}
		}
	}

	return transfers, nil
}

func (s *InMemoryTransferStor) SetTransfersStatus(transferIDs []int, status, approvedBy string, approvedAt time.Time, remarks string) error {
	if s.ErrToReturn != nil {
		return s.ErrToReturn
	}

	matched := 0
	for i := range s.Transfers {
		for _, id := range transferIDs {
			if s.Transfers[i].ID == id && s.Transfers[i].Status == awmodel.TransferStatusPending {
				s.Transfers[i].Status = status
				s.Transfers[i].ApprovedBy = approvedBy
				s.Transfers[i].ApprovedAt = &approvedAt
				s.Transfers[i].Remarks = remarks
				matched++
			}
		}
	}

	if matched == 0 {
		return ErrNoMatchingTransfers
	}

	return nil
}

func (s *InMemoryTransferStor) DisposeItems(transferID int, itemIDs []int, disposition ItemDisposition) error {
	if s.ErrToReturn != nil {
		return s.ErrToReturn
	}

	transfer, err := s.GetTransferByID(transferID)
	if err != nil {
		return err
	}

	matched := 0
	pending := 0
	accepted := 0
	for i := range transfer.Items {
		item := &transfer.Items[i]
		for _, id := range itemIDs {
			if item.ID == id && item.IsPending() {
				item.Status = disposition.Status
				item.AcceptanceBy = disposition.By
				at := disposition.At
				item.AcceptanceAt = &at
				item.AcceptanceRemarks = disposition.Remarks
				matched++
			}
		}

		if item.IsPending() {
			pending++
		}
		if item.Status == awmodel.ItemStatusAccepted {
			accepted++
		}
	}

	if matched == 0 {
		return ErrNoMatchingItems
	}

	if pending == 0 {
		transfer.Status = awmodel.TransferStatusAccepted
		if accepted == 0 {
			transfer.Status = awmodel.TransferStatusRejected
		}
	}

	return nil
}

func (s *InMemoryTransferStor) AddItemAttachment(itemID int, attachment *awmodel.TransferAttachment) (*awmodel.TransferAttachment, error) {
	if s.ErrToReturn != nil {
		return nil, s.ErrToReturn
	}

	for i := range s.Transfers {
		for j := range s.Transfers[i].Items {
			item := &s.Transfers[i].Items[j]
			if item.ID != itemID {
				continue
			}

			if len(item.Attachments) >= awmodel.MaxItemAttachments {
				return nil, ErrTooManyAttachments
			}

			s.lastID = s.lastID + 1
			attachment.ID = s.lastID
			attachment.TransferItemID = itemID
			item.Attachments = append(item.Attachments, *attachment)
			return attachment, nil
		}
	}

	return nil, ErrNoMatchingItems
}
