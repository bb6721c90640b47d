package stor

import (
	"time"

	"github.com/assetworks/gantry/pkg/awdb/awmodel"
	"gorm.io/gorm"
)

type UserStor interface {
	CreateUser(user *awmodel.User) (*awmodel.User, error)
	GetUserByID(userID int) (*awmodel.User, error)
	GetUserByEmail(email string) (*awmodel.User, error)
	GetUserByAPIToken(apitoken string) (*awmodel.User, error)
}

type AssetStor interface {
	CreateAsset(asset *awmodel.Asset) (*awmodel.Asset, error)
	GetAssetByID(assetID int) (*awmodel.Asset, error)
	ListAssets() ([]awmodel.Asset, error)
}

// ItemDisposition carries the fields recorded against each item the new
// owner accepts or rejects.
type ItemDisposition struct {
	Status  string
	By      string
	At      time.Time
	Remarks string
}

type TransferStor interface {
	CreateTransfer(transfer *awmodel.Transfer, items []awmodel.TransferItem) (*awmodel.Transfer, error)
	GetTransferByID(transferID int) (*awmodel.Transfer, error)
	ListPendingTransfersForNewOwner(newOwnerID int) ([]awmodel.Transfer, error)
	ListTransfersForDepartment(departmentID int, status string) ([]awmodel.Transfer, error)
	SetTransfersStatus(transferIDs []int, status, approvedBy string, approvedAt time.Time, remarks string) error
	DisposeItems(transferID int, itemIDs []int, disposition ItemDisposition) error
	AddItemAttachment(itemID int, attachment *awmodel.TransferAttachment) (*awmodel.TransferAttachment, error)
}

type Stors struct {
	UserStor     UserStor
	AssetStor    AssetStor
	TransferStor TransferStor
}

func NewGormStors(db *gorm.DB) *Stors {
	return &Stors{
		UserStor:     NewGormUserStor(db),
		AssetStor:    NewGormAssetStor(db),
		TransferStor: NewGormTransferStor(db),
	}
}
