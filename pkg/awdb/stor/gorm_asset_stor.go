package stor

import (
	"errors"
	"fmt"

	"github.com/assetworks/gantry/pkg/awdb/awmodel"
	"github.com/gosimple/slug"
	"github.com/hashicorp/go-uuid"
	"gorm.io/gorm"
)

type GormAssetStor struct {
	db *gorm.DB
}

func NewGormAssetStor(db *gorm.DB) *GormAssetStor {
	return &GormAssetStor{db: db}
}

func (s *GormAssetStor) CreateAsset(asset *awmodel.Asset) (*awmodel.Asset, error) {
	var err error

	if asset.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	slugOfRegisterNo := slug.Make(asset.RegisterNo)
	asset.Slug = slugOfRegisterNo
	slugNext := 1

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
	CreateLoop:
		for {
			err = tx.Create(asset).Error
			switch {
			case err == nil:
				break CreateLoop
			case errors.Is(err, gorm.ErrDuplicatedKey):
				// Collision on the slug. Add an incrementing integer
				// to the slug and try again.
				asset.Slug = fmt.Sprintf("%s-%d", slugOfRegisterNo, slugNext)
				slugNext = slugNext + 1
			default:
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return asset, nil
}

func (s *GormAssetStor) GetAssetByID(assetID int) (*awmodel.Asset, error) {
	var asset awmodel.Asset
	if err := s.db.Preload("Owner").Where("id = ?", assetID).First(&asset).Error; err != nil {
		return nil, err
	}

	return &asset, nil
}

func (s *GormAssetStor) ListAssets() ([]awmodel.Asset, error) {
	var assets []awmodel.Asset
	result := s.db.Find(&assets)
	return assets, result.Error
}
