package stor

import (
	"github.com/assetworks/gantry/pkg/awdb/awmodel"
	"github.com/hashicorp/go-uuid"
	"gorm.io/gorm"
)

type GormUserStor struct {
	db *gorm.DB
}

func NewGormUserStor(db *gorm.DB) *GormUserStor {
	return &GormUserStor{db: db}
}

// CreateUser creates a new user.
func (s *GormUserStor) CreateUser(user *awmodel.User) (*awmodel.User, error) {
	var err error

	if user.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	if user.APIToken == "" {
		if user.APIToken, err = uuid.GenerateUUID(); err != nil {
			return nil, err
		}
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(user).Error
	})

	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *GormUserStor) GetUserByID(userID int) (*awmodel.User, error) {
	var user awmodel.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *GormUserStor) GetUserByEmail(email string) (*awmodel.User, error) {
	var user awmodel.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *GormUserStor) GetUserByAPIToken(apitoken string) (*awmodel.User, error) {
	var user awmodel.User
	if err := s.db.Where("api_token = ?", apitoken).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}
