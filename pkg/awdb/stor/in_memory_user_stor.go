package stor

import (
	"github.com/assetworks/gantry/pkg/awdb/awmodel"
	"github.com/hashicorp/go-uuid"
	"gorm.io/gorm"
)

type InMemoryUserStor struct {
	ErrToReturn error
	Users       []awmodel.User
	lastID      int
}

func NewInMemoryUserStor(users []awmodel.User) *InMemoryUserStor {
	return &InMemoryUserStor{
		Users:  users,
		lastID: 10000,
	}
}

func (s *InMemoryUserStor) CreateUser(user *awmodel.User) (*awmodel.User, error) {
	if s.ErrToReturn != nil {
		return nil, s.ErrToReturn
	}

	var err error
	if user.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	s.lastID = s.lastID + 1
	user.ID = s.lastID
	s.Users = append(s.Users, *user)

	return user, nil
}

func (s *InMemoryUserStor) GetUserByID(userID int) (*awmodel.User, error) {
	if s.ErrToReturn != nil {
		return nil, s.ErrToReturn
	}

	for i := range s.Users {
		if s.Users[i].ID == userID {
			return &s.Users[i], nil
		}
	}

	return nil, gorm.ErrRecordNotFound
}

func (s *InMemoryUserStor) GetUserByEmail(email string) (*awmodel.User, error) {
	if s.ErrToReturn != nil {
		return nil, s.ErrToReturn
	}

	for i := range s.Users {
		if s.Users[i].Email == email {
			return &s.Users[i], nil
		}
	}

	return nil, gorm.ErrRecordNotFound
}

func (s *InMemoryUserStor) GetUserByAPIToken(apitoken string) (*awmodel.User, error) {
	if s.ErrToReturn != nil {
		return nil, s.ErrToReturn
	}

	for i := range s.Users {
		if s.Users[i].APIToken == apitoken {
			return &s.Users[i], nil
		}
	}

	return nil, gorm.ErrRecordNotFound
}
