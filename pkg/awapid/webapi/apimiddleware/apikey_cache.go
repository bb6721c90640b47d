package apimiddleware

import (
	"sync"

	"github.com/assetworks/gantry/pkg/awdb/awmodel"
	"github.com/assetworks/gantry/pkg/awdb/stor"
)

type APIKeyCache struct {
	apikeyCacheMu sync.RWMutex
	cache         map[string]*awmodel.User
	userStor      stor.UserStor
}

func NewAPIKeyCache(userStor stor.UserStor) *APIKeyCache {
	return &APIKeyCache{
		cache:    make(map[string]*awmodel.User),
		userStor: userStor,
	}
}

func (c *APIKeyCache) GetUserByAPIKey(apikey string) (*awmodel.User, error) {
	c.apikeyCacheMu.RLock()

	if user, ok := c.cache[apikey]; ok {
		c.apikeyCacheMu.RUnlock()
		return user, nil
	}

	// Need to upgrade to a write lock.
	c.apikeyCacheMu.RUnlock()
	c.apikeyCacheMu.Lock()
	defer c.apikeyCacheMu.Unlock()

	// Check again now that we hold the write lock. A different request may
	// have filled the entry between the unlock and the lock above.
	if user, ok := c.cache[apikey]; ok {
		return user, nil
	}

	user, err := c.userStor.GetUserByAPIToken(apikey)
	if err != nil {
		// No user matching that key
		return nil, err
	}

	c.cache[apikey] = user

	return user, nil
}
