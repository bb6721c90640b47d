package awapid

import (
	"sync"

	"github.com/apex/log"
)

// Dispositions against the same transfer are serialized so the pending-item
// count check inside DisposeItems can't race a concurrent acceptance.

var mapMutex sync.Mutex
var mutexes = make(map[int]*sync.Mutex)

func AcquireTransferMutex(transferID int) {
	mapMutex.Lock()
	defer mapMutex.Unlock()
	var m sync.Mutex
	transferMutex, ok := mutexes[transferID]
	if !ok {
		transferMutex = &m
		mutexes[transferID] = transferMutex
	}
	transferMutex.Lock()
}

func ReleaseTransferMutex(transferID int) {
	m, ok := mutexes[transferID]
	if !ok {
		log.Errorf("ReleaseTransferMutex called on transfer (%d) with no mutex", transferID)
		return
	}

	m.Unlock()
}

func WithTransferMutex(transferID int, f func() error) error {
	AcquireTransferMutex(transferID)
	defer ReleaseTransferMutex(transferID)
	return f()
}
