package stor

import "errors"

var (
	ErrTooManyAttachments  = errors.New("too many attachments")
	ErrNoMatchingItems     = errors.New("no matching pending items")
	ErrNoMatchingTransfers = errors.New("no matching pending transfers")
)
