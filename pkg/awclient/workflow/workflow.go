// Package workflow implements the approval workflow over the gantry client:
// loading actionable transfers, tracking selection, validating dispositions
// before anything touches the network, and sequencing single or bulk
// submissions while keeping local state consistent with the backend.
package workflow

import (
	"fmt"

	"github.com/assetworks/gantry/pkg/awclient"
	"github.com/assetworks/gantry/pkg/awdb/awmodel"
	"github.com/assetworks/gantry/pkg/clog"
)

// Kind is the disposition being taken.
type Kind string

const (
	KindApprove Kind = "approve"
	KindReject  Kind = "reject"
)

// Mode selects the workflow variant. Approvers disposition whole transfers;
// new owners accept or reject individual items, with mandatory evidence on
// acceptance.
type Mode string

const (
	ModeApproval   Mode = "approval"
	ModeAcceptance Mode = "acceptance"
)

type Scope string

const (
	ScopeSingle Scope = "single"
	ScopeBulk   Scope = "bulk"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateEmpty
	StateAwaitingConfirmation
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateEmpty:
		return "empty"
	case StateAwaitingConfirmation:
		return "awaiting-confirmation"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Item is a transfer item plus the client-side fields an operator fills in
// before dispositioning it. None of these fields persist anywhere.
type Item struct {
	awmodel.TransferItem
	Remark      string
	Attachments []awclient.Attachment
	Selected    bool
}

// Key identifies an item within a loaded batch list.
func Key(transferID, itemID int) string {
	return fmt.Sprintf("%d:%d", transferID, itemID)
}

func (i *Item) Key() string {
	return Key(i.TransferID, i.ID)
}

// PendingAction is a user's in-flight confirmation request. It exists from
// RequestConfirmation until Confirm or Cancel.
type PendingAction struct {
	Kind      Kind
	Scope     Scope
	TargetKey string
	Count     int
}

// Notifier receives the single user-facing message each success or failure
// path produces. Implementations render toasts, print to a terminal, etc.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// LogNotifier routes notifications to the shared logger. It is the default
// when no notifier is supplied.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) { clog.Area("workflow").Info(msg) }
func (LogNotifier) Error(msg string)   { clog.Area("workflow").Error(msg) }
func (LogNotifier) Info(msg string)    { clog.Area("workflow").Info(msg) }
