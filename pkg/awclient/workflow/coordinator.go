package workflow

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/assetworks/gantry/pkg/awclient"
	"github.com/assetworks/gantry/pkg/awdb/awmodel"
)

var (
	ErrBusy            = errors.New("another action is in progress")
	ErrNoPendingAction = errors.New("no pending action to confirm")
	ErrUnknownItem     = errors.New("no such item in the loaded batches")
)

// Coordinator orchestrates the approval workflow for one operator view. A
// mutex guards the view state; network calls run with it released so the
// view stays readable while a fetch or submission is in flight, and the
// busy flag refuses a second trigger instead of queueing it.
type Coordinator struct {
	mu       sync.Mutex
	backend  awclient.Backend
	auth     awclient.AuthProvider
	notifier Notifier
	mode     Mode

	state     State
	filter    awclient.TransferFilter
	batches   []awmodel.Transfer
	items     map[string]*Item
	order     []string
	selection *SelectionSet
	pending   *PendingAction
	busy      bool
}

func NewCoordinator(backend awclient.Backend, auth awclient.AuthProvider, notifier Notifier, mode Mode) *Coordinator {
	if notifier == nil {
		notifier = LogNotifier{}
	}

	return &Coordinator{
		backend:   backend,
		auth:      auth,
		notifier:  notifier,
		mode:      mode,
		state:     StateIdle,
		items:     make(map[string]*Item),
		selection: NewSelectionSet(),
	}
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Batches returns the last loaded transfer list.
func (c *Coordinator) Batches() []awmodel.Transfer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.batches
}

// Items returns the actionable items in display order.
func (c *Coordinator) Items() []*Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]*Item, 0, len(c.order))
	for _, key := range c.order {
		items = append(items, c.items[key])
	}

	return items
}

func (c *Coordinator) Selection() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.Keys()
}

// LoadBatches fetches the transfer list for the given filter, replacing list
// state wholesale. A fetch failure empties the list rather than leaving
// stale rows behind.
func (c *Coordinator) LoadBatches(filter awclient.TransferFilter) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		c.notifier.Info("Another action is in progress")
		return ErrBusy
	}

	c.busy = true
	c.filter = filter
	c.mu.Unlock()
	defer c.endAction()

	return c.refetch()
}

// Reload re-fetches with the filter from the last LoadBatches call.
func (c *Coordinator) Reload() error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		c.notifier.Info("Another action is in progress")
		return ErrBusy
	}

	c.busy = true
	c.mu.Unlock()
	defer c.endAction()

	return c.refetch()
}

// refetch performs the list call. The caller holds the busy flag; the
// mutex is taken only to swap state in and out around the call itself.
func (c *Coordinator) refetch() error {
	if err := c.ensureAuthenticated(); err != nil {
		c.empty()
		return err
	}

	c.setState(StateLoading)

	c.mu.Lock()
	filter := c.filter
	c.mu.Unlock()

	transfers, err := c.backend.ListTransfers(filter)
	if err != nil {
		c.empty()
		c.notifier.Error("Failed to load transfer details")
		return err
	}

	c.mu.Lock()
	c.batches = transfers
	c.rebuildItemsLocked()

	if len(c.order) == 0 {
		c.state = StateEmpty
	} else {
		c.state = StateReady
	}
	c.mu.Unlock()

	return nil
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Coordinator) endAction() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

// empty is the fail-closed landing state: no rows, no selection.
func (c *Coordinator) empty() {
	c.mu.Lock()
	c.batches = nil
	c.items = make(map[string]*Item)
	c.order = nil
	c.selection.Clear()
	c.state = StateEmpty
	c.mu.Unlock()
}

// rebuildItemsLocked replaces the item index from the loaded batches. Client
// fields (remark, attachments, selected) survive for keys still present;
// everything else, including stale selection entries, is pruned.
func (c *Coordinator) rebuildItemsLocked() {
	previous := c.items
	c.items = make(map[string]*Item)
	c.order = nil

	keep := make(map[string]bool)
	for _, batch := range c.batches {
		for _, ti := range batch.Items {
			item := &Item{TransferItem: ti}
			key := item.Key()

			if prev, ok := previous[key]; ok {
				item.Remark = prev.Remark
				item.Attachments = prev.Attachments
				item.Selected = prev.Selected
			}

			c.items[key] = item
			c.order = append(c.order, key)
			keep[key] = true
		}
	}

	c.selection.Prune(keep)
}

// ensureAuthenticated surfaces a sign-in prompt and re-authenticates when no
// usable token is present, so the originally intended call can proceed. Only
// the holder of the busy flag calls it, so auth traffic is serialized.
func (c *Coordinator) ensureAuthenticated() error {
	token, err := c.auth.Token()
	if err == nil && token != "" {
		return nil
	}

	c.notifier.Info("Sign in required")

	if err := c.auth.Reauthenticate(); err != nil {
		c.notifier.Error("Sign in failed")
		return awclient.ErrAuthRequired
	}

	return nil
}

func (c *Coordinator) SetRemark(key, remark string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		return ErrUnknownItem
	}

	item.Remark = remark
	return nil
}

// AddAttachment attaches evidence to an item. Past the cap the add is
// refused and the operator told; the item keeps what it already holds.
func (c *Coordinator) AddAttachment(key, name string, content io.Reader) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		return ErrUnknownItem
	}

	if len(item.Attachments) >= awmodel.MaxItemAttachments {
		c.notifier.Info(fmt.Sprintf("An item holds at most %d attachments", awmodel.MaxItemAttachments))
		return nil
	}

	item.Attachments = append(item.Attachments, awclient.Attachment{Name: name, Content: content})
	return nil
}

func (c *Coordinator) Select(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		return ErrUnknownItem
	}

	item.Selected = true
	c.selection.Add(key)
	return nil
}

func (c *Coordinator) Deselect(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		return ErrUnknownItem
	}

	item.Selected = false
	c.selection.Remove(key)
	return nil
}

// RequestConfirmation validates the requested action and, only if every
// targeted item passes, creates the pending action the confirmation dialog
// represents. An invalid request never reaches the dialog.
func (c *Coordinator) RequestConfirmation(kind Kind, scope Scope, targetKey string) (*PendingAction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		c.notifier.Info("Another action is in progress")
		return nil, ErrBusy
	}

	var keys []string
	switch scope {
	case ScopeSingle:
		if _, ok := c.items[targetKey]; !ok {
			return nil, ErrUnknownItem
		}
		keys = []string{targetKey}
	default:
		keys = c.selection.Keys()
	}

	if verr := c.validateForDisposition(keys, kind); verr != nil {
		c.notifier.Error(verr.ValidationMsg)
		return nil, verr
	}

	c.pending = &PendingAction{
		Kind:      kind,
		Scope:     scope,
		TargetKey: targetKey,
		Count:     len(keys),
	}
	c.state = StateAwaitingConfirmation

	return c.pending, nil
}

// CancelPendingAction returns to Ready with no side effects.
func (c *Coordinator) CancelPendingAction() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = nil
	if c.state == StateAwaitingConfirmation {
		c.state = StateReady
	}
}

// ConfirmPendingAction executes the pending action and discards it.
func (c *Coordinator) ConfirmPendingAction() error {
	c.mu.Lock()

	if c.pending == nil {
		c.mu.Unlock()
		return ErrNoPendingAction
	}

	if c.busy {
		c.mu.Unlock()
		c.notifier.Info("Another action is in progress")
		return ErrBusy
	}

	pending := c.pending
	c.pending = nil

	if pending.Scope == ScopeSingle {
		item, ok := c.items[pending.TargetKey]
		if !ok {
			c.mu.Unlock()
			return ErrUnknownItem
		}

		snapshot := *item
		c.busy = true
		c.mu.Unlock()
		defer c.endAction()

		return c.disposeSingle(pending.TargetKey, snapshot, pending.Kind)
	}

	keys := c.selection.Keys()
	items := c.snapshotLocked(keys)
	c.busy = true
	c.mu.Unlock()
	defer c.endAction()

	return c.disposeBulk(keys, items, pending.Kind)
}

// DisposeSingle executes exactly one disposition without the confirmation
// step. Validation still gates it.
func (c *Coordinator) DisposeSingle(key string, kind Kind) error {
	c.mu.Lock()

	if c.busy {
		c.mu.Unlock()
		c.notifier.Info("Another action is in progress")
		return ErrBusy
	}

	if verr := c.validateForDisposition([]string{key}, kind); verr != nil {
		c.mu.Unlock()
		c.notifier.Error(verr.ValidationMsg)
		return verr
	}

	item, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		return ErrUnknownItem
	}

	snapshot := *item
	c.busy = true
	c.mu.Unlock()
	defer c.endAction()

	return c.disposeSingle(key, snapshot, kind)
}

// DisposeBulk dispositions every selected item without the confirmation
// step. Validation still gates it.
func (c *Coordinator) DisposeBulk(kind Kind) error {
	c.mu.Lock()

	if c.busy {
		c.mu.Unlock()
		c.notifier.Info("Another action is in progress")
		return ErrBusy
	}

	keys := c.selection.Keys()
	if verr := c.validateForDisposition(keys, kind); verr != nil {
		c.mu.Unlock()
		if verr.Rule == RuleEmptySelection {
			c.notifier.Info(verr.ValidationMsg)
		} else {
			c.notifier.Error(verr.ValidationMsg)
		}
		return verr
	}

	items := c.snapshotLocked(keys)
	c.busy = true
	c.mu.Unlock()
	defer c.endAction()

	return c.disposeBulk(keys, items, kind)
}

// snapshotLocked copies the targeted items so a submission can run with the
// mutex released. Assumes c.mu is held.
func (c *Coordinator) snapshotLocked(keys []string) []Item {
	items := make([]Item, 0, len(keys))
	for _, key := range keys {
		if item, ok := c.items[key]; ok {
			items = append(items, *item)
		}
	}

	return items
}

// disposeSingle submits one item. The caller holds the busy flag and
// validation has passed.
func (c *Coordinator) disposeSingle(key string, item Item, kind Kind) error {
	if err := c.ensureAuthenticated(); err != nil {
		return err
	}

	c.setState(StateSubmitting)

	if err := c.submitItem(item, kind); err != nil {
		// The UI must not silently advance past a failed action.
		c.setState(StateReady)
		c.notifier.Error(failureMessage(kind, c.mode))
		return err
	}

	c.mu.Lock()
	c.selection.Remove(key)
	c.mu.Unlock()

	if err := c.refetch(); err != nil {
		return err
	}

	c.notifier.Success(successMessage(kind, c.mode, 1))
	return nil
}

// disposeBulk submits the selection one item at a time, in selection order,
// because each item may carry distinct remarks and attachments. A failure
// mid-sequence aborts the remaining items; nothing is re-fetched so the
// view still shows the state the operator acted on. The caller holds the
// busy flag and validation has passed.
func (c *Coordinator) disposeBulk(keys []string, items []Item, kind Kind) error {
	if len(keys) == 0 {
		c.notifier.Info("No items selected")
		return nil
	}

	if err := c.ensureAuthenticated(); err != nil {
		return err
	}

	c.setState(StateSubmitting)

	if c.mode == ModeApproval {
		if err := c.submitApprovalBatch(items, kind); err != nil {
			c.setState(StateReady)
			c.notifier.Error(failureMessage(kind, c.mode))
			return err
		}
	} else {
		for _, item := range items {
			if err := c.submitItem(item, kind); err != nil {
				c.setState(StateReady)
				c.notifier.Error(failureMessage(kind, c.mode))
				return err
			}
		}
	}

	count := len(keys)

	c.mu.Lock()
	c.selection.Clear()
	c.mu.Unlock()

	if err := c.refetch(); err != nil {
		return err
	}

	c.notifier.Success(successMessage(kind, c.mode, count))
	return nil
}

// submitItem issues the disposition request for one item. Approval mode
// targets the item's whole transfer; acceptance mode targets the item
// itself, carrying remark and attachments.
func (c *Coordinator) submitItem(item Item, kind Kind) error {
	if c.mode == ModeApproval {
		return c.backend.ApproveTransfers(awclient.ApprovalRequest{
			Status:      statusFor(kind, c.mode),
			TransferIDs: []int{item.TransferID},
			Remarks:     item.Remark,
		})
	}

	return c.backend.AcceptItems(item.TransferID, awclient.AcceptanceRequest{
		Status:      statusFor(kind, c.mode),
		ItemIDs:     []int{item.ID},
		Remarks:     item.Remark,
		Attachments: item.Attachments,
	})
}

// submitApprovalBatch collapses a bulk approval into one request against the
// deduplicated transfer ids of the selection.
func (c *Coordinator) submitApprovalBatch(items []Item, kind Kind) error {
	seen := make(map[int]bool)
	var transferIDs []int
	var remarks []string
	seenRemarks := make(map[string]bool)

	for _, item := range items {
		if !seen[item.TransferID] {
			seen[item.TransferID] = true
			transferIDs = append(transferIDs, item.TransferID)
		}

		if item.Remark != "" && !seenRemarks[item.Remark] {
			seenRemarks[item.Remark] = true
			remarks = append(remarks, item.Remark)
		}
	}

	return c.backend.ApproveTransfers(awclient.ApprovalRequest{
		Status:      statusFor(kind, c.mode),
		TransferIDs: transferIDs,
		Remarks:     joinRemarks(remarks),
	})
}

// RunRefreshLoop re-fetches whenever a refresh signal arrives. It returns
// when topics closes.
func (c *Coordinator) RunRefreshLoop(topics <-chan string) {
	for range topics {
		// A signal is only a hint; a failed re-fetch already notified
		// the operator and left the list empty.
		_ = c.Reload()
	}
}

func statusFor(kind Kind, mode Mode) string {
	if kind == KindReject {
		return awmodel.TransferStatusRejected
	}

	if mode == ModeApproval {
		return awmodel.TransferStatusApproved
	}

	return awmodel.ItemStatusAccepted
}

func successMessage(kind Kind, mode Mode, count int) string {
	verb := "Approved"
	if mode == ModeAcceptance {
		verb = "Accepted"
	}
	if kind == KindReject {
		verb = "Rejected"
	}

	return fmt.Sprintf("%s %d item(s)", verb, count)
}

func failureMessage(kind Kind, mode Mode) string {
	verb := "approve"
	if mode == ModeAcceptance {
		verb = "accept"
	}
	if kind == KindReject {
		verb = "reject"
	}

	return "Failed to " + verb
}

func joinRemarks(remarks []string) string {
	return strings.Join(remarks, "; ")
}
