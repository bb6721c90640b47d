package workflow

import (
	"fmt"

	"github.com/assetworks/gantry/pkg/awclient"
	"github.com/assetworks/gantry/pkg/awdb/awmodel"
)

// mockBackend records every call in order and serves a scripted transfer
// list. Dispositions mutate the scripted list the way the real backend
// would, so a re-fetch observes the items disappearing.
type mockBackend struct {
	Calls     []string
	Transfers []awmodel.Transfer

	ListErr    error
	ApproveErr error
	AcceptErr  error
	// AcceptErrAfter fails the nth accept call (1-based) when set.
	AcceptErrAfter int
	acceptCalls    int

	// AcceptStarted/AcceptRelease let a test park an accept call mid-flight:
	// AcceptItems signals AcceptStarted, then waits until AcceptRelease is
	// closed before proceeding.
	AcceptStarted chan struct{}
	AcceptRelease chan struct{}
}

func (m *mockBackend) ListTransfers(filter awclient.TransferFilter) ([]awmodel.Transfer, error) {
	m.Calls = append(m.Calls, "list")
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	// Serve only transfers that still have pending items.
	var out []awmodel.Transfer
	for _, t := range m.Transfers {
		var pending []awmodel.TransferItem
		for _, item := range t.Items {
			if item.IsPending() {
				pending = append(pending, item)
			}
		}

		if len(pending) != 0 {
			t.Items = pending
			out = append(out, t)
		}
	}

	return out, nil
}

func (m *mockBackend) ApproveTransfers(req awclient.ApprovalRequest) error {
	m.Calls = append(m.Calls, fmt.Sprintf("approve %s %v", req.Status, req.TransferIDs))
	if m.ApproveErr != nil {
		return m.ApproveErr
	}

	for i := range m.Transfers {
		for _, id := range req.TransferIDs {
			if m.Transfers[i].ID == id {
				m.Transfers[i].Status = req.Status
				for j := range m.Transfers[i].Items {
					m.Transfers[i].Items[j].Status = req.Status
				}
			}
		}
	}

	return nil
}

func (m *mockBackend) AcceptItems(transferID int, req awclient.AcceptanceRequest) error {
	m.Calls = append(m.Calls, fmt.Sprintf("accept %d %v %s", transferID, req.ItemIDs, req.Status))
	m.acceptCalls++

	if m.AcceptStarted != nil {
		m.AcceptStarted <- struct{}{}
	}
	if m.AcceptRelease != nil {
		<-m.AcceptRelease
	}

	if m.AcceptErr != nil {
		return m.AcceptErr
	}

	if m.AcceptErrAfter != 0 && m.acceptCalls >= m.AcceptErrAfter {
		return fmt.Errorf("scripted accept failure")
	}

	for i := range m.Transfers {
		if m.Transfers[i].ID != transferID {
			continue
		}

		for j := range m.Transfers[i].Items {
			for _, id := range req.ItemIDs {
				if m.Transfers[i].Items[j].ID == id {
					m.Transfers[i].Items[j].Status = req.Status
				}
			}
		}
	}

	return nil
}

// mockAuth is an AuthProvider with a settable token. Reauthenticate restores
// the token it was created with.
type mockAuth struct {
	token        string
	restoreToken string
	ReauthCalls  int
	ReauthErr    error
}

func newMockAuth(token string) *mockAuth {
	return &mockAuth{token: token, restoreToken: token}
}

func (a *mockAuth) CurrentUser() string { return "tester@example.com" }

func (a *mockAuth) Token() (string, error) {
	if a.token == "" {
		return "", awclient.ErrAuthRequired
	}

	return a.token, nil
}

func (a *mockAuth) Reauthenticate() error {
	a.ReauthCalls++
	if a.ReauthErr != nil {
		return a.ReauthErr
	}

	a.token = a.restoreToken
	return nil
}

// recordingNotifier captures every notification by severity.
type recordingNotifier struct {
	Successes []string
	Errors    []string
	Infos     []string
}

func (n *recordingNotifier) Success(msg string) { n.Successes = append(n.Successes, msg) }
func (n *recordingNotifier) Error(msg string)   { n.Errors = append(n.Errors, msg) }
func (n *recordingNotifier) Info(msg string)    { n.Infos = append(n.Infos, msg) }
