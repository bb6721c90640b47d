// Package awclient is the HTTP client for the gantry backend. It exposes the
// three transfer endpoints the approval workflow depends on, normalizing the
// backend's response shapes and choosing JSON or multipart submission based
// on whether an acceptance carries attachments.
package awclient

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/assetworks/gantry/pkg/awdb/awmodel"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// AuthProvider supplies the identity and credentials every call runs under.
// It is injected rather than read from ambient state so the workflow layer
// can be tested with a canned provider.
type AuthProvider interface {
	CurrentUser() string
	Token() (string, error)
	Reauthenticate() error
}

// TransferFilter selects one of the three read modes. Exactly one
// identifying field must be set; Status only applies to the department mode.
type TransferFilter struct {
	TransferID   int
	NewOwnerID   int
	DepartmentID int
	Status       string
}

type ApprovalRequest struct {
	Status      string
	TransferIDs []int
	Remarks     string
}

type Attachment struct {
	Name    string
	Content io.Reader
}

type AcceptanceRequest struct {
	Status      string
	ItemIDs     []int
	Remarks     string
	Attachments []Attachment
}

// Backend is the surface the workflow coordinator consumes. Client is the
// real implementation; tests substitute a scripted one.
type Backend interface {
	ListTransfers(filter TransferFilter) ([]awmodel.Transfer, error)
	ApproveTransfers(req ApprovalRequest) error
	AcceptItems(transferID int, req AcceptanceRequest) error
}

type Client struct {
	resty *resty.Client
	auth  AuthProvider
}

func NewClient(baseURL string, auth AuthProvider) *Client {
	return &Client{
		resty: resty.New().SetBaseURL(baseURL),
		auth:  auth,
	}
}

func (c *Client) ListTransfers(filter TransferFilter) ([]awmodel.Transfer, error) {
	req, err := c.request()
	if err != nil {
		return nil, err
	}

	switch {
	case filter.TransferID != 0:
		req.SetQueryParam("transfer_id", strconv.Itoa(filter.TransferID))
	case filter.NewOwnerID != 0:
		req.SetQueryParam("new_owner_id", strconv.Itoa(filter.NewOwnerID))
	case filter.DepartmentID != 0:
		req.SetQueryParam("department_id", strconv.Itoa(filter.DepartmentID))
		if filter.Status != "" {
			req.SetQueryParam("status", filter.Status)
		}
	default:
		return nil, fmt.Errorf("transfer filter needs a transfer, owner or department id")
	}

	resp, err := req.Get("/api/transfers")
	if err != nil {
		return nil, errors.Wrap(err, "failed to load transfers")
	}

	if resp.IsError() {
		return nil, toErrorFromResponse(resp)
	}

	transfers, err := Unwrap[awmodel.Transfer](resp.Body())
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode transfers")
	}

	// The backend may omit items entirely; callers always see a list.
	for i := range transfers {
		if transfers[i].Items == nil {
			transfers[i].Items = []awmodel.TransferItem{}
		}
	}

	return transfers, nil
}

func (c *Client) ApproveTransfers(apprReq ApprovalRequest) error {
	req, err := c.request()
	if err != nil {
		return err
	}

	body := map[string]interface{}{
		"status":        apprReq.Status,
		"approved_by":   c.auth.CurrentUser(),
		"approved_date": time.Now().Format(time.DateTime),
		"remarks":       apprReq.Remarks,
		"transfer_id":   apprReq.TransferIDs,
	}

	resp, err := req.SetBody(body).Put("/api/transfers/approval")
	if err != nil {
		return errors.Wrap(err, "failed to submit approval")
	}

	if resp.IsError() {
		return toErrorFromResponse(resp)
	}

	return nil
}

func (c *Client) AcceptItems(transferID int, accReq AcceptanceRequest) error {
	req, err := c.request()
	if err != nil {
		return err
	}

	url := fmt.Sprintf("/api/transfers/%d/acceptance", transferID)
	acceptanceDate := time.Now().Format(time.DateTime)

	if len(accReq.Attachments) == 0 {
		body := map[string]interface{}{
			"acceptance_by":      c.auth.CurrentUser(),
			"acceptance_date":    acceptanceDate,
			"acceptance_remarks": accReq.Remarks,
			"status":             accReq.Status,
			"item_ids":           accReq.ItemIDs,
		}

		resp, err := req.SetBody(body).Put(url)
		if err != nil {
			return errors.Wrap(err, "failed to submit acceptance")
		}

		if resp.IsError() {
			return toErrorFromResponse(resp)
		}

		return nil
	}

	if len(accReq.Attachments) > awmodel.MaxItemAttachments {
		return fmt.Errorf("at most %d attachments can be submitted", awmodel.MaxItemAttachments)
	}

	itemIDs := make([]string, len(accReq.ItemIDs))
	for i, id := range accReq.ItemIDs {
		itemIDs[i] = strconv.Itoa(id)
	}

	req.SetMultipartFormData(map[string]string{
		"acceptance_by":      c.auth.CurrentUser(),
		"acceptance_date":    acceptanceDate,
		"acceptance_remarks": accReq.Remarks,
		"status":             accReq.Status,
		"item_ids":           strings.Join(itemIDs, ","),
	})

	for i, attachment := range accReq.Attachments {
		field := fmt.Sprintf("attachment_%d", i+1)
		req.SetMultipartField(field, attachment.Name, "application/octet-stream", attachment.Content)
	}

	resp, err := req.Put(url)
	if err != nil {
		return errors.Wrap(err, "failed to submit acceptance")
	}

	if resp.IsError() {
		return toErrorFromResponse(resp)
	}

	return nil
}

// ListAssets reads the full asset register, for reporting and export.
func (c *Client) ListAssets() ([]awmodel.Asset, error) {
	req, err := c.request()
	if err != nil {
		return nil, err
	}

	resp, err := req.Get("/api/assets")
	if err != nil {
		return nil, errors.Wrap(err, "failed to load assets")
	}

	if resp.IsError() {
		return nil, toErrorFromResponse(resp)
	}

	assets, err := Unwrap[awmodel.Asset](resp.Body())
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode assets")
	}

	return assets, nil
}

// request builds a request carrying the current session token. A missing
// token fails before anything goes on the wire.
func (c *Client) request() (*resty.Request, error) {
	token, err := c.auth.Token()
	if err != nil {
		return nil, ErrAuthRequired
	}

	if token == "" {
		return nil, ErrAuthRequired
	}

	return c.resty.R().SetAuthToken(token), nil
}
