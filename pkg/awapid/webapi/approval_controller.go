package webapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/assetworks/gantry/pkg/awdb/awmodel"
	"github.com/assetworks/gantry/pkg/awdb/stor"
	"github.com/labstack/echo/v4"
)

// RefreshPublisher is implemented by the refresh hub. Controllers publish a
// topic after every successful mutation so connected clients re-fetch.
type RefreshPublisher interface {
	PublishRefresh(topic string)
}

// RefreshTopicTransfers is the single topic disposition mutations publish on.
const RefreshTopicTransfers = "transfers"

type ApprovalController struct {
	transferStor stor.TransferStor
	refresh      RefreshPublisher
}

func NewApprovalController(transferStor stor.TransferStor, refresh RefreshPublisher) *ApprovalController {
	return &ApprovalController{transferStor: transferStor, refresh: refresh}
}

// ApproveTransfers dispositions whole transfers. Rejection requires remarks;
// the client validates this before submitting but the server refuses a bare
// rejection as well.
func (c *ApprovalController) ApproveTransfers(ctx echo.Context) error {
	var req struct {
		Status       string `json:"status"`
		ApprovedBy   string `json:"approved_by"`
		ApprovedDate string `json:"approved_date"`
		Remarks      string `json:"remarks"`
		TransferID   []int  `json:"transfer_id"`
	}

	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}

	if req.Status != awmodel.TransferStatusApproved && req.Status != awmodel.TransferStatusRejected {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be approved or rejected")
	}

	if len(req.TransferID) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no transfer ids given")
	}

	if req.ApprovedBy == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "approved_by is required")
	}

	if req.Status == awmodel.TransferStatusRejected && strings.TrimSpace(req.Remarks) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "remarks are required when rejecting")
	}

	approvedAt, err := parseWireDate(req.ApprovedDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid approved_date")
	}

	err = c.transferStor.SetTransfersStatus(req.TransferID, req.Status, req.ApprovedBy, approvedAt, req.Remarks)
	switch {
	case errors.Is(err, stor.ErrNoMatchingTransfers):
		return echo.NewHTTPError(http.StatusNotFound, "no pending transfers matched")
	case err != nil:
		return err
	}

	if c.refresh != nil {
		c.refresh.PublishRefresh(RefreshTopicTransfers)
	}

	return ctx.JSON(http.StatusOK, DataResponse{Data: map[string]interface{}{
		"status":      req.Status,
		"transfer_id": req.TransferID,
	}})
}
