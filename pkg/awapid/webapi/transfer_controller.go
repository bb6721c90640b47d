package webapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/assetworks/gantry/pkg/awdb/awmodel"
	"github.com/assetworks/gantry/pkg/awdb/stor"
	"github.com/labstack/echo/v4"
)

// DataResponse is the envelope every read endpoint responds with. The data
// member is a list for the owner and department filter modes, and a single
// object for a transfer id lookup.
type DataResponse struct {
	Data interface{} `json:"data"`
}

type TransferController struct {
	transferStor stor.TransferStor
}

func NewTransferController(transferStor stor.TransferStor) *TransferController {
	return &TransferController{transferStor: transferStor}
}

// ListTransfers handles the three filter modes for reading transfers.
// Exactly one of transfer_id, new_owner_id, or department_id (+status) must
// be supplied.
func (c *TransferController) ListTransfers(ctx echo.Context) error {
	transferID := ctx.QueryParam("transfer_id")
	newOwnerID := ctx.QueryParam("new_owner_id")
	departmentID := ctx.QueryParam("department_id")

	if !exactlyOne(transferID, newOwnerID, departmentID) {
		return echo.NewHTTPError(http.StatusBadRequest, "supply exactly one of transfer_id, new_owner_id, department_id")
	}

	switch {
	case transferID != "":
		id, err := strconv.Atoi(transferID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid transfer_id")
		}

		transfer, err := c.transferStor.GetTransferByID(id)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "no such transfer")
		}

		return ctx.JSON(http.StatusOK, DataResponse{Data: transfer})

	case newOwnerID != "":
		id, err := strconv.Atoi(newOwnerID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid new_owner_id")
		}

		transfers, err := c.transferStor.ListPendingTransfersForNewOwner(id)
		if err != nil {
			return err
		}

		return ctx.JSON(http.StatusOK, DataResponse{Data: transfers})

	default:
		id, err := strconv.Atoi(departmentID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid department_id")
		}

		status := ctx.QueryParam("status")
		if status == "" {
			status = awmodel.TransferStatusPending
		}

		transfers, err := c.transferStor.ListTransfersForDepartment(id, status)
		if err != nil {
			return err
		}

		return ctx.JSON(http.StatusOK, DataResponse{Data: transfers})
	}
}

func (c *TransferController) CreateTransfer(ctx echo.Context) error {
	var req struct {
		TransferDate  string                 `json:"transfer_date"`
		RequestedByID int                    `json:"requested_by_id"`
		Items         []awmodel.TransferItem `json:"items"`
	}

	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}

	if len(req.Items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "a transfer needs at least one item")
	}

	transferDate, err := parseWireDate(req.TransferDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid transfer_date")
	}

	transfer := &awmodel.Transfer{
		TransferDate:  transferDate,
		RequestedByID: req.RequestedByID,
	}

	transfer, err = c.transferStor.CreateTransfer(transfer, req.Items)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, DataResponse{Data: transfer})
}

func exactlyOne(values ...string) bool {
	supplied := 0
	for _, v := range values {
		if v != "" {
			supplied++
		}
	}

	return supplied == 1
}

// parseWireDate parses the YYYY-MM-DD HH:mm:ss local-time format every date
// field travels as.
func parseWireDate(s string) (time.Time, error) {
	return time.ParseInLocation(time.DateTime, s, time.Local)
}
