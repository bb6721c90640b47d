package webapi

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/assetworks/gantry/pkg/awapid"
	"github.com/assetworks/gantry/pkg/awdb/awmodel"
	"github.com/assetworks/gantry/pkg/awdb/stor"
	"github.com/labstack/echo/v4"
)

// attachmentFields are the multipart part names the acceptance endpoint
// recognizes. Two named fields is also where the attachment cap comes from.
var attachmentFields = [...]string{"attachment_1", "attachment_2"}

type AcceptanceController struct {
	transferStor   stor.TransferStor
	refresh        RefreshPublisher
	attachmentsDir string
}

func NewAcceptanceController(transferStor stor.TransferStor, refresh RefreshPublisher, attachmentsDir string) *AcceptanceController {
	return &AcceptanceController{
		transferStor:   transferStor,
		refresh:        refresh,
		attachmentsDir: attachmentsDir,
	}
}

type acceptanceRequest struct {
	AcceptanceBy      string `json:"acceptance_by" form:"acceptance_by"`
	AcceptanceDate    string `json:"acceptance_date" form:"acceptance_date"`
	AcceptanceRemarks string `json:"acceptance_remarks" form:"acceptance_remarks"`
	Status            string `json:"status" form:"status"`
	ItemIDs           []int  `json:"item_ids"`
	// item_ids travels as a comma-separated string in multipart bodies.
	ItemIDsForm string `form:"item_ids"`
}

// AcceptItems dispositions individual items of a transfer. The body is JSON,
// or multipart when the acceptance carries photographic evidence (up to 2
// attachment parts).
func (c *AcceptanceController) AcceptItems(ctx echo.Context) error {
	transferID, err := strconv.Atoi(ctx.Param("transferId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid transfer id")
	}

	var req acceptanceRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}

	if req.ItemIDsForm != "" {
		if req.ItemIDs, err = parseItemIDs(req.ItemIDsForm); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid item_ids")
		}
	}

	if req.Status != awmodel.ItemStatusAccepted && req.Status != awmodel.ItemStatusRejected {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be accepted or rejected")
	}

	if len(req.ItemIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no item ids given")
	}

	if req.AcceptanceBy == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "acceptance_by is required")
	}

	if req.Status == awmodel.ItemStatusRejected && strings.TrimSpace(req.AcceptanceRemarks) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "remarks are required when rejecting")
	}

	acceptedAt, err := parseWireDate(req.AcceptanceDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid acceptance_date")
	}

	attachments, err := c.collectAttachments(ctx)
	if err != nil {
		return err
	}

	err = awapid.WithTransferMutex(transferID, func() error {
		disposition := stor.ItemDisposition{
			Status:  req.Status,
			By:      req.AcceptanceBy,
			At:      acceptedAt,
			Remarks: req.AcceptanceRemarks,
		}

		if err := c.transferStor.DisposeItems(transferID, req.ItemIDs, disposition); err != nil {
			return err
		}

		for _, itemID := range req.ItemIDs {
			for _, fh := range attachments {
				if err := c.saveAttachment(itemID, fh); err != nil {
					return err
				}
			}
		}

		return nil
	})

	switch {
	case errors.Is(err, stor.ErrNoMatchingItems):
		return echo.NewHTTPError(http.StatusNotFound, "no pending items matched")
	case errors.Is(err, stor.ErrTooManyAttachments):
		return echo.NewHTTPError(http.StatusBadRequest, "an item holds at most 2 attachments")
	case err != nil:
		return err
	}

	if c.refresh != nil {
		c.refresh.PublishRefresh(RefreshTopicTransfers)
	}

	return ctx.JSON(http.StatusOK, DataResponse{Data: map[string]interface{}{
		"status":   req.Status,
		"item_ids": req.ItemIDs,
	}})
}

func (c *AcceptanceController) collectAttachments(ctx echo.Context) ([]*multipart.FileHeader, error) {
	contentType := ctx.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		return nil, nil
	}

	var attachments []*multipart.FileHeader
	for _, name := range attachmentFields {
		fh, err := ctx.FormFile(name)
		if err != nil {
			// Part not present; the fields are optional.
			continue
		}
		attachments = append(attachments, fh)
	}

	return attachments, nil
}

func (c *AcceptanceController) saveAttachment(itemID int, fh *multipart.FileHeader) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dir := filepath.Join(c.attachmentsDir, strconv.Itoa(itemID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path := filepath.Join(dir, filepath.Base(fh.Filename))
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		return err
	}

	attachment := &awmodel.TransferAttachment{
		Name: filepath.Base(fh.Filename),
		Path: path,
		Size: written,
	}

	_, err = c.transferStor.AddItemAttachment(itemID, attachment)
	return err
}

func parseItemIDs(s string) ([]int, error) {
	var ids []int
	for _, piece := range strings.Split(s, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(piece))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}
