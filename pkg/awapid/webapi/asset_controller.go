package webapi

import (
	"net/http"
	"strconv"

	"github.com/assetworks/gantry/pkg/awdb/awmodel"
	"github.com/assetworks/gantry/pkg/awdb/stor"
	"github.com/labstack/echo/v4"
)

type AssetController struct {
	assetStor stor.AssetStor
}

func NewAssetController(assetStor stor.AssetStor) *AssetController {
	return &AssetController{assetStor: assetStor}
}

func (c *AssetController) ListAssets(ctx echo.Context) error {
	assets, err := c.assetStor.ListAssets()
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, DataResponse{Data: assets})
}

func (c *AssetController) GetAsset(ctx echo.Context) error {
	assetID, err := strconv.Atoi(ctx.Param("assetId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid asset id")
	}

	asset, err := c.assetStor.GetAssetByID(assetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such asset")
	}

	return ctx.JSON(http.StatusOK, DataResponse{Data: asset})
}

func (c *AssetController) CreateAsset(ctx echo.Context) error {
	var asset awmodel.Asset

	if err := ctx.Bind(&asset); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}

	if asset.RegisterNo == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "register_no is required")
	}

	created, err := c.assetStor.CreateAsset(&asset)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, DataResponse{Data: created})
}
