package cmd

import (
	"github.com/assetworks/gantry/pkg/awapid/webapi"
	"github.com/assetworks/gantry/pkg/awapid/webapi/apimiddleware"
	"github.com/assetworks/gantry/pkg/awapid/wserv"
	"github.com/assetworks/gantry/pkg/awdb/stor"
	"github.com/labstack/echo/v4"
)

type RouteOpts struct {
	stors          *stor.Stors
	hub            *wserv.Hub
	jwtSecret      string
	attachmentsDir string
}

func setupRoutes(e *echo.Echo, opts RouteOpts) {
	loginController := webapi.NewLoginController(opts.stors.UserStor, opts.jwtSecret)
	e.POST("/api/login", loginController.Login)

	keyCache := apimiddleware.NewAPIKeyCache(opts.stors.UserStor)

	g := e.Group("/api")
	g.Use(apimiddleware.Auth(apimiddleware.AuthConfig{
		Keyname:         "apikey",
		JWTSecret:       opts.jwtSecret,
		GetUserByAPIKey: keyCache.GetUserByAPIKey,
		GetUserByID:     opts.stors.UserStor.GetUserByID,
	}))

	transferController := webapi.NewTransferController(opts.stors.TransferStor)
	g.GET("/transfers", transferController.ListTransfers)
	g.POST("/transfers", transferController.CreateTransfer)

	approvalController := webapi.NewApprovalController(opts.stors.TransferStor, opts.hub)
	g.PUT("/transfers/approval", approvalController.ApproveTransfers)

	acceptanceController := webapi.NewAcceptanceController(opts.stors.TransferStor, opts.hub, opts.attachmentsDir)
	g.PUT("/transfers/:transferId/acceptance", acceptanceController.AcceptItems)

	assetController := webapi.NewAssetController(opts.stors.AssetStor)
	g.GET("/assets", assetController.ListAssets)
	g.GET("/assets/:assetId", assetController.GetAsset)
	g.POST("/assets", assetController.CreateAsset)

	g.GET("/refresh/ws", opts.hub.HandleWS)
}
