package cmd

import (
	"os"

	"github.com/assetworks/gantry/pkg/awapid/wserv"
	"github.com/assetworks/gantry/pkg/awdb"
	"github.com/assetworks/gantry/pkg/awdb/stor"
	"github.com/assetworks/gantry/pkg/clog"
	"github.com/assetworks/gantry/pkg/config"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "awapid",
	Short: "Run the gantry API server",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.Use(middleware.Recover())

		if err := config.Load(); err != nil {
			clog.Global().Fatalf("Unable to load config: %v", err)
		}

		if err := clog.SetLevelFromString(config.GetKeyWithDefault("GANTRY_LOG_LEVEL", "info")); err != nil {
			clog.Global().Fatalf("Invalid GANTRY_LOG_LEVEL: %v", err)
		}

		if logFile := config.GetKeyWithDefault("GANTRY_LOG_FILE", ""); logFile != "" {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				clog.Global().Fatalf("Unable to open log file %s: %v", logFile, err)
			}
			clog.Setup(f)
		}

		db := awdb.MustConnectToDB()
		if config.GetBoolKeyWithDefault("GANTRY_AUTO_MIGRATE", false) {
			if err := awdb.RunMigrations(db); err != nil {
				clog.Global().Fatalf("Unable to run migrations: %v", err)
			}
		}

		stors := stor.NewGormStors(db)

		hub := wserv.NewHub()
		go hub.Run()

		setupRoutes(e, RouteOpts{
			stors:          stors,
			hub:            hub,
			jwtSecret:      config.MustGetKey("GANTRY_JWT_SECRET"),
			attachmentsDir: config.GetKeyWithDefault("GANTRY_ATTACHMENT_DIR", "/var/lib/gantry/attachments"),
		})

		if err := e.Start(":" + config.GetKeyWithDefault("GANTRY_PORT", "1432")); err != nil {
			clog.Global().Fatalf("Unable to start server: %v", err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
