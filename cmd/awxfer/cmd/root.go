package cmd

import (
	"fmt"
	"os"

	"github.com/assetworks/gantry/pkg/awclient"
	"github.com/assetworks/gantry/pkg/awclient/workflow"
	"github.com/assetworks/gantry/pkg/config"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	email     string
	password  string
	modeFlag  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "awxfer",
	Short: "Operate on pending asset transfers from the terminal",
	Long: `awxfer lists pending asset transfers and dispositions them, either as an
approver (whole transfers) or as the receiving owner (individual items, with
photographic evidence on acceptance).`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() { _ = config.Load() })

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "gantry server URL (default $GANTRY_SERVER)")
	rootCmd.PersistentFlags().StringVar(&email, "email", "", "account email (default $GANTRY_EMAIL)")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "account password (default $GANTRY_PASSWORD)")
	rootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "acceptance", "workflow mode: approval or acceptance")
}

// consoleNotifier prints workflow notifications the way a UI would toast
// them.
type consoleNotifier struct{}

func (consoleNotifier) Success(msg string) { fmt.Println(msg) }
func (consoleNotifier) Error(msg string)   { fmt.Fprintln(os.Stderr, msg) }
func (consoleNotifier) Info(msg string)    { fmt.Println(msg) }

func resolveConnection() (string, string, string, error) {
	server := serverURL
	if server == "" {
		server = config.GetKey("GANTRY_SERVER")
	}

	user := email
	if user == "" {
		user = config.GetKey("GANTRY_EMAIL")
	}

	pass := password
	if pass == "" {
		pass = config.GetKey("GANTRY_PASSWORD")
	}

	if server == "" || user == "" || pass == "" {
		return "", "", "", fmt.Errorf("server, email and password are required (flags or GANTRY_* env)")
	}

	return server, user, pass, nil
}

func newClient() (*awclient.Client, error) {
	server, user, pass, err := resolveConnection()
	if err != nil {
		return nil, err
	}

	auth := awclient.NewPasswordAuthProvider(server, user, pass)
	if err := auth.Reauthenticate(); err != nil {
		return nil, err
	}

	return awclient.NewClient(server, auth), nil
}

func newCoordinator() (*workflow.Coordinator, error) {
	server, user, pass, err := resolveConnection()
	if err != nil {
		return nil, err
	}

	mode := workflow.Mode(modeFlag)
	if mode != workflow.ModeApproval && mode != workflow.ModeAcceptance {
		return nil, fmt.Errorf("mode must be approval or acceptance, not %q", modeFlag)
	}

	auth := awclient.NewPasswordAuthProvider(server, user, pass)
	client := awclient.NewClient(server, auth)

	return workflow.NewCoordinator(client, auth, consoleNotifier{}, mode), nil
}
