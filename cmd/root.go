// Package cmd implements the webutils command line interface.
package cmd

import (
	"net/http"
	"os"

	"github.com/SreeGowri/webutils/pkg/client"
	"github.com/spf13/cobra"
)

type subCommandGroup string

const (
	subCommandGroupBasic    subCommandGroup = "basic"
	subCommandGroupAdvanced subCommandGroup = "advanced"
)

const asciiArt = `
              _           _   _ _
__      _____| |__  _   _| |_(_) |___
\ \ /\ / / _ \ '_ \| | | | __| | / __|
 \ V  V /  __/ |_) | |_| | |_| | \__ \
  \_/\_/ \___|_.__/ \__,_|\__|_|_|___/

`

var (
	rootCmdServerURL   string
	rootCmdAccessToken string

	// apiClient is shared by all subcommands that talk to a running server.
	apiClient *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "webutils",
	Short: "Action-oriented web service utility layer",
	Long: "webutils runs an HTTP server exposing named actions: a self-describing\n" +
		"action catalog, list-of-values resolution, extension attributes and user management.\n" +
		"The same binary doubles as a client for a running server.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		apiClient = client.New(rootCmdServerURL, rootCmdAccessToken, http.DefaultClient)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&rootCmdServerURL,
		"server",
		"http://127.0.0.1:8080",
		"Base URL of the webutils server to talk to",
	)
	rootCmd.PersistentFlags().StringVar(
		&rootCmdAccessToken,
		"access-token",
		"",
		"Bearer access token sent with client commands",
	)
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
