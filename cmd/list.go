package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List entities on the webutils server",
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "2",
	},
}

var listActionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the actions exposed by the server",
	Long: "Fetches the action catalog from the server and prints every action\n" +
		"with its HTTP binding. The catalog is what clients use to build requests.",
	RunE: runListActions,
}

func init() {
	listCmd.AddCommand(listActionsCmd)
	rootCmd.AddCommand(listCmd)
}

func runListActions(cmd *cobra.Command, args []string) error {
	actions, err := apiClient.FetchActions(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch action catalog: %w", err)
	}
	if len(actions) == 0 {
		cmd.Println("The server exposes no actions.")
		return nil
	}

	for _, a := range actions {
		cmd.Printf("%s\n", a.Name)
		cmd.Printf("    %s %s\n", a.Method, a.URL)
		if a.BodyExpected {
			cmd.Println("    expects a JSON body")
		}
		if len(a.RequestParameters) > 0 {
			cmd.Printf("    request parameters: %v\n", a.RequestParameters)
		}
		if a.AttachmentsExpected {
			cmd.Printf("    file fields: %v\n", a.FileFields)
		}
		cmd.Println()
	}
	return nil
}
