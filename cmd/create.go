package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/SreeGowri/webutils/pkg/client"
	"github.com/SreeGowri/webutils/pkg/types"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create entities in webutils",
	Annotations: map[string]string{
		"group": string(subCommandGroupAdvanced),
		"order": "4",
	},
}

var createUserCmd = &cobra.Command{
	Use: "user [username] | --conf <file>",
	Args: func(cmd *cobra.Command, args []string) error {
		// if a config file is provided, no positional args are expected
		if createUserCmdConfigFilePath != "" {
			return cobra.ExactArgs(0)(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	Short: "Create a new user",
	Long: "Create a new user on the webutils server.\n" +
		"The server responds with an access token which the user should send in the\n" +
		"`Authorization: Bearer {token}` http header on subsequent requests.\n" +
		"Alternatively, you can supply a JSON config file using the --conf flag.\n\n" +
		"Creating users requires the admin role, so run this command with --access-token set\n" +
		"to an admin token.",
	RunE: runCreateUser,
}

var createEmployeeCmd = &cobra.Command{
	Use:   "employee [name]",
	Args:  cobra.ExactArgs(1),
	Short: "Create a new employee",
	Long: "Create a new employee record on the webutils server.\n" +
		"The server responds with the identity assigned to the new record.",
	RunE: runCreateEmployee,
}

var (
	createUserCmdPassword       string
	createUserCmdDisplayName    string
	createUserCmdRoles          string
	createUserCmdConfigFilePath string

	createEmployeeCmdSalary int64
)

func init() {
	createUserCmd.Flags().StringVar(
		&createUserCmdPassword,
		"password",
		"",
		"Password for the new user (min 8 characters).",
	)
	createUserCmd.Flags().StringVar(
		&createUserCmdDisplayName,
		"display-name",
		"",
		"Human-readable display name for the new user.",
	)
	createUserCmd.Flags().StringVar(
		&createUserCmdRoles,
		"roles",
		"",
		"Comma-separated list of roles to grant, e.g. \"admin,client_admin\".\n"+
			"By default the user only gets the standard user role.",
	)
	createUserCmd.Flags().StringVarP(
		&createUserCmdConfigFilePath,
		"conf",
		"c",
		"",
		"Path to a JSON configuration file for the user.\n"+
			"If provided, the user will be created using the configuration in the file.\n"+
			"All other flags will be ignored.",
	)

	createEmployeeCmd.Flags().Int64Var(
		&createEmployeeCmdSalary,
		"salary",
		0,
		"Salary of the new employee.",
	)

	createCmd.AddCommand(createUserCmd)
	createCmd.AddCommand(createEmployeeCmd)

	rootCmd.AddCommand(createCmd)
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	var req *types.CreateUserRequest

	if createUserCmdConfigFilePath == "" {
		// no config file provided, use command line args
		req = &types.CreateUserRequest{
			Username:    args[0],
			Password:    createUserCmdPassword,
			DisplayName: createUserCmdDisplayName,
			Roles:       parseRoles(createUserCmdRoles),
		}
		if req.DisplayName == "" {
			req.DisplayName = req.Username
		}
	} else {
		// config file provided, ignore command line args and read from file
		config, err := readUserConfig(createUserCmdConfigFilePath)
		if err != nil {
			return err
		}
		if config.Username == "" {
			return fmt.Errorf("config file must define a username")
		}
		req = &types.CreateUserRequest{
			Username:    config.Username,
			Password:    config.Password,
			DisplayName: config.DisplayName,
			Roles:       config.Roles,
		}
	}
	if req.Password == "" {
		return fmt.Errorf("a password must be supplied via --password or the config file")
	}

	var resp types.CreateUserResponse
	if err := apiClient.Invoke(cmd.Context(), "user.save", &client.Input{Payload: req}, &resp); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if resp.AccessToken == "" {
		return fmt.Errorf("server returned an empty access token, this was unexpected")
	}

	cmd.Printf("User '%s' created successfully\n", resp.Username)
	cmd.Print("\nAccess token: " + resp.AccessToken + "\n\n")
	cmd.Println("The user should send the access token in the `Authorization: Bearer {token}` HTTP header.")

	return nil
}

func runCreateEmployee(cmd *cobra.Command, args []string) error {
	req := &types.EmployeeModel{
		Name:   args[0],
		Salary: createEmployeeCmdSalary,
	}

	var resp types.BasicSaveResponse
	if err := apiClient.Invoke(cmd.Context(), "employee.save", &client.Input{Payload: req}, &resp); err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}

	cmd.Printf("Employee '%s' created with id %d\n", req.Name, resp.ID)
	return nil
}

// readUserConfig reads the user configuration from a JSON file.
func readUserConfig(filePath string) (*types.UserConfig, error) {
	var input types.UserConfig

	data, err := os.ReadFile(filePath)
	if err != nil {
		return &input, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}
	if err := json.Unmarshal(data, &input); err != nil {
		return &input, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &input, nil
}

// parseRoles parses a comma-separated string of roles into a slice.
func parseRoles(input string) []types.UserRole {
	roles := make([]types.UserRole, 0)
	for _, s := range strings.Split(input, ",") {
		trimmed := strings.TrimSpace(s)
		if trimmed != "" {
			roles = append(roles, types.UserRole(trimmed))
		}
	}
	return roles
}
