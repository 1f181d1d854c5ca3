package cmd

import (
	"testing"

	"github.com/SreeGowri/webutils/pkg/testhelpers"
	"github.com/SreeGowri/webutils/pkg/types"
)

func TestCreateCommandStructure(t *testing.T) {
	t.Parallel()

	// Test command properties
	testhelpers.AssertEqual(t, "create", createCmd.Use)
	testhelpers.AssertEqual(t, "Create entities in webutils", createCmd.Short)

	// Test command annotations
	annotationTests := []testhelpers.CommandAnnotationTest{
		{Key: "group", Expected: string(subCommandGroupAdvanced)},
		{Key: "order", Expected: "4"},
	}
	testhelpers.TestCommandAnnotations(t, createCmd.Annotations, annotationTests)

	// Test subcommands count
	subcommands := createCmd.Commands()
	testhelpers.AssertEqual(t, 2, len(subcommands))
}

func TestCreateUserSubcommand(t *testing.T) {
	// Test command properties
	testhelpers.AssertEqual(t, "user [username] | --conf <file>", createUserCmd.Use)
	testhelpers.AssertEqual(t, "Create a new user", createUserCmd.Short)
	testhelpers.AssertNotNil(t, createUserCmd.Long)
	testhelpers.AssertTrue(t, len(createUserCmd.Long) > 0, "Long description should not be empty")

	// Test command functions
	testhelpers.AssertNotNil(t, createUserCmd.RunE)
	testhelpers.AssertNotNil(t, createUserCmd.Args)

	// Test command flags
	passwordFlag := createUserCmd.Flags().Lookup("password")
	testhelpers.AssertNotNil(t, passwordFlag)
	testhelpers.AssertTrue(t, len(passwordFlag.Usage) > 0, "Password flag should have usage description")

	rolesFlag := createUserCmd.Flags().Lookup("roles")
	testhelpers.AssertNotNil(t, rolesFlag)
	testhelpers.AssertTrue(t, len(rolesFlag.Usage) > 0, "Roles flag should have usage description")

	confFlag := createUserCmd.Flags().Lookup("conf")
	testhelpers.AssertNotNil(t, confFlag)
	testhelpers.AssertTrue(t, len(confFlag.Usage) > 0, "Config flag should have usage description")
}

func TestCreateEmployeeSubcommand(t *testing.T) {
	testhelpers.AssertEqual(t, "employee [name]", createEmployeeCmd.Use)
	testhelpers.AssertNotNil(t, createEmployeeCmd.RunE)
	testhelpers.AssertNotNil(t, createEmployeeCmd.Args)

	salaryFlag := createEmployeeCmd.Flags().Lookup("salary")
	testhelpers.AssertNotNil(t, salaryFlag)
	testhelpers.AssertTrue(t, len(salaryFlag.Usage) > 0, "Salary flag should have usage description")
}

func TestCreateCommandVariables(t *testing.T) {
	// Test that command variables are properly initialized to empty values
	testhelpers.AssertEqual(t, "", createUserCmdPassword)
	testhelpers.AssertEqual(t, "", createUserCmdDisplayName)
	testhelpers.AssertEqual(t, "", createUserCmdRoles)
	testhelpers.AssertEqual(t, "", createUserCmdConfigFilePath)
}

// Integration tests for create commands
func TestCreateCommandIntegration(t *testing.T) {
	testhelpers.AssertNotNil(t, createCmd)

	subcommands := createCmd.Commands()
	expectedSubcommands := []string{"user", "employee"}

	testhelpers.AssertEqual(t, len(expectedSubcommands), len(subcommands))

	for _, expected := range expectedSubcommands {
		found := false
		for _, subcmd := range subcommands {
			if subcmd.Name() == expected {
				found = true
				break
			}
		}
		testhelpers.AssertTrue(t, found, "Expected subcommand '"+expected+"' not found")
	}
}

// Test argument validation
func TestCreateCommandArgumentValidation(t *testing.T) {
	testhelpers.AssertNotNil(t, createUserCmd.Args)
	testhelpers.AssertNotNil(t, createEmployeeCmd.Args)

	testCases := []struct {
		name        string
		args        []string
		expectError bool
	}{
		{"empty args", []string{}, true},
		{"too many args", []string{"arg1", "arg2", "arg3"}, true},
		{"valid single arg", []string{"valid-arg"}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if createUserCmd.Args != nil {
				err := createUserCmd.Args(createUserCmd, tc.args)
				if tc.expectError {
					testhelpers.AssertError(t, err)
				} else {
					testhelpers.AssertNoError(t, err)
				}
			}

			if createEmployeeCmd.Args != nil {
				err := createEmployeeCmd.Args(createEmployeeCmd, tc.args)
				if tc.expectError {
					testhelpers.AssertError(t, err)
				} else {
					testhelpers.AssertNoError(t, err)
				}
			}
		})
	}
}

func TestParseRoles(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected []types.UserRole
	}{
		{"empty string", "", []types.UserRole{}},
		{"single role", "admin", []types.UserRole{types.UserRoleAdmin}},
		{"multiple roles", "admin,client_admin", []types.UserRole{types.UserRoleAdmin, types.UserRoleClientAdmin}},
		{"roles with spaces", "admin, client_admin ", []types.UserRole{types.UserRoleAdmin, types.UserRoleClientAdmin}},
		{"roles with empty elements", "admin,,user", []types.UserRole{types.UserRoleAdmin, types.UserRoleUser}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := parseRoles(tc.input)
			testhelpers.AssertEqual(t, len(tc.expected), len(got))
			for i, role := range got {
				testhelpers.AssertEqual(t, tc.expected[i], role)
			}
		})
	}
}
