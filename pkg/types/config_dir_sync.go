package types

// DefaultConfigSyncDirName is the default name of the directory containing entity
// configuration files for syncing with the service.
const DefaultConfigSyncDirName = ".webutils"

const (
	ConfigSyncUsersDirName     = "users"
	ConfigSyncEmployeesDirName = "employees"
)

// EmployeeConfig describes the JSON configuration for declaring an employee in
// the auto-synced config directory.
type EmployeeConfig struct {
	Name   string `json:"name"`
	Salary int64  `json:"salary"`
}
