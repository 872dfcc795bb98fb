package types

import "errors"

// Config holds backend selection and parameters for Store.Attach.
type Config struct {
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`
	Driver  string `json:"driver,omitempty" yaml:"driver,omitempty" mapstructure:"driver"`
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
}

// Supported backend names. The inert backend accepts every call and stores
// nothing; it is also what sqlite degrades to on platforms without SQLite.
const (
	BackendSQLite = "sqlite"
	BackendInert  = "inert"
)

// Supported SQLite drivers.
const (
	DriverModernc = "modernc"
	DriverNcruces = "ncruces"
)

// DefaultDriver is used when Config.Driver is empty.
const DefaultDriver = DriverModernc

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrDriverUnknown  = errors.New("unknown sqlite driver")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendInert:  true,
}

// knownDrivers lists the drivers that Validate accepts.
var knownDrivers = map[string]bool{
	DriverModernc: true,
	DriverNcruces: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Driver != "" && !knownDrivers[c.Driver] {
		return ErrDriverUnknown
	}
	return nil
}

// GetDriver returns the configured driver, or DefaultDriver when unset.
func (c Config) GetDriver() string {
	if c.Driver == "" {
		return DefaultDriver
	}
	return c.Driver
}
