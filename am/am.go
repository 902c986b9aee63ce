// Package am loads, validates and persists ancestry configuration.
//
// Settings are merged from TOML files and environment variables, lowest
// precedence first:
//
//	built-in defaults
//	/etc/ancestry/config.toml
//	~/.ancestry/am.toml
//	am.toml in the working directory or the nearest parent
//	ANCESTRY_* environment variables
package am

// Config represents the ancestry configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database" toml:"database" json:"database" yaml:"database"`
	Lineage  LineageConfig  `mapstructure:"lineage" toml:"lineage" json:"lineage" yaml:"lineage"`
	Ingest   IngestConfig   `mapstructure:"ingest" toml:"ingest" json:"ingest" yaml:"ingest"`
	Log      LogConfig      `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// DatabaseConfig configures the SQLite database
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path" json:"path" yaml:"path"`
}

// LineageConfig holds default cutoffs for lineage builds.
// nil means no limit; command-line flags override both.
type LineageConfig struct {
	// MaxDepth is the number of parent generations; 0 keeps only the roots.
	MaxDepth *int `mapstructure:"max_depth" toml:"max_depth,omitempty" json:"max_depth,omitempty" yaml:"max_depth,omitempty"`
	// MinBirthYear excludes earlier-born ancestors; unknown years are kept.
	MinBirthYear *int `mapstructure:"min_birth_year" toml:"min_birth_year,omitempty" json:"min_birth_year,omitempty" yaml:"min_birth_year,omitempty"`
}

// IngestConfig configures tabular input and output
type IngestConfig struct {
	// Placeholder is read and written for missing values (default: NA)
	Placeholder string `mapstructure:"placeholder" toml:"placeholder" json:"placeholder" yaml:"placeholder"`
	// Delimiter is a single character (default: ,)
	Delimiter string `mapstructure:"delimiter" toml:"delimiter" json:"delimiter" yaml:"delimiter"`
}

// LogConfig configures logging
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
}

// Default values
const (
	DefaultDatabasePath = "ancestry.db"
	DefaultPlaceholder  = "NA"
	DefaultDelimiter    = ","
)

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
