package am

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/viper"

	"github.com/teranos/ancestry/genealogy"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)

	v.SetDefault("ingest.placeholder", DefaultPlaceholder)
	v.SetDefault("ingest.delimiter", DefaultDelimiter)

	v.SetDefault("log.json", false)
}

// envKeys lists every setting that can be overridden from the environment.
// Keys without a default must be bound explicitly for Unmarshal to see them.
var envKeys = []string{
	"database.path",
	"lineage.max_depth",
	"lineage.min_birth_year",
	"ingest.placeholder",
	"ingest.delimiter",
	"log.json",
}

// BindEnvVars binds each setting to its ANCESTRY_* environment variable
func BindEnvVars(v *viper.Viper) {
	for _, key := range envKeys {
		v.BindEnv(key, EnvVar(key))
	}
}

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return DefaultDatabasePath
	}
	return c.Database.Path
}

// GetPlaceholder returns the missing-value token (default: NA)
func (c *Config) GetPlaceholder() string {
	if c.Ingest.Placeholder == "" {
		return DefaultPlaceholder
	}
	return c.Ingest.Placeholder
}

// GetDelimiter returns the field delimiter as a rune (default: ',')
func (c *Config) GetDelimiter() rune {
	r, size := utf8.DecodeRuneInString(c.Ingest.Delimiter)
	if size == 0 || r == utf8.RuneError {
		return ','
	}
	return r
}

// Cutoffs converts the configured lineage defaults
func (c *Config) Cutoffs() genealogy.Cutoffs {
	var cut genealogy.Cutoffs
	if c.Lineage.MaxDepth != nil {
		cut.MaxDepth = genealogy.Some(*c.Lineage.MaxDepth)
	}
	if c.Lineage.MinBirthYear != nil {
		cut.MinBirthYear = genealogy.Some(*c.Lineage.MinBirthYear)
	}
	return cut
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Database: %s, Lineage: {MaxDepth: %s, MinBirthYear: %s}, Ingest: {Placeholder: %s}}",
		c.GetDatabasePath(), c.Cutoffs().MaxDepth, c.Cutoffs().MinBirthYear, c.GetPlaceholder())
}
