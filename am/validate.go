package am

import (
	"unicode/utf8"

	"github.com/teranos/ancestry/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Database path is optional - empty defaults to DefaultDatabasePath

	// Max depth: 0 = roots only, negative = invalid, nil = unlimited
	if c.Lineage.MaxDepth != nil && *c.Lineage.MaxDepth < 0 {
		return errors.WithHint(
			errors.Newf("lineage.max_depth must be >= 0, got %d", *c.Lineage.MaxDepth),
			"omit lineage.max_depth for no limit",
		)
	}

	// Min birth year: any value is accepted, including negative (BCE) years

	if c.Ingest.Placeholder == "" {
		return errors.New("ingest.placeholder cannot be empty (omit for default NA)")
	}

	if utf8.RuneCountInString(c.Ingest.Delimiter) != 1 {
		return errors.Newf("ingest.delimiter must be a single character, got %q", c.Ingest.Delimiter)
	}
	if d := c.GetDelimiter(); d == '"' || d == '\r' || d == '\n' || d == utf8.RuneError {
		return errors.Newf("ingest.delimiter %q cannot be used as a field separator", c.Ingest.Delimiter)
	}

	return nil
}
