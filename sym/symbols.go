// Package sym defines the glyphs that mark ancestry commands and subsystems
// in terminal output and structured logs.
package sym

import (
	"fmt"
	"strings"
)

// Command glyphs.
const (
	AM = "≡" // am - configuration
	IX = "⨳" // ix - ingest external data (CSV, GEDCOM)
	AX = "⋈" // ax - expand lineages from a population
)

// System infrastructure symbols.
const (
	DB = "⊔" // database/storage layer
)

// Order is the canonical ordering of command glyphs in help output.
var Order = []string{AM, AX, IX, DB}

// Commands lists the text command for each glyph in Order.
var Commands = []string{"am", "lineage", "ix", "db"}

// SymbolToCommand maps glyph strings to their text command equivalents.
var SymbolToCommand = map[string]string{
	AM: "am",
	IX: "ix",
	AX: "lineage",
	DB: "db",
}

// CommandToSymbol maps text commands to their canonical glyph strings.
var CommandToSymbol = map[string]string{
	"am":      AM,
	"ix":      IX,
	"lineage": AX,
	"db":      DB,
}

// CommandDescriptions provides one-line explanations used in command help.
var CommandDescriptions = map[string]string{
	"am":      "Configuration: show, validate and initialise settings",
	"ix":      "Ingest: convert and clean GEDCOM exports",
	"lineage": "Expand: reconstruct ancestor lineages",
	"db":      "Storage: import populations and list saved runs",
}

// Summary lists every command as "glyph command  description", one per
// line, in Order.
func Summary() string {
	var b strings.Builder
	for i, glyph := range Order {
		fmt.Fprintf(&b, "  %s %-8s %s\n", glyph, Commands[i], CommandDescriptions[Commands[i]])
	}
	return b.String()
}

// Prefix returns "glyph text" for a command, or text alone if the command has
// no glyph.
func Prefix(command, text string) string {
	if g, ok := CommandToSymbol[command]; ok {
		return g + " " + text
	}
	return text
}
