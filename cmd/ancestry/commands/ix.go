package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/ancestry/errors"
	"github.com/teranos/ancestry/ixgest/gedcom"
	"github.com/teranos/ancestry/ixgest/tabular"
	"github.com/teranos/ancestry/logger"
	"github.com/teranos/ancestry/sym"
)

// IxCmd represents the ix command - ingestion of external formats
var IxCmd = &cobra.Command{
	Use:   "ix",
	Short: sym.IX + " Convert and clean GEDCOM exports",
	Long: sym.IX + ` Ingestion (ix) - bring external genealogy data into tabular form.

Inputs and outputs ending in .gz or .zst are (de)compressed transparently;
- reads stdin or writes stdout.

Examples:
  ancestry ix clean export.ged clean.ged   # Re-join wrapped lines
  ancestry ix ged clean.ged pop.csv        # GEDCOM individuals to rows
  ancestry ix refn clean.ged refn.csv      # RIN to REFN mapping`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var ixGedCmd = &cobra.Command{
	Use:   "ged <in.ged> <out.csv>",
	Short: "Convert GEDCOM individuals to population rows",
	Long: `Convert every INDI record to a row: identifier from the xref, parents
from the first FAMC family's HUSB and WIFE, SEX, the first four-digit year
of BIRT DATE and BIRT PLAC. Individuals whose xref has no number are skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		return runIxGed(s, args[0], args[1])
	},
}

var ixRefnCmd = &cobra.Command{
	Use:   "refn <in.ged> <out.csv>",
	Short: "Extract RIN and REFN pairs from GEDCOM individuals",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		return runIxRefn(s, args[0], args[1])
	},
}

var ixCleanCmd = &cobra.Command{
	Use:   "clean <in.ged> <out.ged>",
	Short: "Re-join wrapped GEDCOM lines and drop blank lines",
	Long: `Lines that do not start with a level number are appended, after a
space, to the previous line. Blank lines are dropped.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		return runIxClean(s, args[0], args[1])
	},
}

func init() {
	IxCmd.AddCommand(ixGedCmd)
	IxCmd.AddCommand(ixRefnCmd)
	IxCmd.AddCommand(ixCleanCmd)
}

func parseGedcom(s *session, path string) (*gedcom.File, error) {
	s.progress.EmitStage("parse", "reading "+path)
	in, err := tabular.OpenInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	f, err := gedcom.Parse(in, gedcom.WithLogger(logger.ComponentLogger("ixgest.gedcom")))
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "parse %s", path),
			"run 'ancestry ix clean' first if the export wraps long lines",
		)
	}
	return f, nil
}

// finish closes out, keeping the first error.
func finish(out interface{ Close() error }, err error) error {
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

func runIxGed(s *session, inPath, outPath string) error {
	f, err := parseGedcom(s, inPath)
	if err != nil {
		return err
	}

	rows, warnings := f.Rows()
	s.warn(inPath, warnings)

	if err := tabular.WriteRowsFile(outPath, rows, s.tabularOptions()); err != nil {
		return err
	}
	s.progress.EmitComplete(map[string]interface{}{
		"individuals": len(rows),
		"warnings":    len(warnings),
		"output":      outPath,
	})
	return nil
}

func runIxRefn(s *session, inPath, outPath string) error {
	f, err := parseGedcom(s, inPath)
	if err != nil {
		return err
	}
	refs := f.References()

	out, err := tabular.CreateOutput(outPath)
	if err != nil {
		return err
	}
	if err := finish(out, gedcom.WriteReferences(out, refs)); err != nil {
		return errors.Wrapf(err, "write %s", outPath)
	}
	s.progress.EmitComplete(map[string]interface{}{"references": len(refs), "output": outPath})
	return nil
}

func runIxClean(s *session, inPath, outPath string) error {
	in, err := tabular.OpenInput(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := tabular.CreateOutput(outPath)
	if err != nil {
		return err
	}
	if err := finish(out, gedcom.CleanLines(in, out)); err != nil {
		return errors.Wrapf(err, "clean %s", inPath)
	}
	s.progress.EmitComplete(map[string]interface{}{"output": outPath})
	s.progress.EmitInfo(fmt.Sprintf("cleaned %s", inPath))
	return nil
}
