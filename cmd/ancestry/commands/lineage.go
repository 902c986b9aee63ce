package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/ancestry/display"
	"github.com/teranos/ancestry/errors"
	"github.com/teranos/ancestry/genealogy"
	"github.com/teranos/ancestry/graph"
	"github.com/teranos/ancestry/internal/util"
	"github.com/teranos/ancestry/ixgest/tabular"
	"github.com/teranos/ancestry/logger"
	"github.com/teranos/ancestry/sym"
)

// LineageCmd groups lineage reconstruction commands
var LineageCmd = &cobra.Command{
	Use:   "lineage",
	Short: sym.AX + " Reconstruct ancestor lineages",
	Long: sym.AX + ` lineage - Reconstruct ancestor lineages

Expand one or more individuals to all of their recorded ancestors and write
the merged genealogy in the same tabular format as the input.

Examples:
  ancestry lineage build --csv pop.csv --ind probands.txt --out lineages.csv
  ancestry lineage build --csv pop.csv --id 12 --id 40 --max-depth 3
  ancestry lineage build --db --ind probands.txt --min-birth-year 1750 --save
  ancestry lineage build --csv pop.csv --id 12 --format graph --out tree.json
  ancestry lineage depth --csv pop.csv 12 40`,
}

var lineageBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the genealogy of a set of individuals",
	Long: `Build the genealogy of a set of individuals.

Roots come from --ind (one identifier per line) and/or repeated --id flags.
--max-depth and --min-birth-year override the [lineage] config defaults.
An ancestor born before --min-birth-year is excluded together with the
ancestry above it; unknown birth years are never excluded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		opts := buildFlags
		if cmd.Flags().Changed("max-depth") {
			opts.maxDepth = util.Ptr(buildMaxDepth)
		}
		if cmd.Flags().Changed("min-birth-year") {
			opts.minBirthYear = util.Ptr(buildMinBirthYear)
		}
		return runLineageBuild(s, opts)
	},
}

var lineageDepthCmd = &cobra.Command{
	Use:   "depth <id>...",
	Short: "Count the generations above individuals",
	Long: `Print the greatest number of parent links that can be followed upward
from each individual. Parents absent from the population end a chain.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		ids := make([]genealogy.ID, 0, len(args))
		for _, arg := range args {
			id, err := tabular.ParseID(arg)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return runLineageDepth(s, depthSource, ids)
	},
}

// buildOptions holds lineage build inputs after flag parsing.
type buildOptions struct {
	source       populationSource
	indFile      string
	ids          []int64
	out          string
	format       string
	save         bool
	maxDepth     *int
	minBirthYear *int
}

var (
	buildFlags        buildOptions
	buildMaxDepth     int
	buildMinBirthYear int
	depthSource       populationSource
)

func init() {
	buildFlags.source.register(lineageBuildCmd)
	lineageBuildCmd.Flags().StringVar(&buildFlags.indFile, "ind", "", "File of root identifiers, one per line")
	lineageBuildCmd.Flags().Int64SliceVar(&buildFlags.ids, "id", nil, "Root identifier (repeatable)")
	lineageBuildCmd.Flags().StringVarP(&buildFlags.out, "out", "o", tabular.Stdio, "Output file (.csv, .csv.gz, .csv.zst, or - for stdout)")
	lineageBuildCmd.Flags().StringVar(&buildFlags.format, "format", formatCSV, "Output format: csv, graph (node-link JSON)")
	lineageBuildCmd.Flags().BoolVar(&buildFlags.save, "save", false, "Record the run and its members in the database")
	lineageBuildCmd.Flags().IntVar(&buildMaxDepth, "max-depth", 0, "Parent generations to follow (0 keeps only the roots)")
	lineageBuildCmd.Flags().IntVar(&buildMinBirthYear, "min-birth-year", 0, "Exclude ancestors born before this year")

	depthSource.register(lineageDepthCmd)

	LineageCmd.AddCommand(lineageBuildCmd)
	LineageCmd.AddCommand(lineageDepthCmd)
}

// resolveQuery merges roots from the ID file and flags, and applies flag
// cutoffs over the configured defaults.
func resolveQuery(s *session, opts buildOptions) (genealogy.Query, error) {
	var q genealogy.Query

	if opts.indFile != "" {
		ids, err := tabular.ReadIDsFile(opts.indFile)
		if err != nil {
			return q, err
		}
		q.Roots = append(q.Roots, ids...)
	}
	for _, id := range opts.ids {
		q.Roots = append(q.Roots, genealogy.ID(id))
	}
	if len(q.Roots) == 0 {
		return q, errors.WithHint(
			errors.Wrap(genealogy.ErrOptionViolation, "no root individuals given"),
			"pass --ind <file> or --id <n>",
		)
	}

	q.MaxDepth = s.cfg.Lineage.MaxDepth
	if opts.maxDepth != nil {
		q.MaxDepth = opts.maxDepth
	}
	q.MinBirthYear = s.cfg.Lineage.MinBirthYear
	if opts.minBirthYear != nil {
		q.MinBirthYear = opts.minBirthYear
	}
	return q, q.Validate()
}

// Output formats for lineage build
const (
	formatCSV   = "csv"
	formatGraph = "graph"
)

// buildResult is the --json rendering of a lineage build.
type buildResult struct {
	Query   genealogy.Query `json:"query"`
	Members int             `json:"members"`
	RunID   string          `json:"run_id,omitempty"`
	Rows    []genealogy.Row `json:"rows"`
}

func runLineageBuild(s *session, opts buildOptions) error {
	log := logger.ComponentLogger("lineage")

	switch opts.format {
	case "", formatCSV, formatGraph:
	default:
		return errors.WithHint(
			errors.NewInvalidRequestError("unsupported format %q", opts.format),
			"use csv or graph",
		)
	}

	q, err := resolveQuery(s, opts)
	if err != nil {
		return err
	}

	pop, err := s.loadPopulation(opts.source)
	if err != nil {
		return err
	}

	s.progress.EmitStage("build", fmt.Sprintf("expanding %d root(s)", len(q.Roots)))
	start := time.Now()
	g, err := genealogy.BuildQuery(pop, q, genealogy.WithLogger(logger.ComponentLogger("genealogy.builder")))
	if err != nil {
		return errors.Wrap(err, "failed to build genealogy")
	}
	log.Infow("Genealogy built",
		logger.FieldRoots, len(q.Roots),
		logger.FieldCount, g.Len(),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)

	var runID string
	if opts.save {
		st, closeDB, err := s.openStore(opts.source.dbPath)
		if err != nil {
			return err
		}
		defer closeDB()
		runID, err = st.SaveRun(s.ctx, q, g)
		if err != nil {
			return err
		}
		s.progress.EmitInfo("saved run " + runID)
	}

	if opts.format == formatGraph {
		if err := writeGraph(s, opts.out, q, g); err != nil {
			return err
		}
		s.progress.EmitComplete(map[string]interface{}{"members": g.Len(), "output": opts.out})
		return nil
	}

	rows := g.Rows()
	if s.json {
		return writeJSON(s, buildResult{Query: q, Members: g.Len(), RunID: runID, Rows: rows})
	}

	if opts.out == "" || opts.out == tabular.Stdio {
		if err := tabular.WriteRows(s.out, rows, s.tabularOptions()); err != nil {
			return err
		}
	} else if err := tabular.WriteRowsFile(opts.out, rows, s.tabularOptions()); err != nil {
		return err
	}

	summary := map[string]interface{}{"members": g.Len(), "roots": len(q.Roots), "output": opts.out}
	if runID != "" {
		summary["run_id"] = runID
	}
	s.progress.EmitComplete(summary)
	return nil
}

// depthResult is one line of lineage depth output.
type depthResult struct {
	ID    genealogy.ID `json:"id"`
	Depth int          `json:"depth"`
}

func runLineageDepth(s *session, src populationSource, ids []genealogy.ID) error {
	pop, err := s.loadPopulation(src)
	if err != nil {
		return err
	}

	results := make([]depthResult, 0, len(ids))
	for _, id := range ids {
		d, err := genealogy.Depth(pop, id)
		if err != nil {
			return err
		}
		results = append(results, depthResult{ID: id, Depth: d})
	}

	if s.json {
		return writeJSON(s, results)
	}
	for _, r := range results {
		fmt.Fprintf(s.out, "%d\t%d\n", r.ID, r.Depth)
	}
	return nil
}

// writeGraph renders g as node-link JSON to out ("-" or empty for stdout).
func writeGraph(s *session, out string, q genealogy.Query, g *genealogy.Genealogy) error {
	config := map[string]string{"roots": formatRoots(q.Roots)}
	if q.MaxDepth != nil {
		config["max_depth"] = fmt.Sprint(*q.MaxDepth)
	}
	if q.MinBirthYear != nil {
		config["min_birth_year"] = fmt.Sprint(*q.MinBirthYear)
	}
	rendered := graph.NewBuilder(logger.Logger).Build(g, q.Roots, config)

	if out == "" || out == tabular.Stdio {
		return display.OutputJSON(s.out, rendered)
	}
	w, err := tabular.CreateOutput(out)
	if err != nil {
		return err
	}
	if err := finish(w, display.OutputJSON(w, rendered)); err != nil {
		return errors.Wrapf(err, "write %s", out)
	}
	return nil
}
