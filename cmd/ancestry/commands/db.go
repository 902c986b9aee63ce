package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/ancestry/display"
	"github.com/teranos/ancestry/genealogy"
	"github.com/teranos/ancestry/ixgest/tabular"
	"github.com/teranos/ancestry/logger"
	"github.com/teranos/ancestry/storage"
	"github.com/teranos/ancestry/sym"
)

// DbCmd represents the db (database) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: sym.DB + " Manage the ancestry database",
	Long: sym.DB + ` db - Manage the ancestry database

Store a population for later builds and inspect saved lineage runs.

Examples:
  ancestry db import pop.csv         # Replace the stored population
  ancestry db stats                  # Population and run counts
  ancestry db runs --limit 10        # Most recent lineage runs
  ancestry db members <run-id>       # Rows of a saved run`,
}

var dbImportCmd = &cobra.Command{
	Use:   "import <population.csv>",
	Short: "Replace the stored population with a tabular file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		return runDbImport(s, dbPathFlag, args[0])
	},
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show population and run statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		return runDbStats(s, dbPathFlag)
	},
}

var dbRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List saved lineage runs, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		return runDbRuns(s, dbPathFlag, runsLimitFlag)
	},
}

var dbMembersCmd = &cobra.Command{
	Use:   "members <run-id>",
	Short: "Write the members of a saved run as rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		return runDbMembers(s, dbPathFlag, args[0])
	},
}

var (
	dbPathFlag    string
	runsLimitFlag int
)

func init() {
	DbCmd.PersistentFlags().StringVar(&dbPathFlag, "path", "", "Database path (default: database.path from config)")
	dbRunsCmd.Flags().IntVar(&runsLimitFlag, "limit", 20, "Number of runs to show (0 for all)")

	DbCmd.AddCommand(dbImportCmd)
	DbCmd.AddCommand(dbStatsCmd)
	DbCmd.AddCommand(dbRunsCmd)
	DbCmd.AddCommand(dbMembersCmd)
}

func runDbImport(s *session, dbPath, csvPath string) error {
	pop, err := s.loadPopulation(populationSource{csv: csvPath})
	if err != nil {
		return err
	}

	st, closeDB, err := s.openStore(dbPath)
	if err != nil {
		return err
	}
	defer closeDB()

	s.progress.EmitStage("import", "writing population")
	n, err := st.SavePopulation(s.ctx, pop)
	if err != nil {
		return err
	}
	logger.ComponentLogger("db").Infow("Population imported",
		logger.FieldPath, csvPath,
		logger.FieldCount, n,
	)

	if s.json {
		return writeJSON(s, map[string]interface{}{"imported": n})
	}
	s.progress.EmitComplete(map[string]interface{}{"imported": n})
	return nil
}

func runDbStats(s *session, dbPath string) error {
	st, closeDB, err := s.openStore(dbPath)
	if err != nil {
		return err
	}
	defer closeDB()

	stats, err := st.Stats(s.ctx)
	if err != nil {
		return err
	}
	if s.json {
		return writeJSON(s, stats)
	}

	fmt.Fprintln(s.out, sym.Prefix("db", "Database Statistics"))
	return display.Table(s.out, []string{"Metric", "Value"}, [][]string{
		{"Individuals", fmt.Sprint(stats.Individuals)},
		{"With birth year", fmt.Sprint(stats.WithBirthYear)},
		{"With birth place", fmt.Sprint(stats.WithBirthPlace)},
		{"Earliest birth", optionalCell(stats.EarliestBirth)},
		{"Latest birth", optionalCell(stats.LatestBirth)},
		{"Saved runs", fmt.Sprint(stats.Runs)},
	})
}

func formatRoots(roots []genealogy.ID) string {
	parts := make([]string, len(roots))
	for i, r := range roots {
		parts[i] = fmt.Sprint(r)
	}
	return strings.Join(parts, " ")
}

func runDbRuns(s *session, dbPath string, limit int) error {
	st, closeDB, err := s.openStore(dbPath)
	if err != nil {
		return err
	}
	defer closeDB()

	runs, err := st.ListRuns(s.ctx, limit)
	if err != nil {
		return err
	}
	if s.json {
		if runs == nil {
			runs = []storage.Run{}
		}
		return writeJSON(s, runs)
	}
	if len(runs) == 0 {
		s.progress.EmitInfo("no saved runs")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			formatRoots(r.Roots),
			optionalCell(r.MaxDepth),
			optionalCell(r.MinBirthYear),
			fmt.Sprint(r.MemberCount),
		})
	}
	return display.Table(s.out, []string{"Run", "Created", "Roots", "Max depth", "Min birth year", "Members"}, rows)
}

func runDbMembers(s *session, dbPath, runID string) error {
	st, closeDB, err := s.openStore(dbPath)
	if err != nil {
		return err
	}
	defer closeDB()

	rows, err := st.RunMembers(s.ctx, runID)
	if err != nil {
		return err
	}
	if s.json {
		return writeJSON(s, rows)
	}
	return tabular.WriteRows(s.out, rows, s.tabularOptions())
}
