package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/ancestry/am"
	"github.com/teranos/ancestry/db"
	"github.com/teranos/ancestry/display"
	"github.com/teranos/ancestry/errors"
	"github.com/teranos/ancestry/genealogy"
	"github.com/teranos/ancestry/ixgest/tabular"
	"github.com/teranos/ancestry/logger"
	"github.com/teranos/ancestry/storage"
)

// session carries what a command needs once its flags are parsed.
type session struct {
	ctx       context.Context
	cfg       *am.Config
	out       io.Writer
	progress  display.ProgressEmitter
	json      bool
	verbosity int
}

// LoadConfig loads the file named by the root --config flag, or the merged
// configuration cascade when the flag is unset.
func LoadConfig(cmd *cobra.Command) (*am.Config, error) {
	path, _ := cmd.Root().PersistentFlags().GetString("config")
	if path != "" {
		return am.LoadFromFile(path)
	}
	return am.Load()
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	jsonOutput := display.ShouldOutputJSON(cmd)

	var progress display.ProgressEmitter
	if jsonOutput {
		progress = display.NewJSONEmitter(cmd.ErrOrStderr())
	} else {
		progress = display.NewCLIEmitter(cmd.ErrOrStderr(), verbosity)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return &session{
		ctx:       ctx,
		cfg:       cfg,
		out:       cmd.OutOrStdout(),
		progress:  progress,
		json:      jsonOutput,
		verbosity: verbosity,
	}, nil
}

func (s *session) tabularOptions() tabular.Options {
	return tabular.Options{
		Placeholder: s.cfg.GetPlaceholder(),
		Delimiter:   s.cfg.GetDelimiter(),
		Logger:      logger.ComponentLogger("ixgest.tabular"),
	}
}

// warn summarises recoverable load problems on the progress stream. Each
// problem has already been logged by the component that found it.
func (s *session) warn(what string, warnings []genealogy.Warning) {
	if len(warnings) == 0 {
		return
	}
	s.progress.EmitWarning(fmt.Sprintf("%d recoverable problem(s) in %s", len(warnings), what))
}

// openDatabase opens and migrates the database at dbPath, or at the
// configured path when dbPath is empty.
func (s *session) openDatabase(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		dbPath = s.cfg.GetDatabasePath()
	}

	database, err := db.OpenWithMigrations(dbPath, logger.Logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", dbPath)
	}
	return database, nil
}

func (s *session) openStore(dbPath string) (*storage.SQLStore, func() error, error) {
	database, err := s.openDatabase(dbPath)
	if err != nil {
		return nil, nil, err
	}
	return storage.NewSQLStore(database, logger.Logger), database.Close, nil
}

// populationSource names where a population is read from.
type populationSource struct {
	csv    string
	fromDB bool
	dbPath string
}

func (p *populationSource) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.csv, "csv", "", "Population file (.csv, .csv.gz, .csv.zst, or - for stdin)")
	cmd.Flags().BoolVar(&p.fromDB, "db", false, "Read the population from the database instead of --csv")
	cmd.Flags().StringVar(&p.dbPath, "db-path", "", "Database path (default: database.path from config)")
}

// loadPopulation reads the population from src and indexes it.
func (s *session) loadPopulation(src populationSource) (*genealogy.Store, error) {
	var (
		rows     []genealogy.Row
		warnings []genealogy.Warning
		err      error
	)

	switch {
	case src.csv != "" && src.fromDB:
		return nil, errors.WithHint(
			errors.NewInvalidRequestError("--csv and --db are mutually exclusive"),
			"pick one population source",
		)
	case src.csv != "":
		s.progress.EmitStage("load", "reading "+src.csv)
		rows, warnings, err = tabular.ReadRowsFile(src.csv, s.tabularOptions())
		if err != nil {
			return nil, err
		}
	case src.fromDB:
		s.progress.EmitStage("load", "reading population from database")
		st, closeDB, err := s.openStore(src.dbPath)
		if err != nil {
			return nil, err
		}
		defer closeDB()
		rows, err = st.LoadRows(s.ctx)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.WithHint(
			errors.NewInvalidRequestError("no population source"),
			"pass --csv <file> or --db",
		)
	}
	s.warn("input rows", warnings)

	pop, err := genealogy.Load(rows, genealogy.WithLoadLogger(logger.ComponentLogger("genealogy.store")))
	if err != nil {
		return nil, err
	}
	s.warn("population", pop.Warnings())
	s.progress.EmitProgress(pop.Len(), map[string]interface{}{"type": "individuals"})
	return pop, nil
}
