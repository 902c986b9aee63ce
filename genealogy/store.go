package genealogy

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/teranos/ancestry/errors"
	"github.com/teranos/ancestry/logger"
)

// Warning describes a recoverable problem found while loading a population.
type Warning struct {
	ID      ID     `json:"id"`
	Row     int    `json:"row"` // 1-based position in the input
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d: individual %d: %s", w.Row, w.ID, w.Message)
}

// Store maps identifiers to records for a whole population.
// It is built once by Load and never modified afterwards, so it is safe
// for concurrent readers.
type Store struct {
	records  map[ID]Record
	order    []ID
	warnings []Warning
}

// LoadOption configures Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	logger *zap.SugaredLogger
}

// WithLoadLogger sets the logger used to report duplicate identifiers.
func WithLoadLogger(l *zap.SugaredLogger) LoadOption {
	return func(c *loadConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Load builds a Store from rows in input order.
//
// The first row seen for an identifier wins; later rows with the same
// identifier are discarded and recorded as warnings. A row whose identifier
// is not positive fails the load with ErrReservedID, because 0 is the
// NoParent sentinel and could never be told apart from "no parent".
func Load(rows []Row, opts ...LoadOption) (*Store, error) {
	cfg := loadConfig{logger: logger.ComponentLogger("genealogy.store")}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Store{
		records: make(map[ID]Record, len(rows)),
		order:   make([]ID, 0, len(rows)),
	}
	for i, row := range rows {
		if row.ID <= 0 {
			return nil, errors.Wrapf(ErrReservedID, "row %d: individual %d", i+1, row.ID)
		}
		if _, exists := s.records[row.ID]; exists {
			w := Warning{
				ID:      row.ID,
				Row:     i + 1,
				Message: "associated with multiple records, ignoring all but the first seen",
			}
			s.warnings = append(s.warnings, w)
			cfg.logger.Warnw("Duplicate individual in population",
				logger.FieldIndividualID, row.ID,
				"row", w.Row,
			)
			continue
		}
		s.records[row.ID] = row.Record
		s.order = append(s.order, row.ID)
	}

	cfg.logger.Debugw("Population loaded",
		logger.FieldCount, len(s.order),
		logger.FieldWarnings, len(s.warnings),
	)
	return s, nil
}

// Get returns the record for id. The second result is false when the
// individual is unknown to the store; that is not an error.
func (s *Store) Get(id ID) (Record, bool) {
	rec, ok := s.records[id]
	return rec, ok
}

// Has reports whether id is present.
func (s *Store) Has(id ID) bool {
	_, ok := s.records[id]
	return ok
}

// resolvable reports whether a parent link can be followed.
func (s *Store) resolvable(parent ID) bool {
	return parent != NoParent && s.Has(parent)
}

// Len returns the number of individuals.
func (s *Store) Len() int {
	return len(s.order)
}

// IDs returns identifiers in load order.
func (s *Store) IDs() []ID {
	out := make([]ID, len(s.order))
	copy(out, s.order)
	return out
}

// Rows returns the population as rows in load order.
func (s *Store) Rows() []Row {
	out := make([]Row, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, Row{ID: id, Record: s.records[id]})
	}
	return out
}

// Warnings returns the recoverable problems found by Load.
func (s *Store) Warnings() []Warning {
	out := make([]Warning, len(s.warnings))
	copy(out, s.warnings)
	return out
}
