package genealogy

import (
	"time"

	"go.uber.org/zap"

	"github.com/teranos/ancestry/errors"
	"github.com/teranos/ancestry/logger"
)

// Option configures Build via functional arguments.
// An invalid Option is recorded and surfaced as ErrOptionViolation when
// Build runs.
type Option func(*buildOptions)

type buildOptions struct {
	cut    Cutoffs
	logger *zap.SugaredLogger
	err    error
}

// WithMaxDepth limits the walk to d generations of parents.
//
//	d > 0:  roots plus d generations
//	d == 0: roots only
//	d < 0:  invalid → ErrOptionViolation
func WithMaxDepth(d int) Option {
	return func(o *buildOptions) {
		if d < 0 {
			o.err = errors.Wrapf(ErrOptionViolation, "max depth cannot be negative (%d)", d)
			return
		}
		o.cut.MaxDepth = Some(d)
	}
}

// WithMinBirthYear excludes ancestors born strictly before year.
func WithMinBirthYear(year int) Option {
	return func(o *buildOptions) {
		o.cut.MinBirthYear = Some(year)
	}
}

// WithCutoffs replaces both cutoffs at once.
func WithCutoffs(c Cutoffs) Option {
	return func(o *buildOptions) {
		if maxDepth, ok := c.MaxDepth.Get(); ok && maxDepth < 0 {
			o.err = errors.Wrapf(ErrOptionViolation, "max depth cannot be negative (%d)", maxDepth)
			return
		}
		o.cut = c
	}
}

// WithLogger sets the logger used for build progress.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *buildOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Build reconstructs the merged genealogy of roots, walking them in the
// order given against one shared accumulator. Later lineages merge with and
// deduplicate against earlier ones.
//
// Build fails with ErrIndividualNotFound if any root is absent from the
// store, and with ErrOptionViolation for invalid options.
func Build(s *Store, roots []ID, opts ...Option) (*Genealogy, error) {
	if s == nil {
		return nil, ErrNilStore
	}
	o := buildOptions{logger: logger.ComponentLogger("genealogy.builder")}
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	start := time.Now()
	acc := NewGenealogy()
	for _, root := range roots {
		before := acc.Len()
		if err := Expand(s, acc, root, o.cut); err != nil {
			return nil, errors.Wrap(err, "build genealogy")
		}
		o.logger.Debugw("Expanded lineage",
			logger.FieldRootID, root,
			"added", acc.Len()-before,
			logger.FieldTotalCount, acc.Len(),
		)
	}

	o.logger.Infow("Genealogy built",
		logger.FieldRoots, len(roots),
		logger.FieldCount, acc.Len(),
		logger.FieldMaxDepth, o.cut.MaxDepth.String(),
		logger.FieldMinBirthYear, o.cut.MinBirthYear.String(),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return acc, nil
}
