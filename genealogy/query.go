package genealogy

import (
	"github.com/go-playground/validator/v10"

	"github.com/teranos/ancestry/errors"
)

var queryValidate = validator.New()

// Query is a serializable lineage request: the roots to reconstruct and the
// optional cutoffs. Nil cutoffs impose no limit.
type Query struct {
	Roots        []ID `json:"roots" validate:"required,min=1,dive,gt=0"`
	MaxDepth     *int `json:"max_depth,omitempty" validate:"omitempty,gte=0"`
	MinBirthYear *int `json:"min_birth_year,omitempty"`
}

// Validate checks the query shape. Failures wrap ErrOptionViolation.
func (q Query) Validate() error {
	if err := queryValidate.Struct(q); err != nil {
		return errors.WithHint(
			errors.Wrap(ErrOptionViolation, err.Error()),
			"a query needs at least one positive root and a non-negative max depth",
		)
	}
	return nil
}

// Cutoffs converts the query's optional limits.
func (q Query) Cutoffs() Cutoffs {
	var c Cutoffs
	if q.MaxDepth != nil {
		c.MaxDepth = Some(*q.MaxDepth)
	}
	if q.MinBirthYear != nil {
		c.MinBirthYear = Some(*q.MinBirthYear)
	}
	return c
}

// BuildQuery validates q and runs Build with its roots and cutoffs.
// Extra options (for example WithLogger) are applied after the query's.
func BuildQuery(s *Store, q Query, opts ...Option) (*Genealogy, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	all := append([]Option{WithCutoffs(q.Cutoffs())}, opts...)
	return Build(s, q.Roots, all...)
}
