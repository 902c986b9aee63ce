// Package tabular reads and writes populations as delimited text.
//
// The column layout is
//
//	ind,father,mother,sex,birth_year,birth_place
//
// Header names are matched case-insensitively and may appear in any order;
// only ind, father and mother are required. Empty cells and the placeholder
// token (NA by default) mean "no value"; in a parent column they read as 0.
// Written files always use the order above, write an unknown parent as 0
// and render the remaining missing values as the placeholder.
package tabular

import (
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/ancestry/errors"
	"github.com/teranos/ancestry/genealogy"
	"github.com/teranos/ancestry/logger"
)

// Column names.
const (
	ColumnInd        = "ind"
	ColumnFather     = "father"
	ColumnMother     = "mother"
	ColumnSex        = "sex"
	ColumnBirthYear  = "birth_year"
	ColumnBirthPlace = "birth_place"
)

// DefaultPlaceholder marks a missing value.
const DefaultPlaceholder = "NA"

// Header is the column order used when writing.
var Header = []string{ColumnInd, ColumnFather, ColumnMother, ColumnSex, ColumnBirthYear, ColumnBirthPlace}

var (
	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.Wrap(errors.ErrInvalidRequest, "missing column")

	// ErrMalformedID is returned for an identifier cell that is not an integer.
	ErrMalformedID = errors.Wrap(errors.ErrInvalidRequest, "malformed identifier")
)

// Options configures reading and writing. The zero value uses "NA" and ','.
type Options struct {
	Placeholder string
	Delimiter   rune
	Logger      *zap.SugaredLogger
}

func (o Options) withDefaults() Options {
	if o.Placeholder == "" {
		o.Placeholder = DefaultPlaceholder
	}
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	if o.Logger == nil {
		o.Logger = logger.ComponentLogger("ixgest.tabular")
	}
	return o
}

// missing reports whether a cell carries no value.
func (o Options) missing(cell string) bool {
	return cell == "" || cell == o.Placeholder
}

// parseInt accepts plain integers and integral floats such as "12.0",
// which spreadsheet tools emit for columns that contain blanks.
func parseInt(cell string) (int64, bool) {
	if v, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64/2 {
		return 0, false
	}
	return int64(f), true
}

// parseParent reads a father or mother cell; missing values become NoParent.
func (o Options) parseParent(cell string) (genealogy.ID, error) {
	cell = strings.TrimSpace(cell)
	if o.missing(cell) {
		return genealogy.NoParent, nil
	}
	v, ok := parseInt(cell)
	if !ok {
		return 0, errors.Wrapf(ErrMalformedID, "%q", cell)
	}
	return genealogy.ID(v), nil
}
