package tabular

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/teranos/ancestry/errors"
	"github.com/teranos/ancestry/genealogy"
	"github.com/teranos/ancestry/logger"
)

// columns maps header names to field positions; -1 means absent.
type columns struct {
	ind, father, mother, sex, birthYear, birthPlace int
}

func parseHeader(header []string) (columns, error) {
	c := columns{-1, -1, -1, -1, -1, -1}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		switch name {
		case ColumnInd:
			c.ind = i
		case ColumnFather:
			c.father = i
		case ColumnMother:
			c.mother = i
		case ColumnSex:
			c.sex = i
		case ColumnBirthYear:
			c.birthYear = i
		case ColumnBirthPlace:
			c.birthPlace = i
		}
	}
	required := []struct {
		name string
		pos  int
	}{{ColumnInd, c.ind}, {ColumnFather, c.father}, {ColumnMother, c.mother}}
	for _, col := range required {
		if col.pos < 0 {
			return c, errors.WithHintf(errors.Wrapf(ErrMissingColumn, "%s", col.name),
				"the header must name at least %s, %s and %s", ColumnInd, ColumnFather, ColumnMother)
		}
	}
	return c, nil
}

func cell(record []string, pos int) string {
	if pos < 0 || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

// ReadRows reads a header line followed by one individual per line.
//
// A malformed identifier fails the read. An unparseable birth year is
// treated as unknown and reported as a warning. Duplicate identifiers are
// passed through; genealogy.Load decides which row wins.
func ReadRows(r io.Reader, opts Options) ([]genealogy.Row, []genealogy.Warning, error) {
	opts = opts.withDefaults()

	cr := csv.NewReader(r)
	cr.Comma = opts.Delimiter
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, errors.Wrap(ErrMissingColumn, "empty input")
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read header")
	}
	cols, err := parseHeader(header)
	if err != nil {
		return nil, nil, err
	}

	var (
		rows     []genealogy.Row
		warnings []genealogy.Warning
	)
	for n := 1; ; n++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrapf(err, "row %d", n)
		}

		indCell := cell(record, cols.ind)
		v, ok := parseInt(indCell)
		if !ok {
			return nil, nil, errors.Wrapf(ErrMalformedID, "row %d: %s %q", n, ColumnInd, indCell)
		}
		row := genealogy.Row{ID: genealogy.ID(v)}

		if row.Father, err = opts.parseParent(cell(record, cols.father)); err != nil {
			return nil, nil, errors.Wrapf(err, "row %d: %s", n, ColumnFather)
		}
		if row.Mother, err = opts.parseParent(cell(record, cols.mother)); err != nil {
			return nil, nil, errors.Wrapf(err, "row %d: %s", n, ColumnMother)
		}
		if sex := cell(record, cols.sex); !opts.missing(sex) {
			row.Sex = genealogy.Sex(sex)
		}
		if place := cell(record, cols.birthPlace); !opts.missing(place) {
			row.BirthPlace = genealogy.Some(place)
		}
		if year := cell(record, cols.birthYear); !opts.missing(year) {
			if y, ok := parseInt(year); ok {
				row.BirthYear = genealogy.Some(int(y))
			} else {
				w := genealogy.Warning{ID: row.ID, Row: n, Message: "unparseable birth year " + strconv.Quote(year) + " treated as unknown"}
				warnings = append(warnings, w)
				opts.Logger.Warnw("Unparseable birth year",
					logger.FieldIndividualID, int64(row.ID),
					"row", n,
					"value", year,
				)
			}
		}
		rows = append(rows, row)
	}

	opts.Logger.Debugw("Read population rows",
		logger.FieldCount, len(rows),
		logger.FieldWarnings, len(warnings),
	)
	return rows, warnings, nil
}
