package tabular

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/teranos/ancestry/errors"
	"github.com/teranos/ancestry/genealogy"
)

// WriteRows writes Header followed by rows in the order given.
// An unknown parent is written as 0. Missing sex, birth year and birth
// place are written as the placeholder.
func WriteRows(w io.Writer, rows []genealogy.Row, opts Options) error {
	opts = opts.withDefaults()

	cw := csv.NewWriter(w)
	cw.Comma = opts.Delimiter

	if err := cw.Write(Header); err != nil {
		return errors.Wrap(err, "failed to write header")
	}

	record := make([]string, len(Header))
	for _, row := range rows {
		record[0] = strconv.FormatInt(int64(row.ID), 10)
		record[1] = strconv.FormatInt(int64(row.Father), 10)
		record[2] = strconv.FormatInt(int64(row.Mother), 10)
		record[3] = string(row.Sex)
		if row.Sex == "" {
			record[3] = opts.Placeholder
		}
		record[4] = opts.Placeholder
		if y, ok := row.BirthYear.Get(); ok {
			record[4] = strconv.Itoa(y)
		}
		record[5] = row.BirthPlace.OrElse(opts.Placeholder)

		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "failed to write individual %d", row.ID)
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush rows")
}
