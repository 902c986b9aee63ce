package tabular

import (
	"bufio"
	"io"
	"strings"

	"github.com/teranos/ancestry/errors"
	"github.com/teranos/ancestry/genealogy"
)

// ReadIDs reads one identifier per line. Blank lines and lines starting
// with '#' are skipped. Only the first whitespace- or comma-separated field
// of a line is used, so a population file's first column also works: a
// leading "ind" header line is skipped.
func ReadIDs(r io.Reader) ([]genealogy.ID, error) {
	var ids []genealogy.ID
	first := true
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) == 0 {
			continue
		}
		if first {
			first = false
			if strings.EqualFold(strings.TrimPrefix(fields[0], "\ufeff"), ColumnInd) {
				continue
			}
		}
		id, err := ParseID(fields[0])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		ids = append(ids, id)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read identifiers")
	}
	return ids, nil
}

// ParseID parses a single positive identifier such as a command-line argument.
func ParseID(text string) (genealogy.ID, error) {
	v, ok := parseInt(strings.TrimSpace(text))
	if !ok || v <= 0 {
		return 0, errors.Wrapf(ErrMalformedID, "%q", text)
	}
	return genealogy.ID(v), nil
}
