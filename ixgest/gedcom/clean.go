package gedcom

import (
	"bufio"
	"io"
	"strings"

	"github.com/teranos/ancestry/errors"
)

// CleanLines repairs exports where long values were wrapped onto lines of
// their own. Each line is trimmed; blank lines are dropped; a line that does
// not start with a digit is appended, after a single space, to the line
// before it. The first line is always kept as is.
func CleanLines(r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	bw := bufio.NewWriter(w)

	started := false
	for n := 0; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		switch {
		case n == 0:
			bw.WriteString(line)
			started = true
		case line == "":
		case line[0] < '0' || line[0] > '9':
			bw.WriteString(" ")
			bw.WriteString(line)
		default:
			bw.WriteString("\n")
			bw.WriteString(line)
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "failed to read GEDCOM")
	}
	if started {
		bw.WriteString("\n")
	}
	return errors.Wrap(bw.Flush(), "failed to write GEDCOM")
}
