// Package gedcom converts GEDCOM genealogy exports into population rows.
//
// Only the structure needed for lineage reconstruction is interpreted:
// INDI records with their SEX, BIRT (DATE, PLAC), FAMC, RIN and REFN
// sub-records, and FAM records with HUSB and WIFE. Everything else is parsed
// into the generic Record tree and left alone.
package gedcom

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/ancestry/errors"
	"github.com/teranos/ancestry/genealogy"
	"github.com/teranos/ancestry/logger"
)

// GEDCOM tags used by this package.
const (
	TagIndividual    = "INDI"
	TagFamily        = "FAM"
	TagFamilyAsChild = "FAMC"
	TagHusband       = "HUSB"
	TagWife          = "WIFE"
	TagSex           = "SEX"
	TagBirth         = "BIRT"
	TagDate          = "DATE"
	TagPlace         = "PLAC"
	TagRIN           = "RIN"
	TagREFN          = "REFN"
	TagConcat        = "CONC"
	TagContinue      = "CONT"
)

var (
	// ErrMalformedLine is returned for a line that is not "level [@xref@] tag [value]".
	ErrMalformedLine = errors.Wrap(errors.ErrInvalidRequest, "malformed GEDCOM line")

	// ErrMalformedXref is returned by XrefID for a cross-reference without a numeric part.
	ErrMalformedXref = errors.Wrap(errors.ErrInvalidRequest, "malformed cross-reference")
)

// Record is one GEDCOM line together with its nested sub-records.
// CONC and CONT lines are folded into Value and do not appear in Sub.
type Record struct {
	Level int
	Xref  string
	Tag   string
	Value string
	Line  int
	Sub   []*Record
}

// First returns the first direct sub-record with tag, or nil.
func (r *Record) First(tag string) *Record {
	if r == nil {
		return nil
	}
	for _, s := range r.Sub {
		if s.Tag == tag {
			return s
		}
	}
	return nil
}

// All returns every direct sub-record with tag.
func (r *Record) All(tag string) []*Record {
	if r == nil {
		return nil
	}
	var out []*Record
	for _, s := range r.Sub {
		if s.Tag == tag {
			out = append(out, s)
		}
	}
	return out
}

// ValueOf returns the trimmed value of the first sub-record with tag.
func (r *Record) ValueOf(tag string) (string, bool) {
	s := r.First(tag)
	if s == nil {
		return "", false
	}
	return strings.TrimSpace(s.Value), true
}

// File is a parsed GEDCOM document.
type File struct {
	// Records holds the level-0 records in document order.
	Records []*Record

	byXref map[string]*Record
	logger *zap.SugaredLogger
}

// Lookup returns the level-0 record with the given cross-reference.
func (f *File) Lookup(xref string) (*Record, bool) {
	r, ok := f.byXref[xref]
	return r, ok
}

// Option configures Parse.
type Option func(*File)

// WithLogger sets the logger used for conversion warnings.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(f *File) {
		if l != nil {
			f.logger = l
		}
	}
}

// parseLine splits "level [@xref@] tag [value]".
func parseLine(text string, n int) (*Record, error) {
	level, rest, _ := strings.Cut(text, " ")
	lv, err := strconv.Atoi(level)
	if err != nil || lv < 0 {
		return nil, errors.Wrapf(ErrMalformedLine, "line %d: level %q", n, level)
	}
	rec := &Record{Level: lv, Line: n}

	rest = strings.TrimLeft(rest, " ")
	if strings.HasPrefix(rest, "@") {
		xref, after, ok := strings.Cut(rest, " ")
		if !ok || !strings.HasSuffix(xref, "@") {
			return nil, errors.Wrapf(ErrMalformedLine, "line %d: cross-reference %q", n, xref)
		}
		rec.Xref = xref
		rest = strings.TrimLeft(after, " ")
	}

	tag, value, _ := strings.Cut(rest, " ")
	if tag == "" {
		return nil, errors.Wrapf(ErrMalformedLine, "line %d: missing tag", n)
	}
	rec.Tag = strings.ToUpper(tag)
	rec.Value = value
	return rec, nil
}

// Parse reads a GEDCOM document. Blank lines are ignored and a leading
// byte order mark is dropped. A level that skips ahead of its parent, or a
// line that does not start with a level, fails the parse; run CleanLines
// first on exports with wrapped lines.
func Parse(r io.Reader, opts ...Option) (*File, error) {
	f := &File{
		byXref: make(map[string]*Record),
		logger: logger.ComponentLogger("ixgest.gedcom"),
	}
	for _, opt := range opts {
		opt(f)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	// stack[i] is the most recent record at level i.
	var stack []*Record
	for n := 1; sc.Scan(); n++ {
		text := strings.TrimRight(sc.Text(), "\r")
		if n == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		text = strings.TrimLeft(text, " \t")
		if strings.TrimSpace(text) == "" {
			continue
		}

		rec, err := parseLine(text, n)
		if err != nil {
			return nil, err
		}
		if rec.Level > len(stack) {
			return nil, errors.Wrapf(ErrMalformedLine, "line %d: level %d without a parent at level %d",
				n, rec.Level, rec.Level-1)
		}

		if rec.Level > 0 && (rec.Tag == TagConcat || rec.Tag == TagContinue) {
			parent := stack[rec.Level-1]
			if rec.Tag == TagContinue {
				parent.Value += "\n"
			}
			parent.Value += rec.Value
			continue
		}

		stack = append(stack[:rec.Level], rec)
		if rec.Level == 0 {
			f.Records = append(f.Records, rec)
			if rec.Xref != "" {
				f.byXref[rec.Xref] = rec
			}
			continue
		}
		parent := stack[rec.Level-1]
		parent.Sub = append(parent.Sub, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read GEDCOM")
	}

	f.logger.Debugw("Parsed GEDCOM",
		logger.FieldCount, len(f.Records),
	)
	return f, nil
}

// XrefID extracts the numeric identifier of a cross-reference such as
// "@I12@". Leading letters inside the delimiters are ignored.
func XrefID(xref string) (genealogy.ID, error) {
	inner := strings.TrimSpace(xref)
	if len(inner) < 3 || inner[0] != '@' || inner[len(inner)-1] != '@' {
		return 0, errors.Wrapf(ErrMalformedXref, "%q", xref)
	}
	inner = strings.TrimLeft(inner[1:len(inner)-1], "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz")
	v, err := strconv.ParseInt(inner, 10, 64)
	if err != nil || v <= 0 {
		return 0, errors.Wrapf(ErrMalformedXref, "%q", xref)
	}
	return genealogy.ID(v), nil
}
