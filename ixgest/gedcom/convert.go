package gedcom

import (
	"encoding/csv"
	"io"
	"regexp"
	"strconv"

	"github.com/teranos/ancestry/errors"
	"github.com/teranos/ancestry/genealogy"
	"github.com/teranos/ancestry/logger"
)

// yearPattern finds a year inside free-form GEDCOM dates such as
// "ABT 12 MAR 1871" or "BET 1800 AND 1805"; the first match wins.
var yearPattern = regexp.MustCompile(`\d{4}`)

// BirthYear extracts the first four-digit run from a GEDCOM date.
func BirthYear(date string) (int, bool) {
	m := yearPattern.FindString(date)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	return y, err == nil
}

// Individuals returns the level-0 INDI records in document order.
func (f *File) Individuals() []*Record {
	var out []*Record
	for _, r := range f.Records {
		if r.Tag == TagIndividual {
			out = append(out, r)
		}
	}
	return out
}

func (f *File) warn(warnings []genealogy.Warning, id genealogy.ID, rec *Record, msg string) []genealogy.Warning {
	f.logger.Warnw(msg,
		logger.FieldIndividualID, int64(id),
		logger.FieldLine, rec.Line,
		"xref", rec.Xref,
	)
	return append(warnings, genealogy.Warning{ID: id, Row: rec.Line, Message: msg})
}

// parents resolves father and mother through the individual's first FAMC
// family. Unknown families and spouses yield NoParent.
func (f *File) parents(indi *Record, warnings []genealogy.Warning, id genealogy.ID) (genealogy.ID, genealogy.ID, []genealogy.Warning) {
	famc, ok := indi.ValueOf(TagFamilyAsChild)
	if !ok {
		return genealogy.NoParent, genealogy.NoParent, warnings
	}
	fam, ok := f.Lookup(famc)
	if !ok {
		return genealogy.NoParent, genealogy.NoParent, f.warn(warnings, id, indi, "family "+famc+" not found")
	}

	resolve := func(tag string) genealogy.ID {
		xref, ok := fam.ValueOf(tag)
		if !ok {
			return genealogy.NoParent
		}
		pid, err := XrefID(xref)
		if err != nil {
			warnings = f.warn(warnings, id, fam, "non-numeric "+tag+" reference "+strconv.Quote(xref))
			return genealogy.NoParent
		}
		return pid
	}
	father := resolve(TagHusband)
	mother := resolve(TagWife)
	return father, mother, warnings
}

// Rows converts every INDI record into a population row, in document order.
//
// Father and mother are the HUSB and WIFE of the first FAMC family. The
// birth year is the first four-digit run of BIRT DATE and the birth place is
// BIRT PLAC. Individuals whose cross-reference has no numeric part are
// skipped with a warning.
func (f *File) Rows() ([]genealogy.Row, []genealogy.Warning) {
	var (
		rows     []genealogy.Row
		warnings []genealogy.Warning
	)
	for _, indi := range f.Individuals() {
		id, err := XrefID(indi.Xref)
		if err != nil {
			warnings = f.warn(warnings, 0, indi, "individual skipped: non-numeric cross-reference "+strconv.Quote(indi.Xref))
			continue
		}

		row := genealogy.Row{ID: id}
		row.Father, row.Mother, warnings = f.parents(indi, warnings, id)
		if sex, ok := indi.ValueOf(TagSex); ok && sex != "" {
			row.Sex = genealogy.Sex(sex)
		}
		if birth := indi.First(TagBirth); birth != nil {
			if date, ok := birth.ValueOf(TagDate); ok {
				if y, ok := BirthYear(date); ok {
					row.BirthYear = genealogy.Some(y)
				}
			}
			if place, ok := birth.ValueOf(TagPlace); ok && place != "" {
				row.BirthPlace = genealogy.Some(place)
			}
		}
		rows = append(rows, row)
	}

	f.logger.Infow("Converted GEDCOM individuals",
		logger.FieldCount, len(rows),
		logger.FieldWarnings, len(warnings),
	)
	return rows, warnings
}

// Reference pairs an individual's numeric record identifier with the
// user reference number (REFN) assigned in the source software.
type Reference struct {
	RIN  genealogy.ID               `json:"rin"`
	REFN genealogy.Optional[string] `json:"refn"`
}

// References lists RIN and REFN for every INDI record in document order.
// The RIN is taken from the cross-reference; individuals without a numeric
// one are skipped.
func (f *File) References() []Reference {
	var out []Reference
	for _, indi := range f.Individuals() {
		id, err := XrefID(indi.Xref)
		if err != nil {
			continue
		}
		ref := Reference{RIN: id}
		if refn, ok := indi.ValueOf(TagREFN); ok && refn != "" {
			ref.REFN = genealogy.Some(refn)
		}
		out = append(out, ref)
	}
	return out
}

// WriteReferences writes a RIN,REFN table. A missing REFN is an empty cell.
func WriteReferences(w io.Writer, refs []Reference) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{TagRIN, TagREFN}); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	for _, ref := range refs {
		if err := cw.Write([]string{strconv.FormatInt(int64(ref.RIN), 10), ref.REFN.OrElse("")}); err != nil {
			return errors.Wrapf(err, "failed to write reference %d", ref.RIN)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush references")
}
