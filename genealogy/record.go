package genealogy

// ID identifies an individual within a population. Real individuals have
// positive identifiers; 0 is reserved for NoParent.
type ID int64

// NoParent is the parent identifier meaning "no parent on record".
const NoParent ID = 0

// Sex is the categorical sex marker carried over from the source records.
// Values other than SexMale and SexFemale (including empty) are kept as-is.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Known reports whether s is one of the two recognized markers.
func (s Sex) Known() bool {
	return s == SexMale || s == SexFemale
}

// Record holds the attributes of one individual.
type Record struct {
	Father     ID               `json:"father"`
	Mother     ID               `json:"mother"`
	Sex        Sex              `json:"sex"`
	BirthYear  Optional[int]    `json:"birth_year"`
	BirthPlace Optional[string] `json:"birth_place"`
}

// Parents returns the father and mother identifiers, in that order.
func (r Record) Parents() [2]ID {
	return [2]ID{r.Father, r.Mother}
}

// BornBefore reports whether the birth year is on record and earlier than year.
// An unknown birth year is never "before" anything.
func (r Record) BornBefore(year int) bool {
	y, ok := r.BirthYear.Get()
	return ok && y < year
}

// Row is the flat tabular form of an individual: its identifier plus record.
type Row struct {
	ID ID `json:"id"`
	Record
}
