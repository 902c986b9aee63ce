package genealogy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/ancestry/errors"
)

func row(id, father, mother ID, sex Sex, year int) Row {
	r := Row{ID: id, Record: Record{Father: father, Mother: mother, Sex: sex}}
	if year != 0 {
		r.BirthYear = Some(year)
	}
	return r
}

// threeGeneration is the population from the reference scenario:
// 1 has father 2 and mother 3.
func threeGeneration() []Row {
	return []Row{
		row(1, 2, 3, SexMale, 1950),
		row(2, 0, 0, SexMale, 1920),
		row(3, 0, 0, SexFemale, 1925),
	}
}

func mustLoad(t *testing.T, rows ...Row) *Store {
	t.Helper()
	s, err := Load(rows)
	require.NoError(t, err)
	return s
}

func TestLoad(t *testing.T) {
	s := mustLoad(t, threeGeneration()...)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []ID{1, 2, 3}, s.IDs())
	assert.Empty(t, s.Warnings())

	rec, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, ID(2), rec.Father)
	assert.Equal(t, ID(3), rec.Mother)
	assert.Equal(t, SexMale, rec.Sex)
	year, ok := rec.BirthYear.Get()
	require.True(t, ok)
	assert.Equal(t, 1950, year)
	assert.False(t, rec.BirthPlace.Valid())

	assert.Equal(t, threeGeneration(), s.Rows())
}

func TestLoadGetUnknownIsNotAnError(t *testing.T) {
	s := mustLoad(t, threeGeneration()...)

	_, ok := s.Get(42)
	assert.False(t, ok)
	assert.False(t, s.Has(42))
	assert.False(t, s.Has(NoParent))
}

func TestLoadDuplicateFirstSeenWins(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	rows := []Row{
		row(1, 2, 3, SexMale, 1950),
		row(2, 0, 0, SexMale, 1920),
		row(1, 7, 8, SexFemale, 1800),
	}
	s, err := Load(rows, WithLoadLogger(zap.New(core).Sugar()))
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	rec, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, ID(2), rec.Father, "first record must be kept")
	assert.Equal(t, SexMale, rec.Sex)

	warnings := s.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, ID(1), warnings[0].ID)
	assert.Equal(t, 3, warnings[0].Row)
	assert.Contains(t, warnings[0].String(), "individual 1")

	entries := logs.FilterMessage("Duplicate individual in population").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 1, entries[0].ContextMap()["individual_id"])
}

func TestLoadRejectsReservedIDs(t *testing.T) {
	tests := []struct {
		name string
		id   ID
	}{
		{name: "zero is the no-parent sentinel", id: 0},
		{name: "negative", id: -4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]Row{row(1, 0, 0, SexMale, 0), row(tt.id, 0, 0, SexMale, 0)})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrReservedID))
			assert.True(t, errors.IsInvalidRequestError(err))
			assert.Contains(t, err.Error(), "row 2")
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	s, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Rows())
}

func TestSexKnown(t *testing.T) {
	assert.True(t, SexMale.Known())
	assert.True(t, SexFemale.Known())
	assert.False(t, Sex("U").Known())
	assert.False(t, Sex("").Known())
}

func TestRecordBornBefore(t *testing.T) {
	assert.True(t, Record{BirthYear: Some(1800)}.BornBefore(1801))
	assert.False(t, Record{BirthYear: Some(1801)}.BornBefore(1801))
	assert.False(t, Record{}.BornBefore(3000), "unknown birth year is never too early")
}
