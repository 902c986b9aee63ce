package tabular

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/ancestry/errors"
	"github.com/teranos/ancestry/genealogy"
)

const population = `ind,father,mother,sex,birth_year,birth_place
1,2,3,M,1950,Oslo
2,NA,NA,M,1920,NA
3,0,,F,1925,"Bergen, Vestland"
`

func TestReadRows(t *testing.T) {
	rows, warnings, err := ReadRows(strings.NewReader(population), Options{})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, rows, 3)

	assert.Equal(t, genealogy.ID(1), rows[0].ID)
	assert.Equal(t, genealogy.ID(2), rows[0].Father)
	assert.Equal(t, genealogy.ID(3), rows[0].Mother)
	assert.Equal(t, genealogy.SexMale, rows[0].Sex)
	assert.Equal(t, genealogy.Some(1950), rows[0].BirthYear)
	assert.Equal(t, genealogy.Some("Oslo"), rows[0].BirthPlace)

	assert.Equal(t, genealogy.NoParent, rows[1].Father)
	assert.Equal(t, genealogy.NoParent, rows[1].Mother)
	assert.False(t, rows[1].BirthPlace.Valid())

	assert.Equal(t, genealogy.NoParent, rows[2].Father)
	assert.Equal(t, genealogy.NoParent, rows[2].Mother)
	assert.Equal(t, genealogy.Some("Bergen, Vestland"), rows[2].BirthPlace)
}

func TestReadRowsHeaderOrderAndCase(t *testing.T) {
	input := "Birth_Place;MOTHER;Ind;father\nOslo;3;1;2\n"

	rows, _, err := ReadRows(strings.NewReader(input), Options{Delimiter: ';'})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, genealogy.ID(1), rows[0].ID)
	assert.Equal(t, genealogy.ID(2), rows[0].Father)
	assert.Equal(t, genealogy.ID(3), rows[0].Mother)
	assert.Equal(t, genealogy.Sex(""), rows[0].Sex)
	assert.False(t, rows[0].BirthYear.Valid())
}

func TestReadRowsFloatIdentifiers(t *testing.T) {
	input := "ind,father,mother,birth_year\n1,2.0,3.0,1950.0\n"

	rows, _, err := ReadRows(strings.NewReader(input), Options{})
	require.NoError(t, err)
	assert.Equal(t, genealogy.ID(2), rows[0].Father)
	assert.Equal(t, genealogy.Some(1950), rows[0].BirthYear)
}

func TestReadRowsBadBirthYear(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	input := "ind,father,mother,birth_year\n7,0,0,abt 1800\n"

	rows, warnings, err := ReadRows(strings.NewReader(input), Options{Logger: zap.New(core).Sugar()})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].BirthYear.Valid())

	require.Len(t, warnings, 1)
	assert.Equal(t, genealogy.ID(7), warnings[0].ID)
	assert.Equal(t, 1, warnings[0].Row)
	assert.Contains(t, warnings[0].Message, `"abt 1800"`)
	assert.Equal(t, 1, logs.FilterMessage("Unparseable birth year").Len())
}

func TestReadRowsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "empty", input: "", want: ErrMissingColumn},
		{name: "no mother column", input: "ind,father\n1,2\n", want: ErrMissingColumn},
		{name: "bad ind", input: "ind,father,mother\nx,0,0\n", want: ErrMalformedID},
		{name: "bad father", input: "ind,father,mother\n1,abc,0\n", want: ErrMalformedID},
		{name: "fractional mother", input: "ind,father,mother\n1,0,2.5\n", want: ErrMalformedID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadRows(strings.NewReader(tt.input), Options{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.True(t, errors.IsInvalidRequestError(err))
		})
	}
}

func TestReadRowsRaggedRecord(t *testing.T) {
	_, _, err := ReadRows(strings.NewReader("ind,father,mother\n1,0\n"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
}

func TestWriteRows(t *testing.T) {
	rows := []genealogy.Row{
		{ID: 1, Record: genealogy.Record{Father: 2, Mother: 3, Sex: genealogy.SexMale, BirthYear: genealogy.Some(1950), BirthPlace: genealogy.Some("Oslo")}},
		{ID: 2, Record: genealogy.Record{Sex: genealogy.SexMale}},
		{ID: 3, Record: genealogy.Record{Father: 9, BirthPlace: genealogy.Some("Bergen, Vestland")}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, rows, Options{}))

	want := "ind,father,mother,sex,birth_year,birth_place\n" +
		"1,2,3,M,1950,Oslo\n" +
		"2,0,0,M,NA,NA\n" +
		"3,9,0,NA,NA,\"Bergen, Vestland\"\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteRowsPlaceholder(t *testing.T) {
	rows := []genealogy.Row{{ID: 4}}

	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, rows, Options{Placeholder: "?", Delimiter: '\t'}))
	assert.Equal(t, "ind\tfather\tmother\tsex\tbirth_year\tbirth_place\n4\t0\t0\t?\t?\t?\n", buf.String())
}

func TestWriteRowsUnknownParents(t *testing.T) {
	rows := []genealogy.Row{
		{ID: 2, Record: genealogy.Record{Sex: genealogy.SexMale, BirthYear: genealogy.Some(1920)}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, rows, Options{}))
	assert.Equal(t, "ind,father,mother,sex,birth_year,birth_place\n2,0,0,M,1920,NA\n", buf.String())

	// NA parents read back as 0, so the written form is stable.
	again, _, err := ReadRows(strings.NewReader(buf.String()), Options{})
	require.NoError(t, err)
	assert.Equal(t, rows, again)
}

func TestRoundTrip(t *testing.T) {
	rows, _, err := ReadRows(strings.NewReader(population), Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, rows, Options{}))

	again, _, err := ReadRows(&buf, Options{})
	require.NoError(t, err)
	assert.Equal(t, rows, again)
}

func TestReadIDs(t *testing.T) {
	input := "# roots\n12\n\n  7  \n40,extra\n"

	ids, err := ReadIDs(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []genealogy.ID{12, 7, 40}, ids)

	_, err = ReadIDs(strings.NewReader("1\nseven\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedID))
	assert.Contains(t, err.Error(), "line 2")

	_, err = ReadIDs(strings.NewReader("0\n"))
	assert.True(t, errors.Is(err, ErrMalformedID))
}

func TestReadIDsFromPopulation(t *testing.T) {
	ids, err := ReadIDs(strings.NewReader(population))
	require.NoError(t, err)
	assert.Equal(t, []genealogy.ID{1, 2, 3}, ids)

	_, err = ReadIDs(strings.NewReader("12\nind\n"))
	require.Error(t, err, "only a leading header is skipped")
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, genealogy.ID(42), id)

	for _, bad := range []string{"", "x", "-3", "0", "1.5"} {
		_, err := ParseID(bad)
		assert.True(t, errors.Is(err, ErrMalformedID), bad)
	}
}

func TestDetectCompression(t *testing.T) {
	assert.Equal(t, CompressionNone, DetectCompression("pop.csv"))
	assert.Equal(t, CompressionGzip, DetectCompression("pop.csv.gz"))
	assert.Equal(t, CompressionZstd, DetectCompression("pop.csv.ZST"))
	assert.Equal(t, CompressionZstd, DetectCompression("pop.zstd"))
}

func TestFilesRoundTrip(t *testing.T) {
	rows, _, err := ReadRows(strings.NewReader(population), Options{})
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range []string{"pop.csv", "pop.csv.gz", "pop.csv.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, WriteRowsFile(path, rows, Options{}))

			got, warnings, err := ReadRowsFile(path, Options{})
			require.NoError(t, err)
			assert.Empty(t, warnings)
			assert.Equal(t, rows, got)
		})
	}
}

func TestReadRowsFileMissing(t *testing.T) {
	_, _, err := ReadRowsFile(filepath.Join(t.TempDir(), "absent.csv"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.csv")
}

func TestReadIDsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inds.txt.gz")
	out, err := CreateOutput(path)
	require.NoError(t, err)
	_, err = out.Write([]byte("3\n1\n"))
	require.NoError(t, err)
	require.NoError(t, out.Close())

	ids, err := ReadIDsFile(path)
	require.NoError(t, err)
	assert.Equal(t, []genealogy.ID{3, 1}, ids)
}
