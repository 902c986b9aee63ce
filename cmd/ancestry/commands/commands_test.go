package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/ancestry/am"
	"github.com/teranos/ancestry/display"
	"github.com/teranos/ancestry/errors"
	"github.com/teranos/ancestry/genealogy"
	"github.com/teranos/ancestry/graph"
	"github.com/teranos/ancestry/internal/util"
	"github.com/teranos/ancestry/ixgest/tabular"
)

const population = `ind,father,mother,sex,birth_year,birth_place
1,2,3,M,1950,Oslo
2,4,5,M,1920,NA
3,0,0,F,1925,Bergen
4,0,0,M,1890,NA
5,0,0,F,1895,NA
6,0,0,F,1960,NA
`

// testSession returns a session writing results to out and JSON progress
// events to progress.
func testSession(t *testing.T) (s *session, out, progress *bytes.Buffer) {
	t.Helper()
	out, progress = &bytes.Buffer{}, &bytes.Buffer{}
	cfg := am.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "ancestry.db")
	return &session{
		ctx:      context.Background(),
		cfg:      cfg,
		out:      out,
		progress: display.NewJSONEmitter(progress),
	}, out, progress
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// firstColumn returns the sorted identifiers of a CSV body, header excluded.
func firstColumn(t *testing.T, csvText string) []string {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(csvText), "\n")
	require.NotEmpty(t, lines)
	require.Equal(t, strings.Join(tabular.Header, ","), lines[0])

	ids := make([]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		ids = append(ids, strings.SplitN(line, ",", 2)[0])
	}
	sort.Strings(ids)
	return ids
}

func TestLineageBuild(t *testing.T) {
	csvPath := writeFile(t, "pop.csv", population)

	tests := []struct {
		name string
		opts buildOptions
		want []string
	}{
		{"full", buildOptions{ids: []int64{1}}, []string{"1", "2", "3", "4", "5"}},
		{"max depth", buildOptions{ids: []int64{1}, maxDepth: util.Ptr(1)}, []string{"1", "2", "3"}},
		{"roots only", buildOptions{ids: []int64{1, 6}, maxDepth: util.Ptr(0)}, []string{"1", "6"}},
		{"birth year", buildOptions{ids: []int64{1}, minBirthYear: util.Ptr(1900)}, []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out, _ := testSession(t)
			tt.opts.source = populationSource{csv: csvPath}
			tt.opts.out = tabular.Stdio

			require.NoError(t, runLineageBuild(s, tt.opts))
			assert.Equal(t, tt.want, firstColumn(t, out.String()))
		})
	}
}

func TestLineageBuildWritesPlaceholders(t *testing.T) {
	s, out, _ := testSession(t)
	opts := buildOptions{
		source: populationSource{csv: writeFile(t, "pop.csv", population)},
		ids:    []int64{3},
		out:    tabular.Stdio,
	}

	require.NoError(t, runLineageBuild(s, opts))
	assert.Equal(t, "ind,father,mother,sex,birth_year,birth_place\n3,0,0,F,1925,Bergen\n", out.String())
}

func TestLineageBuildToFile(t *testing.T) {
	s, out, _ := testSession(t)
	outPath := filepath.Join(t.TempDir(), "lineages.csv.gz")
	opts := buildOptions{
		source:  populationSource{csv: writeFile(t, "pop.csv", population)},
		indFile: writeFile(t, "inds.txt", "# probands\n2\n"),
		out:     outPath,
	}

	require.NoError(t, runLineageBuild(s, opts))
	assert.Empty(t, out.String())

	rows, _, err := tabular.ReadRowsFile(outPath, tabular.Options{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, genealogy.ID(2), rows[0].ID)
}

func TestLineageBuildJSON(t *testing.T) {
	s, out, _ := testSession(t)
	s.json = true
	opts := buildOptions{
		source:   populationSource{csv: writeFile(t, "pop.csv", population)},
		ids:      []int64{1},
		maxDepth: util.Ptr(1),
	}

	require.NoError(t, runLineageBuild(s, opts))

	var result struct {
		Query   genealogy.Query `json:"query"`
		Members int             `json:"members"`
		Rows    []genealogy.Row `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, 3, result.Members)
	assert.Equal(t, []genealogy.ID{1}, result.Query.Roots)
	require.NotNil(t, result.Query.MaxDepth)
	assert.Equal(t, 1, *result.Query.MaxDepth)
	assert.Len(t, result.Rows, 3)
}

func TestLineageBuildGraph(t *testing.T) {
	s, out, _ := testSession(t)
	opts := buildOptions{
		source:   populationSource{csv: writeFile(t, "pop.csv", population)},
		ids:      []int64{1},
		maxDepth: util.Ptr(1),
		format:   formatGraph,
	}

	require.NoError(t, runLineageBuild(s, opts))

	var rendered graph.Graph
	require.NoError(t, json.Unmarshal(out.Bytes(), &rendered))
	assert.Len(t, rendered.Nodes, 3)
	assert.Len(t, rendered.Links, 2)
	assert.Equal(t, "1", rendered.Meta.Config["roots"])
	assert.Equal(t, "1", rendered.Meta.Config["max_depth"])

	opts.format = "svg"
	err := runLineageBuild(s, opts)
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestLineageBuildMissingRoot(t *testing.T) {
	s, _, _ := testSession(t)
	opts := buildOptions{
		source: populationSource{csv: writeFile(t, "pop.csv", population)},
		ids:    []int64{99},
		out:    tabular.Stdio,
	}

	err := runLineageBuild(s, opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, genealogy.ErrIndividualNotFound))
}

func TestResolveQuery(t *testing.T) {
	s, _, _ := testSession(t)
	s.cfg.Lineage.MaxDepth = util.Ptr(4)
	s.cfg.Lineage.MinBirthYear = util.Ptr(1700)

	q, err := resolveQuery(s, buildOptions{ids: []int64{7}})
	require.NoError(t, err)
	assert.Equal(t, 4, *q.MaxDepth)
	assert.Equal(t, 1700, *q.MinBirthYear)

	q, err = resolveQuery(s, buildOptions{
		indFile:  writeFile(t, "inds.txt", "3\n5\n"),
		ids:      []int64{7},
		maxDepth: util.Ptr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, []genealogy.ID{3, 5, 7}, q.Roots)
	assert.Equal(t, 0, *q.MaxDepth)
	assert.Equal(t, 1700, *q.MinBirthYear)

	_, err = resolveQuery(s, buildOptions{})
	assert.True(t, errors.Is(err, genealogy.ErrOptionViolation))
	assert.NotEmpty(t, errors.GetAllHints(err))

	_, err = resolveQuery(s, buildOptions{ids: []int64{1}, maxDepth: util.Ptr(-1)})
	assert.True(t, errors.Is(err, genealogy.ErrOptionViolation))
}

func TestLoadPopulationSources(t *testing.T) {
	s, _, _ := testSession(t)

	_, err := s.loadPopulation(populationSource{})
	assert.True(t, errors.IsInvalidRequestError(err))

	_, err = s.loadPopulation(populationSource{csv: "pop.csv", fromDB: true})
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestLoadPopulationReportsWarnings(t *testing.T) {
	s, _, progress := testSession(t)
	csvPath := writeFile(t, "pop.csv", population+"1,0,0,M,1999,NA\n")

	pop, err := s.loadPopulation(populationSource{csv: csvPath})
	require.NoError(t, err)
	assert.Equal(t, 6, pop.Len())
	assert.Contains(t, progress.String(), `"type":"warning"`)
}

func TestLineageDepth(t *testing.T) {
	s, out, _ := testSession(t)
	src := populationSource{csv: writeFile(t, "pop.csv", population)}

	require.NoError(t, runLineageDepth(s, src, []genealogy.ID{1, 2, 6}))
	assert.Equal(t, "1\t2\n2\t1\n6\t0\n", out.String())

	err := runLineageDepth(s, src, []genealogy.ID{42})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestDbImportAndBuildFromDatabase(t *testing.T) {
	s, out, _ := testSession(t)

	require.NoError(t, runDbImport(s, "", writeFile(t, "pop.csv", population)))

	opts := buildOptions{
		source: populationSource{fromDB: true},
		ids:    []int64{1},
		out:    tabular.Stdio,
		save:   true,
	}
	require.NoError(t, runLineageBuild(s, opts))
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, firstColumn(t, out.String()))

	out.Reset()
	s.json = true
	require.NoError(t, runDbStats(s, ""))
	var stats struct {
		Individuals   int  `json:"individuals"`
		EarliestBirth *int `json:"earliest_birth"`
		Runs          int  `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &stats))
	assert.Equal(t, 6, stats.Individuals)
	require.NotNil(t, stats.EarliestBirth)
	assert.Equal(t, 1890, *stats.EarliestBirth)
	assert.Equal(t, 1, stats.Runs)

	out.Reset()
	require.NoError(t, runDbRuns(s, "", 10))
	var runs []struct {
		ID          string         `json:"id"`
		Roots       []genealogy.ID `json:"roots"`
		MemberCount int            `json:"member_count"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, []genealogy.ID{1}, runs[0].Roots)
	assert.Equal(t, 5, runs[0].MemberCount)

	out.Reset()
	s.json = false
	require.NoError(t, runDbMembers(s, "", runs[0].ID))
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, firstColumn(t, out.String()))

	err := runDbMembers(s, "", "no-such-run")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestDbTables(t *testing.T) {
	s, out, progress := testSession(t)

	require.NoError(t, runDbRuns(s, "", 0))
	assert.Empty(t, out.String())
	assert.Contains(t, progress.String(), "no saved runs")

	require.NoError(t, runDbStats(s, ""))
	assert.Contains(t, out.String(), "Individuals")
	assert.Contains(t, out.String(), "Earliest birth")
}

const gedcomExport = `0 HEAD
0 @I1@ INDI
1 SEX M
1 BIRT
2 DATE 3 JUN 1950
2 PLAC Oslo
1 FAMC @F1@
1 RIN 1
1 REFN A-1
0 @I2@ INDI
1 SEX M
1 FAMS @F1@
1 RIN 2
0 @F1@ FAM
1 HUSB @I2@
1 CHIL @I1@
0 TRLR
`

func TestIxGed(t *testing.T) {
	s, _, _ := testSession(t)
	outPath := filepath.Join(t.TempDir(), "pop.csv")

	require.NoError(t, runIxGed(s, writeFile(t, "family.ged", gedcomExport), outPath))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "ind,father,mother,sex,birth_year,birth_place\n"+
		"1,2,0,M,1950,Oslo\n"+
		"2,0,0,M,NA,NA\n", string(data))
}

func TestIxRefn(t *testing.T) {
	s, _, _ := testSession(t)
	outPath := filepath.Join(t.TempDir(), "refn.csv")

	require.NoError(t, runIxRefn(s, writeFile(t, "family.ged", gedcomExport), outPath))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "RIN,REFN\n1,A-1\n2,\n", string(data))
}

func TestIxClean(t *testing.T) {
	s, _, _ := testSession(t)
	inPath := writeFile(t, "wrapped.ged", "0 HEAD\n1 NOTE first\nsecond\n\n0 TRLR\n")
	outPath := filepath.Join(t.TempDir(), "clean.ged")

	require.NoError(t, runIxClean(s, inPath, outPath))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "0 HEAD\n1 NOTE first second\n0 TRLR\n", string(data))
}

func TestIxGedParseErrorHasHint(t *testing.T) {
	s, _, _ := testSession(t)
	inPath := writeFile(t, "wrapped.ged", "0 HEAD\n1 NOTE first\nsecond\n")

	err := runIxGed(s, inPath, filepath.Join(t.TempDir(), "pop.csv"))
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestAmShow(t *testing.T) {
	cfg := am.Default()
	cfg.Lineage.MaxDepth = util.Ptr(3)

	var buf bytes.Buffer
	require.NoError(t, runAmShow(&buf, cfg, am.FormatTOML))
	assert.Contains(t, buf.String(), "# ancestry configuration")
	assert.Contains(t, buf.String(), "max_depth = 3")

	buf.Reset()
	require.NoError(t, runAmShow(&buf, cfg, am.FormatJSON))
	var decoded am.Config
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, *decoded.Lineage.MaxDepth)

	buf.Reset()
	assert.True(t, errors.Is(runAmShow(&buf, cfg, "ini"), am.ErrUnknownFormat))
}

func TestAmInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")

	var buf bytes.Buffer
	require.NoError(t, runAmInit(&buf, path))
	assert.Contains(t, buf.String(), "am.toml")

	cfg, err := am.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, am.DefaultPlaceholder, cfg.Ingest.Placeholder)
}
