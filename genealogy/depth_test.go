package genealogy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/ancestry/errors"
)

func TestDepth(t *testing.T) {
	tests := []struct {
		name string
		rows []Row
		id   ID
		want int
	}{
		{
			name: "no parents",
			rows: []Row{row(1, 0, 0, SexMale, 0)},
			id:   1,
			want: 0,
		},
		{
			name: "scenario population",
			rows: threeGeneration(),
			id:   1,
			want: 1,
		},
		{
			name: "longest branch wins",
			rows: []Row{
				row(1, 2, 3, SexMale, 0),
				row(2, 4, 0, SexMale, 0),
				row(3, 0, 0, SexFemale, 0),
				row(4, 5, 0, SexMale, 0),
				row(5, 0, 0, SexMale, 0),
			},
			id:   1,
			want: 3,
		},
		{
			name: "longest branch through mother",
			rows: []Row{
				row(1, 2, 3, SexMale, 0),
				row(2, 0, 0, SexMale, 0),
				row(3, 0, 4, SexFemale, 0),
				row(4, 0, 5, SexFemale, 0),
				row(5, 0, 0, SexFemale, 0),
			},
			id:   1,
			want: 3,
		},
		{
			name: "parent outside the store ends the chain",
			rows: []Row{row(1, 99, 98, SexMale, 0)},
			id:   1,
			want: 0,
		},
		{
			name: "shared ancestor counted along the longest path",
			rows: []Row{
				row(1, 2, 3, SexMale, 0),
				row(2, 4, 0, SexMale, 0),
				row(3, 0, 6, SexFemale, 0),
				row(6, 4, 0, SexFemale, 0),
				row(4, 5, 0, SexMale, 0),
				row(5, 0, 0, SexMale, 0),
			},
			id:   1,
			want: 4,
		},
		{
			name: "depth from an intermediate individual",
			rows: []Row{
				row(1, 2, 0, SexMale, 0),
				row(2, 3, 0, SexMale, 0),
				row(3, 0, 0, SexMale, 0),
			},
			id:   2,
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustLoad(t, tt.rows...)
			got, err := Depth(s, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDepthMissingIndividual(t *testing.T) {
	s := mustLoad(t, threeGeneration()...)

	_, err := Depth(s, 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIndividualNotFound))
	assert.True(t, errors.IsNotFoundError(err))
	assert.Contains(t, err.Error(), "individual 99")
}

func TestDepthNilStore(t *testing.T) {
	_, err := Depth(nil, 1)
	assert.ErrorIs(t, err, ErrNilStore)
}

func TestDepthTerminatesOnCycle(t *testing.T) {
	s := mustLoad(t,
		row(1, 2, 0, SexMale, 0),
		row(2, 3, 0, SexMale, 0),
		row(3, 1, 0, SexMale, 0),
	)

	got, err := Depth(s, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestDepthLongChainDoesNotRecurse(t *testing.T) {
	const n = 200_000
	rows := make([]Row, 0, n)
	for i := ID(1); i <= n; i++ {
		father := i + 1
		if i == n {
			father = NoParent
		}
		rows = append(rows, row(i, father, 0, SexMale, 0))
	}
	s := mustLoad(t, rows...)

	got, err := Depth(s, 1)
	require.NoError(t, err)
	assert.Equal(t, n-1, got)
}
