package genealogy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional(t *testing.T) {
	year := Some(0)
	v, ok := year.Get()
	assert.True(t, ok, "zero is a present value")
	assert.Equal(t, 0, v)

	none := None[int]()
	_, ok = none.Get()
	assert.False(t, ok)
	assert.Equal(t, 1900, none.OrElse(1900))
	assert.Equal(t, 0, year.OrElse(1900))
	assert.Equal(t, "<none>", none.String())
	assert.Equal(t, "0", year.String())
}

func TestOptionalJSON(t *testing.T) {
	r := Row{ID: 5, Record: Record{Father: 1, Sex: SexFemale, BirthYear: Some(1890)}}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"id":5,"father":1,"mother":0,"sex":"F","birth_year":1890,"birth_place":null}`,
		string(data))

	var back Row
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r, back)
}
