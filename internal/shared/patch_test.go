package shared

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchDistinguishesAbsentNullAndValue(t *testing.T) {
	type payload struct {
		Name  Patch[string]  `json:"name"`
		Phone Patch[*string] `json:"phone"`
	}

	var absent payload
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.Name.Set())
	assert.False(t, absent.Phone.Set())

	var cleared payload
	require.NoError(t, json.Unmarshal([]byte(`{"phone":null}`), &cleared))
	assert.False(t, cleared.Name.Set())
	assert.True(t, cleared.Phone.Set())
	assert.Nil(t, cleared.Phone.Value())

	var set payload
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Kavya","phone":"123"}`), &set))
	assert.True(t, set.Name.Set())
	assert.Equal(t, "Kavya", set.Name.Value())
	require.True(t, set.Phone.Set())
	require.NotNil(t, set.Phone.Value())
	assert.Equal(t, "123", *set.Phone.Value())
}

func TestPatchApply(t *testing.T) {
	name := "old"
	PatchOf("new").Apply(&name)
	assert.Equal(t, "new", name)

	unchanged := "old"
	var unset Patch[string]
	unset.Apply(&unchanged)
	assert.Equal(t, "old", unchanged)
}

func TestPaginationMetadata(t *testing.T) {
	p := NewPagination(3, 10, 42)
	assert.Equal(t, 5, p.TotalPages)
	assert.Equal(t, 20, p.Offset())

	empty := NewPagination(1, 10, 0)
	assert.Equal(t, 0, empty.TotalPages)

	defaulted := NewPagination(0, 0, 5)
	assert.Equal(t, 1, defaulted.Page)
	assert.Equal(t, 20, defaulted.PerPage)
}
