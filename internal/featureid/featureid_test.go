package featureid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	tests := []struct {
		name string
		want ID
	}{
		{"Asylum Hill", "path-asylumhill"},
		{"Frog Hollow", "path-froghollow"},
		{"South End", "path-southend"},
		{"Blue Hills", "path-bluehills"},
		{"West End (WH)", "path-westendwh"},
		{"Parkville-North", "path-parkvillenorth"},
		{"St. Mary's", "path-stmarys"},
		{"under_score 2", "path-under_score2"},
		{"Café", "path-caf"},
		{"", "path-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, For(tt.name))
		})
	}
}

func TestForDeterministic(t *testing.T) {
	for _, n := range []string{"Asylum Hill", "North-East", "Sheldon/Charter Oak"} {
		assert.Equal(t, For(n), For(n))
	}
}

func TestValidateUnique(t *testing.T) {
	idx, err := Validate([]string{"Asylum Hill", "Frog Hollow", "West End"})
	require.NoError(t, err)
	assert.Len(t, idx, 3)
	assert.Equal(t, "Frog Hollow", idx["path-froghollow"])
}

func TestValidateRepeatedNameIsNotCollision(t *testing.T) {
	idx, err := Validate([]string{"Asylum Hill", "Asylum Hill"})
	require.NoError(t, err)
	assert.Len(t, idx, 1)
}

func TestValidateCollision(t *testing.T) {
	_, err := Validate([]string{"West End", "Frog Hollow", "West-End"})
	require.Error(t, err)

	var ce *CollisionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ID("path-westend"), ce.ID)
	assert.Equal(t, "West End", ce.First)
	assert.Equal(t, "West-End", ce.Second)
}

func TestValidateCaseOnlyCollision(t *testing.T) {
	_, err := Validate([]string{"south end", "South End"})
	var ce *CollisionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ID("path-southend"), ce.ID)
}
