package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fooTag struct{}
type barTag struct{}

func TestIDRoundTrip(t *testing.T) {
	id := NewID[fooTag]("68b1f2c4a9d3e80012345678")
	assert.Equal(t, "68b1f2c4a9d3e80012345678", id.String())
	assert.False(t, id.IsZero())
	assert.True(t, NewID[fooTag]("").IsZero())
}

func TestIDJSONIsBareString(t *testing.T) {
	id := NewID[fooTag]("abc123")

	raw, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"abc123"`, string(raw))

	var decoded ID[fooTag]
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, id, decoded)
}

func TestIDEqualityByString(t *testing.T) {
	a := NewID[fooTag]("same")
	b := NewID[fooTag]("same")
	c := NewID[fooTag]("other")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	// Same raw string under a different tag is a distinct type; mixing them
	// requires an explicit conversion and never happens by accident.
	var _ ID[barTag] = ID[barTag](a.String())
}
