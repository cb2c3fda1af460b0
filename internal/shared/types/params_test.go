package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetString(t *testing.T) {
	params := map[string]interface{}{"name": "x", "empty": "", "num": 3.0}

	got, err := GetString(params, "name", true)
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	_, err = GetString(params, "missing", true)
	assert.EqualError(t, err, "missing parameter required")

	_, err = GetString(params, "empty", true)
	assert.EqualError(t, err, "empty cannot be empty")

	_, err = GetString(params, "num", false)
	assert.EqualError(t, err, "num must be string")

	got, err = GetString(params, "missing", false)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetBool(t *testing.T) {
	params := map[string]interface{}{"a": true, "b": "false", "c": "maybe", "d": 1.0}

	assert.True(t, GetBool(params, "a", false))
	assert.False(t, GetBool(params, "b", true))
	assert.True(t, GetBool(params, "c", true))
	assert.False(t, GetBool(params, "d", false))
	assert.True(t, GetBool(params, "missing", true))
}

func TestGetNumberAndCollections(t *testing.T) {
	params := map[string]interface{}{
		"n":    2.5,
		"i":    4,
		"s":    "7",
		"list": []interface{}{"a", 1.0, "b"},
		"obj":  map[string]interface{}{"k": "v"},
	}

	n, err := GetNumber(params, "n", true)
	require.NoError(t, err)
	assert.Equal(t, 2.5, n)

	i, err := GetNumber(params, "i", true)
	require.NoError(t, err)
	assert.Equal(t, 4.0, i)

	_, err = GetNumber(params, "s", true)
	assert.Error(t, err)

	assert.Equal(t, []string{"a", "b"}, GetStrings(params, "list"))
	assert.Equal(t, "v", GetMap(params, "obj")["k"])
	assert.Nil(t, GetMap(params, "list"))
}

func TestResults(t *testing.T) {
	ok, err := Success(map[string]interface{}{"k": 1})
	require.NoError(t, err)
	assert.True(t, ok.Success)
	assert.Nil(t, ok.Error)

	fail, err := Failure("boom")
	require.NoError(t, err)
	assert.False(t, fail.Success)
	require.NotNil(t, fail.Error)
	assert.Equal(t, "boom", *fail.Error)

	partial, _ := FailureWith("partial", map[string]interface{}{"processed": 2})
	assert.Equal(t, 2, partial.Data["processed"])
}
