package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListRoundTrip(t *testing.T) {
	list := StringList{"Ryft One - Midnight", "Charger 4A"}

	value, err := list.Value()
	require.NoError(t, err)

	var scanned StringList
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, list, scanned)
}

func TestStringListScanNilAndEmpty(t *testing.T) {
	var list StringList
	require.NoError(t, list.Scan(nil))
	assert.Empty(t, list)

	require.NoError(t, list.Scan([]byte{}))
	assert.Empty(t, list)
}

func TestStringListScanRejectsUnknownType(t *testing.T) {
	var list StringList
	assert.Error(t, list.Scan(42))
}
