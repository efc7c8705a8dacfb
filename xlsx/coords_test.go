package xlsx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	a, err := ParseRange("$D$4:B2")
	require.NoError(t, err)
	assert.Equal(t, Area{MinCol: 2, MinRow: 2, MaxCol: 4, MaxRow: 4}, a)
	assert.Equal(t, "B2:D4", a.String())
	assert.Len(t, a.Cells(), 9)
	assert.Equal(t, "B2", a.Cells()[0])
	assert.Equal(t, "C2", a.Cells()[1])
	assert.True(t, a.Contains(3, 3))
	assert.False(t, a.Contains(5, 3))

	for _, bad := range []string{"", "A1", "A1:B2:C3", "A0:B2", "1A:B2"} {
		_, err := ParseRange(bad)
		assert.True(t, ErrCoordinate.Is(err), bad)
	}
}

func TestCoordinates(t *testing.T) {
	key, err := NormalizeCoordinate("$aa$10")
	require.NoError(t, err)
	assert.Equal(t, "AA10", key)

	_, err = NormalizeCoordinate("10")
	assert.True(t, ErrCoordinate.Is(err))

	assert.Equal(t, "Y", ColumnLetter(25))
	assert.Equal(t, "", ColumnLetter(0))
	n, err := ColumnNumber("aa")
	require.NoError(t, err)
	assert.Equal(t, 27, n)
	assert.Equal(t, "G45", Coordinate("g", 45))
}
