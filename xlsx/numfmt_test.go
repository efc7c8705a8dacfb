package xlsx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsDateFormat(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"General", false},
		{"", false},
		{"0.00", false},
		{"#,##0", false},
		{"h:mm", false},
		{"[h]:mm:ss", false},
		{"mm:ss", false},
		{`"day" 0`, false},
		{`0\d`, false},
		{"[Red]0.00", false},
		{"yyyy-mm-dd", true},
		{"mm-dd-yy", true},
		{"d-mmm", true},
		{"m/d/yy h:mm", true},
		{"[$-409]mmmm d, yyyy", true},
		{"0.00;yyyy", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isDateFormat(tt.code), "%q", tt.code)
	}
}

func TestSerialToTime(t *testing.T) {
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), serialToTime(45292))
	assert.Equal(t, time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC), serialToTime(45292.5))
	assert.Equal(t, time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC), serialToTime(2))
}

func TestBuiltinNumFmtID(t *testing.T) {
	id, ok := builtinNumFmtID("0.00")
	assert.True(t, ok)
	assert.Equal(t, 2, id)

	id, ok = builtinNumFmtID("General")
	assert.True(t, ok)
	assert.Equal(t, 0, id)

	id, ok = builtinNumFmtID("")
	assert.True(t, ok)
	assert.Equal(t, 0, id)

	_, ok = builtinNumFmtID("yyyy-mm-dd")
	assert.False(t, ok)
}

func TestTimeToSerial(t *testing.T) {
	tests := []struct {
		in   time.Time
		want float64
		ok   bool
	}{
		{time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), 45292, true},
		{time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC), 45292.5, true},
		{time.Date(2024, time.January, 1, 12, 0, 0, 0, time.FixedZone("EST", -5*3600)), 45292.5, true},
		{time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC), 0, true},
		{time.Date(1899, time.December, 29, 23, 0, 0, 0, time.UTC), 0, false},
		{time.Date(10000, time.January, 1, 0, 0, 0, 0, time.UTC), 0, false},
	}
	for _, tt := range tests {
		got, ok := timeToSerial(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in.String())
		assert.InDelta(t, tt.want, got, 1e-9, tt.in.String())
	}

	at := time.Date(1987, time.June, 4, 17, 45, 30, 0, time.UTC)
	serial, ok := timeToSerial(at)
	assert.True(t, ok)
	assert.True(t, serialToTime(serial).Equal(at))
}
