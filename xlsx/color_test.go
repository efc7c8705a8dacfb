package xlsx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveColor(t *testing.T) {
	tests := []struct {
		name string
		in   Color
		want string
	}{
		{"six digits", RGB("aeaaaa"), "FFAEAAAA"},
		{"hash prefix", RGB("#FF0000"), "FFFF0000"},
		{"eight digits kept", RGB("80112233"), "80112233"},
		{"six digit black is a colour", RGB("000000"), "FF000000"},
		{"none sentinel", RGB("00000000"), ""},
		{"malformed", RGB("xyz"), ""},
		{"non hex", RGB("GG0000"), ""},
		{"unset", Color{}, ""},
		{"theme lt1", ThemeColor(0, 0), "FFFFFFFF"},
		{"theme dk1", ThemeColor(1, 0), "FF000000"},
		{"theme dk2", ThemeColor(3, 0), "FF44546A"},
		{"theme accent1", ThemeColor(4, 0), "FF4472C4"},
		{"theme folHlink", ThemeColor(11, 0), "FF954F72"},
		{"unknown theme slot", ThemeColor(42, 0), FallbackColor},
		{"negative theme slot", ThemeColor(-1, 0), FallbackColor},
		{"darken white", ThemeColor(0, -0.5), "FF808080"},
		{"lighten black", ThemeColor(1, 0.5), "FF808080"},
		{"full lighten", ThemeColor(3, 1), "FFFFFFFF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveColor(tt.in))
		})
	}
}

func TestResolveColorIsTotal(t *testing.T) {
	for idx := -5; idx < 64; idx++ {
		for _, tint := range []float64{-2, -1, -0.25, 0, 0.4, 1, 3} {
			got := ResolveColor(ThemeColor(idx, tint))
			assert.Len(t, got, 8, "theme %d tint %v", idx, tint)
		}
	}
}

func TestPalette(t *testing.T) {
	p := NewPalette(map[int]string{0: "123456", 1: "not a colour"}, "FFABCDEF")

	assert.Equal(t, "FF123456", p.Resolve(ThemeColor(0, 0)))
	assert.Equal(t, "FFABCDEF", p.Resolve(ThemeColor(1, 0)), "dropped entry falls back")
	assert.Equal(t, "FFABCDEF", p.Resolve(ThemeColor(4, 0)))
	assert.Equal(t, Color{RGB: "FF123456"}, p.Concrete(ThemeColor(0, 0)))
	assert.True(t, p.Concrete(RGB("00000000")).IsZero())

	var nilPalette *Palette
	assert.Equal(t, "FF4472C4", nilPalette.Resolve(ThemeColor(4, 0)))
}

func TestIndexedColors(t *testing.T) {
	p := DefaultPalette()
	assert.Equal(t, "FF000000", p.Indexed(0))
	assert.Equal(t, "FFFF0000", p.Indexed(2))
	assert.Equal(t, "FFC0C0C0", p.Indexed(22))
	assert.Equal(t, "", p.Indexed(64), "system foreground")
	assert.Equal(t, "", p.Indexed(65), "system background")
	assert.Equal(t, "", p.Indexed(200))
	assert.Equal(t, "", p.Indexed(-1))
}
