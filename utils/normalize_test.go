package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, 5.68, Round2(5.678))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 99.99, Round2(99.994))
	assert.Equal(t, -5.68, Round2(-5.678))
}

func TestNormalizeDTO(t *testing.T) {
	type dto struct {
		Name string
		Rate float64
		Keep int
	}
	d := dto{Name: "  Acme  ", Rate: 10.999, Keep: 3}
	NormalizeDTO(&d)
	assert.Equal(t, "Acme", d.Name)
	assert.Equal(t, 11.0, d.Rate)
	assert.Equal(t, 3, d.Keep)

	// Non-pointer input is a no-op, not a panic.
	NormalizeDTO(dto{Name: " x "})
}

func TestParseDate(t *testing.T) {
	ts, ok := ParseDate("2026-04-10")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC), ts)

	ts, ok = ParseDate("2026-04-10T12:30:00Z")
	assert.True(t, ok)
	assert.Equal(t, 12, ts.Hour())

	_, ok = ParseDate("")
	assert.False(t, ok)
	_, ok = ParseDate("10/04/2026")
	assert.False(t, ok)
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 25, ParseIntDefault("25", 50))
	assert.Equal(t, 50, ParseIntDefault("", 50))
	assert.Equal(t, 50, ParseIntDefault("abc", 50))
	assert.Equal(t, 50, ParseIntDefault("-3", 50))
}
