package dates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLeapYear(t *testing.T) {
	assert.True(t, IsLeapYear(2024))
	assert.True(t, IsLeapYear(2000))
	assert.False(t, IsLeapYear(1900))
	assert.False(t, IsLeapYear(2100))
	assert.False(t, IsLeapYear(2026))
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 29, DaysIn(2028, 2))
	assert.Equal(t, 28, DaysIn(2026, 2))
	assert.Equal(t, 30, DaysIn(2026, 4))
	assert.Equal(t, 31, DaysIn(2026, 12))
	assert.Equal(t, 0, DaysIn(2026, 13))
	assert.Equal(t, 0, DaysIn(2026, 0))
}
