package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTodayTruncatesToMidnight(t *testing.T) {
	loc, _ := time.LoadLocation("Africa/Johannesburg")
	c := Fixed{T: time.Date(2025, time.March, 10, 23, 59, 59, 0, loc)}

	today := Today(c)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, loc), today)
}

func TestNewSystemFallsBackToUTC(t *testing.T) {
	c := NewSystem("Not/AZone")
	assert.Equal(t, time.UTC, c.Loc)
}

func TestNewSystemLoadsLocation(t *testing.T) {
	c := NewSystem("Africa/Johannesburg")
	assert.Equal(t, "Africa/Johannesburg", c.Loc.String())
}
