package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, time.September, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "07/09", FormatDate(d))
}

func TestFormatDateWithWeekday(t *testing.T) {
	sunday := time.Date(2025, time.September, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Domingo, 07/09", FormatDateWithWeekday(sunday))

	saturday := time.Date(2025, time.September, 6, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Sábado, 06/09", FormatDateWithWeekday(saturday))
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2025, time.September, 7, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "09:30", FormatTime(ts))
}

func TestFormatUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	// 23:00 local on the 6th is already the 7th in UTC.
	ts := time.Date(2025, time.September, 6, 23, 0, 0, 0, loc)
	assert.Equal(t, "07/09", FormatDate(ts))
	assert.Equal(t, "02:00", FormatTime(ts))
}
