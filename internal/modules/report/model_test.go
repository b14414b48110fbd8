package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guizaa22/2M-market/internal/apperr"
)

func TestPeriodFor(t *testing.T) {
	// Thursday.
	now := time.Date(2024, 2, 29, 16, 45, 0, 0, time.UTC)
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	cases := []struct {
		name     string
		from, to time.Time
	}{
		{"today", day(2024, 2, 29), day(2024, 3, 1)},
		{"week", day(2024, 2, 26), day(2024, 3, 4)},
		{"month", day(2024, 2, 1), day(2024, 3, 1)},
		{"year", day(2024, 1, 1), day(2025, 1, 1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := PeriodFor(tc.name, now)
			require.NoError(t, err)
			assert.Equal(t, tc.from, p.From)
			assert.Equal(t, tc.to, p.To)
			assert.True(t, !now.Before(p.From) && now.Before(p.To))
		})
	}
}

func TestPeriodForSundayBelongsToPreviousWeek(t *testing.T) {
	sunday := time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)

	p, err := PeriodFor("week", sunday)

	require.NoError(t, err)
	assert.Equal(t, time.Monday, p.From.Weekday())
	assert.Equal(t, 26, p.From.Day())
}

func TestPeriodForUnknown(t *testing.T) {
	_, err := PeriodFor("decade", time.Now())
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestPeriodValidate(t *testing.T) {
	now := time.Now()
	assert.NoError(t, Period{From: now, To: now.Add(time.Second)}.Validate())
	assert.ErrorIs(t, Period{From: now, To: now}.Validate(), apperr.ErrValidation)
}
