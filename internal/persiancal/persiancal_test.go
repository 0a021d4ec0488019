package persiancal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJalaliRoundTrip(t *testing.T) {
	// 2024-03-20 is Nowruz: 1403/01/01.
	g := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)

	jy, jm, jd := ToJalali(g)
	assert.Equal(t, 1403, jy)
	assert.Equal(t, 1, jm)
	assert.Equal(t, 1, jd)

	back := ToGregorian(jy, jm, jd, time.UTC)
	assert.True(t, SameDay(g, back))
}

func TestFormatDate(t *testing.T) {
	g := time.Date(2024, time.March, 20, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "1403/01/01", FormatDate(g))
}

func TestWeekBoundsStartSaturday(t *testing.T) {
	// 2024-03-20 is a Wednesday; the Persian week around it runs
	// Saturday 2024-03-16 through Friday 2024-03-22.
	g := time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)

	start := StartOfWeek(g)
	end := EndOfWeek(g)
	assert.Equal(t, time.Saturday, start.Weekday())
	assert.Equal(t, time.Friday, end.Weekday())
	assert.Equal(t, 16, start.Day())
	assert.Equal(t, 22, end.Day())
	assert.Equal(t, 4, WeekdayIndex(g))
}

func TestDigitConversion(t *testing.T) {
	assert.Equal(t, "۱۴۰۳/۰۱/۰۱", ToPersianDigits("1403/01/01"))
	assert.Equal(t, "1403", ToLatinDigits("۱۴۰۳"))
	assert.Equal(t, "123", ToLatinDigits("١٢٣"))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"16000000", 16_000_000},
		{"16,000,000", 16_000_000},
		{"۱۶٬۰۰۰٬۰۰۰", 16_000_000},
		{"  ۲۳۰۰۰ ", 23_000},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseAmount("abc")
	require.Error(t, err)
}

func TestFormatAmountUsesPersianGrouping(t *testing.T) {
	out := FormatAmount(16_000_000)
	assert.Equal(t, "۱۶", out[:len("۱۶")])
	assert.Contains(t, out, "۰۰۰")
}
