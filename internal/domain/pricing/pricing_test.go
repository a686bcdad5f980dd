package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTotalPrice(t *testing.T) {
	d := date(2026, 3, 10)

	tests := []struct {
		name     string
		expected time.Time
		fee      string
		want     string
	}{
		{name: "7天×1.00", expected: d.AddDate(0, 0, 7), fee: "1.00", want: "7.00"},
		{name: "当天归还", expected: d, fee: "3.75", want: "0.00"},
		{name: "5天×2.00", expected: d.AddDate(0, 0, 5), fee: "2.00", want: "10.00"},
		{name: "跨月", expected: date(2026, 4, 2), fee: "0.50", want: "11.50"},
		{name: "负天数按0", expected: d.AddDate(0, 0, -3), fee: "1.00", want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TotalPrice(d, tt.expected, decimal.RequireFromString(tt.fee))
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestFine(t *testing.T) {
	expected := date(2026, 3, 10)

	tests := []struct {
		name   string
		actual time.Time
		fee    string
		want   string
	}{
		{name: "逾期3天×1.00×2", actual: expected.AddDate(0, 0, 3), fee: "1.00", want: "6.00"},
		{name: "逾期2天×2.00×2", actual: expected.AddDate(0, 0, 2), fee: "2.00", want: "8.00"},
		{name: "当天归还不罚款", actual: expected, fee: "1.00", want: "0.00"},
		{name: "提前归还不罚款", actual: expected.AddDate(0, 0, -1), fee: "1.00", want: "0.00"},
		{name: "小数日租金", actual: expected.AddDate(0, 0, 1), fee: "0.33", want: "0.66"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fine(expected, tt.actual, decimal.RequireFromString(tt.fee))
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestDaysBetween_IgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	from := time.Date(2026, 3, 10, 23, 59, 0, 0, loc)
	to := time.Date(2026, 3, 11, 0, 1, 0, 0, loc)

	assert.Equal(t, 1, DaysBetween(from, to))
	assert.Equal(t, -1, DaysBetween(to, from))
	assert.Equal(t, 0, DaysBetween(from, DateOf(from)))
}
