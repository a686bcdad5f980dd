package borrowing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2026, 5, 1, 10, 30, 0, 0, time.Local)

func TestNewBorrowing(t *testing.T) {
	t.Run("预计归还日期等于借出日期", func(t *testing.T) {
		b, err := NewBorrowing(1, 2, day0, day0)
		require.NoError(t, err)
		assert.True(t, b.IsActive())
		assert.Equal(t, StatusActive, b.Status())
		assert.Equal(t, 0, b.BorrowDate.Hour(), "借出日期应截断到零点")
	})

	t.Run("预计归还日期早于借出日期", func(t *testing.T) {
		_, err := NewBorrowing(1, 2, day0, day0.AddDate(0, 0, -1))
		assert.ErrorIs(t, err, ErrInvalidReturnDate)
	})
}

func TestBorrowing_Return(t *testing.T) {
	b, err := NewBorrowing(1, 2, day0, day0.AddDate(0, 0, 5))
	require.NoError(t, err)

	returnDay := day0.AddDate(0, 0, 7)
	require.NoError(t, b.Return(returnDay))
	require.NotNil(t, b.ActualReturnDate)
	assert.Equal(t, StatusReturned, b.Status())
	assert.Equal(t, 2, b.OverdueDays(time.Now()), "已归还的记录按实际归还日期计算逾期")

	first := *b.ActualReturnDate
	assert.ErrorIs(t, b.Return(returnDay.AddDate(0, 0, 1)), ErrAlreadyReturned)
	assert.Equal(t, first, *b.ActualReturnDate, "重复归还不能修改归还日期")
}

func TestBorrowing_IsOverdue(t *testing.T) {
	b, err := NewBorrowing(1, 2, day0, day0.AddDate(0, 0, 3))
	require.NoError(t, err)

	assert.False(t, b.IsOverdue(day0.AddDate(0, 0, 3)), "当天归还不算逾期")
	assert.True(t, b.IsOverdue(day0.AddDate(0, 0, 4)))
	assert.Equal(t, 1, b.DaysUntilDue(day0.AddDate(0, 0, 2)))
	assert.Equal(t, -2, b.DaysUntilDue(day0.AddDate(0, 0, 5)))
}
