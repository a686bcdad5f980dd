// Package pricing 借阅租金与逾期罚款的计算
// 所有函数都是纯函数:按自然日计算,不足一天不计,金额使用decimal保留两位小数
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// FineMultiplier 逾期罚款倍数(按日租金的2倍收取)
var FineMultiplier = decimal.NewFromInt(2)

// DateOf 截断到当天零点(保留原时区)
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween 两个日期之间相差的自然日数(to - from),可以为负
// 只比较年月日,与时分秒、夏令时无关
func DaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	f := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// TotalPrice 借阅租金 = 借阅天数 × 日租金
// 预计归还日早于借出日时天数按0计算
func TotalPrice(borrowDate, expectedReturnDate time.Time, dailyFee decimal.Decimal) decimal.Decimal {
	days := clamp(DaysBetween(borrowDate, expectedReturnDate))
	return dailyFee.Mul(decimal.NewFromInt(int64(days))).Round(2)
}

// OverdueDays 逾期天数,未逾期时为0
func OverdueDays(expectedReturnDate, actualReturnDate time.Time) int {
	return clamp(DaysBetween(expectedReturnDate, actualReturnDate))
}

// Fine 逾期罚款 = 逾期天数 × 日租金 × 2
func Fine(expectedReturnDate, actualReturnDate time.Time, dailyFee decimal.Decimal) decimal.Decimal {
	days := OverdueDays(expectedReturnDate, actualReturnDate)
	return dailyFee.Mul(decimal.NewFromInt(int64(days))).Mul(FineMultiplier).Round(2)
}

func clamp(days int) int {
	if days < 0 {
		return 0
	}
	return days
}
