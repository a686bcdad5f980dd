package book

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Cover 封面类型
type Cover string

const (
	CoverHard Cover = "HARD" // 精装
	CoverSoft Cover = "SOFT" // 平装
)

// IsValid 是否为合法的封面类型
func (c Cover) IsValid() bool {
	return c == CoverHard || c == CoverSoft
}

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Inventory是可借出的副本数,借出减1,归还加1,任何时刻都不能为负
// 2. DailyFee是每日租金,使用decimal保存两位小数,不使用浮点数
type Book struct {
	ID        uint
	Title     string          // 书名
	Author    string          // 作者
	Cover     Cover           // 封面类型
	Inventory int             // 可借库存
	DailyFee  decimal.Decimal // 每日租金
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBook 创建新图书(工厂方法)
// 业务规则:
// - 书名、作者不能为空
// - 封面只能是HARD或SOFT
// - 库存>=0, 日租金>=0且最多两位小数
func NewBook(title, author string, cover Cover, inventory int, dailyFee decimal.Decimal) (*Book, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" || author == "" {
		return nil, ErrInvalidBookInfo
	}
	if !cover.IsValid() {
		return nil, ErrInvalidCover
	}
	if inventory < 0 {
		return nil, ErrInvalidInventory
	}
	if err := ValidateDailyFee(dailyFee); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Book{
		Title:     title,
		Author:    author,
		Cover:     cover,
		Inventory: inventory,
		DailyFee:  dailyFee,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateDailyFee 日租金必须非负,且不超过两位小数、总共5位有效数字(999.99)
func ValidateDailyFee(fee decimal.Decimal) error {
	if fee.IsNegative() {
		return ErrInvalidDailyFee
	}
	if !fee.Equal(fee.Truncate(2)) {
		return ErrInvalidDailyFee
	}
	if fee.GreaterThan(maxDailyFee) {
		return ErrInvalidDailyFee
	}
	return nil
}

var maxDailyFee = decimal.RequireFromString("999.99")

// IsAvailable 是否还有可借副本
func (b *Book) IsAvailable() bool {
	return b.Inventory > 0
}

// DecrInventory 借出一本(库存-1)
func (b *Book) DecrInventory() error {
	if b.Inventory < 1 {
		return ErrNotAvailable
	}
	b.Inventory--
	b.UpdatedAt = time.Now()
	return nil
}

// IncrInventory 归还一本(库存+1)
func (b *Book) IncrInventory() {
	b.Inventory++
	b.UpdatedAt = time.Now()
}

// String 用于通知文案
func (b *Book) String() string {
	return b.Title + " (" + b.Author + ")"
}
