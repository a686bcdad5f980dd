package book

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBook(t *testing.T) {
	fee := decimal.RequireFromString("1.50")

	tests := []struct {
		name      string
		title     string
		cover     Cover
		inventory int
		fee       decimal.Decimal
		wantErr   error
	}{
		{name: "合法图书", title: "Dune", cover: CoverHard, inventory: 3, fee: fee},
		{name: "零库存允许", title: "Dune", cover: CoverSoft, inventory: 0, fee: fee},
		{name: "空书名", title: "  ", cover: CoverHard, inventory: 1, fee: fee, wantErr: ErrInvalidBookInfo},
		{name: "非法封面", title: "Dune", cover: Cover("PAPER"), inventory: 1, fee: fee, wantErr: ErrInvalidCover},
		{name: "负库存", title: "Dune", cover: CoverHard, inventory: -1, fee: fee, wantErr: ErrInvalidInventory},
		{name: "负日租金", title: "Dune", cover: CoverHard, inventory: 1, fee: decimal.RequireFromString("-0.01"), wantErr: ErrInvalidDailyFee},
		{name: "三位小数", title: "Dune", cover: CoverHard, inventory: 1, fee: decimal.RequireFromString("1.005"), wantErr: ErrInvalidDailyFee},
		{name: "超过上限", title: "Dune", cover: CoverHard, inventory: 1, fee: decimal.RequireFromString("1000"), wantErr: ErrInvalidDailyFee},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBook(tt.title, "Frank Herbert", tt.cover, tt.inventory, tt.fee)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, b)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.inventory, b.Inventory)
		})
	}
}

func TestBook_Inventory(t *testing.T) {
	b, err := NewBook("Dune", "Frank Herbert", CoverHard, 1, decimal.NewFromInt(1))
	require.NoError(t, err)

	require.NoError(t, b.DecrInventory())
	assert.Equal(t, 0, b.Inventory)
	assert.False(t, b.IsAvailable())

	assert.ErrorIs(t, b.DecrInventory(), ErrNotAvailable)
	assert.Equal(t, 0, b.Inventory, "失败的借出不应修改库存")

	b.IncrInventory()
	assert.Equal(t, 1, b.Inventory)
}
