package book

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookrental/internal/domain/book"
	"github.com/xiebiao/bookrental/internal/domain/borrowing"
	"github.com/xiebiao/bookrental/internal/infrastructure/persistence/memory"
)

func TestBookUseCases(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := book.NewService(store.Books(), store.Borrowings())

	publish := NewPublishBookUseCase(service)
	dune, err := publish.Execute(ctx, PublishBookRequest{
		Title: "Dune", Author: "Frank Herbert", Cover: "HARD", Inventory: 2, DailyFee: decimal.RequireFromString("1.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "1.50", dune.DailyFee)

	_, err = publish.Execute(ctx, PublishBookRequest{
		Title: "Emma", Author: "Jane Austen", Cover: "PAPER", Inventory: 1, DailyFee: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, book.ErrInvalidCover)

	emma, err := publish.Execute(ctx, PublishBookRequest{
		Title: "Emma", Author: "Jane Austen", Cover: "SOFT", Inventory: 1, DailyFee: decimal.Zero,
	})
	require.NoError(t, err)

	list, err := NewListBooksUseCase(service).Execute(ctx, ListBooksRequest{Keyword: "austen"})
	require.NoError(t, err)
	require.EqualValues(t, 1, list.Total)
	assert.Equal(t, emma.ID, list.List[0].ID)
	assert.Equal(t, 20, list.PageSize)

	got, err := NewGetBookUseCase(service).Execute(ctx, dune.ID)
	require.NoError(t, err)
	assert.Equal(t, "Frank Herbert", got.Author)

	// 有在借副本时不能删除
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	br, err := borrowing.NewBorrowing(dune.ID, 1, today, today.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.NoError(t, store.Borrowings().Create(ctx, br))

	del := NewDeleteBookUseCase(service)
	assert.ErrorIs(t, del.Execute(ctx, dune.ID), book.ErrHasActiveBorrowings)

	require.NoError(t, store.Borrowings().MarkReturned(ctx, br.ID, today))
	require.NoError(t, del.Execute(ctx, dune.ID))

	_, err = NewGetBookUseCase(service).Execute(ctx, dune.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}
