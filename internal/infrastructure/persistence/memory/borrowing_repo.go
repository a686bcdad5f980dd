package memory

import (
	"context"
	"sort"
	"time"

	"github.com/xiebiao/bookrental/internal/domain/borrowing"
	"github.com/xiebiao/bookrental/internal/domain/pricing"
)

type borrowingRepo struct {
	s *Store
}

func (r *borrowingRepo) Create(ctx context.Context, b *borrowing.Borrowing) error {
	return r.s.write(ctx, func() error {
		b.ID = r.s.newID("borrowings")
		r.s.borrowings[b.ID] = cloneBorrowing(b)
		return nil
	})
}

func (r *borrowingRepo) FindByID(_ context.Context, id uint) (*borrowing.Borrowing, error) {
	var found *borrowing.Borrowing
	r.s.read(func() {
		if b, ok := r.s.borrowings[id]; ok {
			found = cloneBorrowing(b)
		}
	})
	if found == nil {
		return nil, borrowing.ErrBorrowingNotFound
	}
	return found, nil
}

func (r *borrowingRepo) LockByID(ctx context.Context, id uint) (*borrowing.Borrowing, error) {
	return r.FindByID(ctx, id)
}

func (r *borrowingRepo) MarkReturned(ctx context.Context, id uint, returnDate time.Time) error {
	return r.s.write(ctx, func() error {
		b, ok := r.s.borrowings[id]
		if !ok {
			return borrowing.ErrBorrowingNotFound
		}
		if b.ActualReturnDate != nil {
			return borrowing.ErrAlreadyReturned
		}
		d := pricing.DateOf(returnDate)
		b.ActualReturnDate = &d
		touch(&b.UpdatedAt)
		return nil
	})
}

func (r *borrowingRepo) List(_ context.Context, params borrowing.ListParams) ([]*borrowing.Borrowing, int64, error) {
	var list []*borrowing.Borrowing
	r.s.read(func() {
		for _, b := range r.s.borrowings {
			if params.UserID != nil && b.UserID != *params.UserID {
				continue
			}
			if params.IsActive != nil && b.IsActive() != *params.IsActive {
				continue
			}
			list = append(list, cloneBorrowing(b))
		}
	})
	sortByIDDesc(list, func(b *borrowing.Borrowing) uint { return b.ID })
	return page(list, params.Page, params.PageSize), int64(len(list)), nil
}

func (r *borrowingRepo) ListActiveDueBy(_ context.Context, due time.Time) ([]*borrowing.Borrowing, error) {
	var list []*borrowing.Borrowing
	r.s.read(func() {
		for _, b := range r.s.borrowings {
			if b.IsActive() && pricing.DaysBetween(b.ExpectedReturnDate, due) >= 0 {
				list = append(list, cloneBorrowing(b))
			}
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].ExpectedReturnDate.Equal(list[j].ExpectedReturnDate) {
			return list[i].ExpectedReturnDate.Before(list[j].ExpectedReturnDate)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *borrowingRepo) CountActiveByBook(_ context.Context, bookID uint) (int64, error) {
	var n int64
	r.s.read(func() {
		for _, b := range r.s.borrowings {
			if b.BookID == bookID && b.IsActive() {
				n++
			}
		}
	})
	return n, nil
}
