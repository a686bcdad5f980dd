package memory

import (
	"context"
	"strings"

	"github.com/xiebiao/bookrental/internal/domain/book"
)

type bookRepo struct {
	s *Store
}

func (r *bookRepo) Create(ctx context.Context, b *book.Book) error {
	return r.s.write(ctx, func() error {
		b.ID = r.s.newID("books")
		r.s.books[b.ID] = cloneBook(b)
		return nil
	})
}

func (r *bookRepo) FindByID(_ context.Context, id uint) (*book.Book, error) {
	var found *book.Book
	r.s.read(func() {
		if b, ok := r.s.books[id]; ok {
			found = cloneBook(b)
		}
	})
	if found == nil {
		return nil, book.ErrBookNotFound
	}
	return found, nil
}

// LockByID 事务已经串行执行,直接读取即可
func (r *bookRepo) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	return r.FindByID(ctx, id)
}

func (r *bookRepo) Delete(ctx context.Context, id uint) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.books[id]; !ok {
			return book.ErrBookNotFound
		}
		delete(r.s.books, id)
		return nil
	})
}

func (r *bookRepo) List(_ context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var list []*book.Book
	keyword := strings.ToLower(params.Keyword)
	r.s.read(func() {
		for _, b := range r.s.books {
			if keyword != "" &&
				!strings.Contains(strings.ToLower(b.Title), keyword) &&
				!strings.Contains(strings.ToLower(b.Author), keyword) {
				continue
			}
			list = append(list, cloneBook(b))
		}
	})
	sortByIDDesc(list, func(b *book.Book) uint { return b.ID })
	return page(list, params.Page, params.PageSize), int64(len(list)), nil
}

func (r *bookRepo) UpdateInventory(ctx context.Context, id uint, delta int) error {
	return r.s.write(ctx, func() error {
		b, ok := r.s.books[id]
		if !ok {
			return book.ErrBookNotFound
		}
		if b.Inventory+delta < 0 {
			return book.ErrNotAvailable
		}
		b.Inventory += delta
		touch(&b.UpdatedAt)
		return nil
	})
}
