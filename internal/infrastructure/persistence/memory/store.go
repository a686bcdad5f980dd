// Package memory 进程内存储
// 实现与MySQL仓储相同的接口,用于本地运行(database.driver=memory)和测试
// 事务通过全局互斥锁串行执行,失败时回滚到事务开始时的快照
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xiebiao/bookrental/internal/domain/book"
	"github.com/xiebiao/bookrental/internal/domain/borrowing"
	"github.com/xiebiao/bookrental/internal/domain/payment"
	"github.com/xiebiao/bookrental/internal/domain/transaction"
	"github.com/xiebiao/bookrental/internal/domain/user"
)

type txKey struct{}

// Store 内存存储
type Store struct {
	txMu sync.Mutex   // 串行化事务与事务外的写操作
	mu   sync.RWMutex // 保护下面的数据

	books      map[uint]*book.Book
	borrowings map[uint]*borrowing.Borrowing
	payments   map[uint]*payment.Payment
	users      map[uint]*user.User
	nextID     map[string]uint
}

var _ transaction.Manager = (*Store)(nil)

// NewStore 创建内存存储
func NewStore() *Store {
	return &Store{
		books:      make(map[uint]*book.Book),
		borrowings: make(map[uint]*borrowing.Borrowing),
		payments:   make(map[uint]*payment.Payment),
		users:      make(map[uint]*user.User),
		nextID:     make(map[string]uint),
	}
}

// Books 图书仓储
func (s *Store) Books() book.Repository { return &bookRepo{s: s} }

// Borrowings 借阅仓储
func (s *Store) Borrowings() borrowing.Repository { return &borrowingRepo{s: s} }

// Payments 支付仓储
func (s *Store) Payments() payment.Repository { return &paymentRepo{s: s} }

// Users 用户仓储
func (s *Store) Users() user.Repository { return &userRepo{s: s} }

// Transaction 执行事务,嵌套调用时直接加入外层事务
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// write 事务外的写操作也要拿txMu,否则会被并发事务的回滚覆盖
func (s *Store) write(ctx context.Context, fn func() error) error {
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

func (s *Store) read(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

func (s *Store) newID(table string) uint {
	s.nextID[table]++
	return s.nextID[table]
}

type snapshot struct {
	books      map[uint]*book.Book
	borrowings map[uint]*borrowing.Borrowing
	payments   map[uint]*payment.Payment
	users      map[uint]*user.User
	nextID     map[string]uint
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		books:      copyMap(s.books, cloneBook),
		borrowings: copyMap(s.borrowings, cloneBorrowing),
		payments:   copyMap(s.payments, clonePayment),
		users:      copyMap(s.users, cloneUser),
		nextID:     copyMap(s.nextID, func(v uint) uint { return v }),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = snap.books
	s.borrowings = snap.borrowings
	s.payments = snap.payments
	s.users = snap.users
	s.nextID = snap.nextID
}

func copyMap[K comparable, V any](m map[K]V, clone func(V) V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = clone(v)
	}
	return out
}

func cloneBook(b *book.Book) *book.Book {
	c := *b
	return &c
}

func cloneBorrowing(b *borrowing.Borrowing) *borrowing.Borrowing {
	c := *b
	if b.ActualReturnDate != nil {
		d := *b.ActualReturnDate
		c.ActualReturnDate = &d
	}
	return &c
}

func clonePayment(p *payment.Payment) *payment.Payment {
	c := *p
	if p.PaidAt != nil {
		t := *p.PaidAt
		c.PaidAt = &t
	}
	return &c
}

func cloneUser(u *user.User) *user.User {
	c := *u
	return &c
}

// page 对已排序的切片分页,页码从1开始
func page[T any](list []T, pageNum, pageSize int) []T {
	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	start := (pageNum - 1) * pageSize
	if start >= len(list) {
		return []T{}
	}
	end := start + pageSize
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

func sortByIDDesc[T any](list []T, id func(T) uint) {
	sort.Slice(list, func(i, j int) bool { return id(list[i]) > id(list[j]) })
}

func touch(now *time.Time) {
	*now = time.Now()
}
