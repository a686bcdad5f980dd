package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookrental/internal/domain/payment"
	apperrors "github.com/xiebiao/bookrental/pkg/errors"
)

type paymentRepo struct {
	s *Store
}

func (r *paymentRepo) Create(ctx context.Context, p *payment.Payment) error {
	return r.s.write(ctx, func() error {
		for _, existing := range r.s.payments {
			if existing.SessionID == p.SessionID {
				return apperrors.ErrDuplicate
			}
		}
		p.ID = r.s.newID("payments")
		r.s.payments[p.ID] = clonePayment(p)
		return nil
	})
}

func (r *paymentRepo) FindByID(_ context.Context, id uint) (*payment.Payment, error) {
	var found *payment.Payment
	r.s.read(func() {
		if p, ok := r.s.payments[id]; ok {
			found = clonePayment(p)
		}
	})
	if found == nil {
		return nil, payment.ErrPaymentNotFound
	}
	return found, nil
}

func (r *paymentRepo) FindBySessionID(_ context.Context, sessionID string) (*payment.Payment, error) {
	var found *payment.Payment
	r.s.read(func() {
		if p := r.bySession(sessionID); p != nil {
			found = clonePayment(p)
		}
	})
	if found == nil {
		return nil, payment.ErrPaymentNotFound
	}
	return found, nil
}

// bySession 调用方必须持有锁
func (r *paymentRepo) bySession(sessionID string) *payment.Payment {
	for _, p := range r.s.payments {
		if p.SessionID == sessionID {
			return p
		}
	}
	return nil
}

func (r *paymentRepo) MarkPaid(ctx context.Context, sessionID string, paidAt time.Time) error {
	return r.s.write(ctx, func() error {
		p := r.bySession(sessionID)
		if p == nil {
			return payment.ErrPaymentNotFound
		}
		return p.MarkPaid(paidAt)
	})
}

func (r *paymentRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.s.write(ctx, func() error {
		for _, p := range r.s.payments {
			if p.Status == payment.StatusPending && p.IsSessionExpired(now) {
				if err := p.Expire(now); err != nil {
					return err
				}
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *paymentRepo) HasOutstanding(_ context.Context, userID uint) (bool, error) {
	var found bool
	r.s.read(func() {
		for _, p := range r.s.payments {
			b, ok := r.s.borrowings[p.BorrowingID]
			if ok && b.UserID == userID && p.Status.IsOutstanding() {
				found = true
				return
			}
		}
	})
	return found, nil
}

func (r *paymentRepo) ListByBorrowing(_ context.Context, borrowingID uint) ([]*payment.Payment, error) {
	var list []*payment.Payment
	r.s.read(func() {
		for _, p := range r.s.payments {
			if p.BorrowingID == borrowingID {
				list = append(list, clonePayment(p))
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *paymentRepo) List(_ context.Context, params payment.ListParams) ([]*payment.Payment, int64, error) {
	var list []*payment.Payment
	r.s.read(func() {
		for _, p := range r.s.payments {
			if params.UserID != nil {
				b, ok := r.s.borrowings[p.BorrowingID]
				if !ok || b.UserID != *params.UserID {
					continue
				}
			}
			list = append(list, clonePayment(p))
		}
	})
	sortByIDDesc(list, func(p *payment.Payment) uint { return p.ID })
	return page(list, params.Page, params.PageSize), int64(len(list)), nil
}

func (r *paymentRepo) SumPaid(_ context.Context, from, to time.Time) (decimal.Decimal, int64, error) {
	total := decimal.Zero
	var n int64
	r.s.read(func() {
		for _, p := range r.s.payments {
			if p.Status != payment.StatusPaid || p.PaidAt == nil {
				continue
			}
			if p.PaidAt.Before(from) || !p.PaidAt.Before(to) {
				continue
			}
			total = total.Add(p.MoneyToPay)
			n++
		}
	})
	return total, n, nil
}

func (r *paymentRepo) OwnerOf(_ context.Context, paymentID uint) (uint, error) {
	var (
		owner uint
		found bool
	)
	r.s.read(func() {
		p, ok := r.s.payments[paymentID]
		if !ok {
			return
		}
		if b, ok := r.s.borrowings[p.BorrowingID]; ok {
			owner, found = b.UserID, true
		}
	})
	if !found {
		return 0, payment.ErrPaymentNotFound
	}
	return owner, nil
}
