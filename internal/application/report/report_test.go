package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookrental/internal/domain/book"
	"github.com/xiebiao/bookrental/internal/domain/borrowing"
	"github.com/xiebiao/bookrental/internal/domain/notification"
	"github.com/xiebiao/bookrental/internal/domain/payment"
	"github.com/xiebiao/bookrental/internal/domain/user"
	"github.com/xiebiao/bookrental/internal/infrastructure/persistence/memory"
)

type recordingSink struct {
	messages []notification.Message
}

func (s *recordingSink) Notify(_ context.Context, msg notification.Message) error {
	s.messages = append(s.messages, msg)
	return nil
}

func (s *recordingSink) byKind(kind notification.Kind) []string {
	var out []string
	for _, m := range s.messages {
		if m.Kind == kind {
			out = append(out, m.Text)
		}
	}
	return out
}

// failingSink 对指定类型的通知失败若干次
type failingSink struct {
	recordingSink
	failKind notification.Kind
	failures int
}

func (s *failingSink) Notify(ctx context.Context, msg notification.Message) error {
	if msg.Kind == s.failKind && s.failures > 0 {
		s.failures--
		return errors.New("broker unavailable")
	}
	return s.recordingSink.Notify(ctx, msg)
}

type seeder struct {
	t     *testing.T
	store *memory.Store
}

func (s seeder) user(email string) *user.User {
	u := user.NewUser(email, "hashed", "reader")
	require.NoError(s.t, s.store.Users().Create(context.Background(), u))
	return u
}

func (s seeder) book(title string) *book.Book {
	b, err := book.NewBook(title, "佚名", book.CoverHard, 3, decimal.RequireFromString("1.00"))
	require.NoError(s.t, err)
	require.NoError(s.t, s.store.Books().Create(context.Background(), b))
	return b
}

func (s seeder) borrowing(bookID, userID uint, from, due time.Time) *borrowing.Borrowing {
	b, err := borrowing.NewBorrowing(bookID, userID, from, due)
	require.NoError(s.t, err)
	require.NoError(s.t, s.store.Borrowings().Create(context.Background(), b))
	return b
}

func (s seeder) paid(borrowingID uint, amount string, ref string, paidAt time.Time) {
	p, err := payment.NewPayment(borrowingID, payment.TypePayment, decimal.RequireFromString(amount),
		&payment.Session{ID: ref, URL: "https://pay/" + ref}, paidAt.Add(-time.Hour))
	require.NoError(s.t, err)
	require.NoError(s.t, s.store.Payments().Create(context.Background(), p))
	require.NoError(s.t, s.store.Payments().MarkPaid(context.Background(), ref, paidAt))
}

func TestSendReports_Daily(t *testing.T) {
	store := memory.NewStore()
	seed := seeder{t: t, store: store}
	sink := &recordingSink{}
	uc := NewSendReportsUseCase(store.Payments(), store.Borrowings(), store.Books(), store.Users(), sink)

	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	alice := seed.user("alice@example.com")
	dune := seed.book("Dune")

	b := seed.borrowing(dune.ID, alice.ID, today.AddDate(0, 0, -5), today.AddDate(0, 0, 1))
	seed.paid(b.ID, "3.50", "P-1-a", today.Add(-2*time.Hour))
	seed.paid(b.ID, "1.50", "P-1-b", today.Add(-20*time.Hour))
	seed.paid(b.ID, "9.00", "P-1-c", today.Add(-30*time.Hour)) // 前天
	seed.paid(b.ID, "4.00", "P-1-d", today.Add(time.Hour))     // 今天

	require.NoError(t, uc.Execute(context.Background(), today.Add(8*time.Hour)))

	assert.Equal(t, []string{"日报(2026-03-14): 收款 5.00,共 2 笔"}, sink.byKind(notification.KindReportDaily))
	assert.Empty(t, sink.byKind(notification.KindReportMonthly))

	due := sink.byKind(notification.KindReportDue)
	require.Len(t, due, 1)
	assert.Contains(t, due[0], "即将到期:\n1. 《Dune》")
	assert.Contains(t, due[0], "alice@example.com")
	assert.NotContains(t, due[0], "已逾期")
}

func TestSendReports_MonthlyOnFirstDay(t *testing.T) {
	store := memory.NewStore()
	seed := seeder{t: t, store: store}
	sink := &recordingSink{}
	uc := NewSendReportsUseCase(store.Payments(), store.Borrowings(), store.Books(), store.Users(), sink)

	first := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	alice := seed.user("alice@example.com")
	b := seed.borrowing(seed.book("Dune").ID, alice.ID, first.AddDate(0, -1, 0), first.AddDate(0, 0, 10))
	seed.paid(b.ID, "2.00", "P-1-a", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	seed.paid(b.ID, "3.00", "P-1-b", time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC))
	seed.paid(b.ID, "7.00", "P-1-c", time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC))

	require.NoError(t, uc.Execute(context.Background(), first))

	assert.Equal(t, []string{"日报(2026-03-31): 收款 3.00,共 1 笔"}, sink.byKind(notification.KindReportDaily))
	assert.Equal(t, []string{"月报(2026-03-01 ~ 2026-03-31): 收款 5.00,共 2 笔"}, sink.byKind(notification.KindReportMonthly))
	assert.Equal(t, []string{"没有即将到期或已逾期的借阅"}, sink.byKind(notification.KindReportDue))
}

func TestSendReports_RetryDoesNotResend(t *testing.T) {
	store := memory.NewStore()
	sink := &failingSink{failKind: notification.KindReportDue, failures: 1}
	uc := NewSendReportsUseCase(store.Payments(), store.Borrowings(), store.Books(), store.Users(), sink)

	first := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	require.Error(t, uc.Execute(context.Background(), first), "到期提醒发送失败")
	assert.Len(t, sink.byKind(notification.KindReportDaily), 1)
	assert.Len(t, sink.byKind(notification.KindReportMonthly), 1)
	assert.Empty(t, sink.byKind(notification.KindReportDue))

	// 同一天重试:只补发失败的那条
	require.NoError(t, uc.Execute(context.Background(), first.Add(time.Hour)))
	assert.Len(t, sink.byKind(notification.KindReportDaily), 1)
	assert.Len(t, sink.byKind(notification.KindReportMonthly), 1)
	assert.Len(t, sink.byKind(notification.KindReportDue), 1)

	// 第二天照常发送
	require.NoError(t, uc.Execute(context.Background(), first.AddDate(0, 0, 1)))
	assert.Len(t, sink.byKind(notification.KindReportDaily), 2)
	assert.Len(t, sink.byKind(notification.KindReportDue), 2)
}

func TestDueReport_OverdueFirst(t *testing.T) {
	store := memory.NewStore()
	seed := seeder{t: t, store: store}
	uc := NewSendReportsUseCase(store.Payments(), store.Borrowings(), store.Books(), store.Users(), &recordingSink{})

	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	alice := seed.user("alice@example.com")
	dune := seed.book("Dune")
	emma := seed.book("Emma")

	seed.borrowing(dune.ID, alice.ID, today.AddDate(0, 0, -9), today.AddDate(0, 0, 1))
	seed.borrowing(emma.ID, alice.ID, today.AddDate(0, 0, -9), today.AddDate(0, 0, -2))
	seed.borrowing(emma.ID, alice.ID, today.AddDate(0, 0, -9), today)
	seed.borrowing(dune.ID, alice.ID, today.AddDate(0, 0, -1), today.AddDate(0, 0, 5)) // 不在提醒范围

	returned := seed.borrowing(dune.ID, alice.ID, today.AddDate(0, 0, -9), today.AddDate(0, 0, -3))
	require.NoError(t, store.Borrowings().MarkReturned(context.Background(), returned.ID, today))

	text, err := uc.DueReport(context.Background(), today)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "已逾期:\n"))
	assert.Contains(t, text, "1. 《Emma》 借出 2026-03-06 到期 2026-03-13")
	assert.Contains(t, text, "2. 《Emma》 借出 2026-03-06 到期 2026-03-15")
	assert.Contains(t, text, "即将到期:\n1. 《Dune》 借出 2026-03-06 到期 2026-03-16")
	assert.NotContains(t, text, "2026-03-20")
	assert.NotContains(t, text, "2026-03-12")
}
