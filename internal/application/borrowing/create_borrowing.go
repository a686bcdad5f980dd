package borrowing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apppayment "github.com/xiebiao/bookrental/internal/application/payment"
	"github.com/xiebiao/bookrental/internal/domain/book"
	"github.com/xiebiao/bookrental/internal/domain/borrowing"
	"github.com/xiebiao/bookrental/internal/domain/notification"
	"github.com/xiebiao/bookrental/internal/domain/payment"
	"github.com/xiebiao/bookrental/internal/domain/pricing"
	"github.com/xiebiao/bookrental/internal/domain/transaction"
	"github.com/xiebiao/bookrental/internal/domain/user"
	"github.com/xiebiao/bookrental/pkg/metrics"
	"github.com/xiebiao/bookrental/pkg/tracing"
)

// CreateBorrowingUseCase 借书
//
// 一个事务内完成:锁库存行 -> 创建借阅 -> 扣库存 -> 申请网关会话 -> 保存待支付记录
// 网关失败时整个事务回滚,不会留下没有支付会话的借阅或被扣掉的库存
type CreateBorrowingUseCase struct {
	books      book.Repository
	borrowings borrowing.Repository
	payments   payment.Repository
	tx         transaction.Manager
	charger    *apppayment.Charger
	notifier   notification.Sink
	now        func() time.Time
}

// NewCreateBorrowingUseCase 创建借书用例
func NewCreateBorrowingUseCase(
	books book.Repository,
	borrowings borrowing.Repository,
	payments payment.Repository,
	tx transaction.Manager,
	charger *apppayment.Charger,
	notifier notification.Sink,
) *CreateBorrowingUseCase {
	return &CreateBorrowingUseCase{
		books:      books,
		borrowings: borrowings,
		payments:   payments,
		tx:         tx,
		charger:    charger,
		notifier:   notifier,
		now:        time.Now,
	}
}

// CreateBorrowingRequest 借书请求
type CreateBorrowingRequest struct {
	Principal          user.Principal
	BookID             uint
	ExpectedReturnDate time.Time
}

// CreateBorrowingResponse 借书结果,调用方需要跳转到CheckoutURL完成支付
type CreateBorrowingResponse struct {
	Borrowing   BorrowingDTO          `json:"borrowing"`
	Payment     apppayment.PaymentDTO `json:"payment"`
	CheckoutURL string                `json:"checkout_url"`
}

func (uc *CreateBorrowingUseCase) Execute(ctx context.Context, req CreateBorrowingRequest) (_ *CreateBorrowingResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "borrowing.create",
		attribute.Int64("book.id", int64(req.BookID)),
		attribute.Int64("user.id", int64(req.Principal.ID)),
	)
	start := time.Now()
	defer func() {
		tracing.End(span, err)
		metrics.ObserveHistogram(metrics.BorrowingCreationDuration, time.Since(start).Seconds())
		if err != nil {
			metrics.IncCounterVec(metrics.BorrowingsRejectedTotal, map[string]string{"reason": rejectReason(err)})
		}
	}()

	today := pricing.DateOf(uc.now())
	if pricing.DaysBetween(today, req.ExpectedReturnDate) < 0 {
		return nil, borrowing.ErrReturnDateInPast
	}

	blocked, err := uc.payments.HasOutstanding(ctx, req.Principal.ID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, borrowing.ErrBlockedByOutstandingPayment
	}

	var (
		created *borrowing.Borrowing
		title   string
		pay     *payment.Payment
	)
	err = uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		// SELECT ... FOR UPDATE,同一本书的并发借阅在这里排队
		b, err := uc.books.LockByID(txCtx, req.BookID)
		if err != nil {
			return err
		}
		if !b.IsAvailable() {
			return book.ErrNotAvailable
		}

		created, err = borrowing.NewBorrowing(b.ID, req.Principal.ID, today, req.ExpectedReturnDate)
		if err != nil {
			return err
		}
		if err := uc.borrowings.Create(txCtx, created); err != nil {
			return err
		}
		if err := uc.books.UpdateInventory(txCtx, b.ID, -1); err != nil {
			return err
		}

		total := pricing.TotalPrice(created.BorrowDate, created.ExpectedReturnDate, b.DailyFee)
		pay, err = uc.charger.Open(txCtx, created.ID, b.Title, payment.TypePayment, total)
		if err != nil {
			return err
		}

		title = b.Title
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncCounter(metrics.BorrowingsCreatedTotal)
	slog.InfoContext(ctx, "借阅创建成功",
		"borrowing_id", created.ID,
		"book_id", created.BookID,
		"user_id", created.UserID,
		"amount", pay.MoneyToPay.StringFixed(2),
	)

	msg := notification.NewMessage(notification.KindBorrowingCreated,
		fmt.Sprintf("%s 借阅了《%s》(%s)", req.Principal.Email, title, created.BorrowDate.Format(dateLayout)))
	if err := uc.notifier.Notify(ctx, msg); err != nil {
		slog.WarnContext(ctx, "发送借阅通知失败", "borrowing_id", created.ID, "error", err)
	}

	return &CreateBorrowingResponse{
		Borrowing:   ToDTO(created),
		Payment:     apppayment.ToDTO(pay),
		CheckoutURL: pay.SessionURL,
	}, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, book.ErrNotAvailable):
		return "not_available"
	case errors.Is(err, borrowing.ErrBlockedByOutstandingPayment):
		return "blocked"
	case errors.Is(err, payment.ErrGatewayFailure), errors.Is(err, payment.ErrInvalidSession):
		return "gateway"
	case errors.Is(err, borrowing.ErrReturnDateInPast), errors.Is(err, borrowing.ErrInvalidReturnDate):
		return "validation"
	default:
		return "other"
	}
}
