package borrowing

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apppayment "github.com/xiebiao/bookrental/internal/application/payment"
	"github.com/xiebiao/bookrental/internal/domain/book"
	"github.com/xiebiao/bookrental/internal/domain/borrowing"
	"github.com/xiebiao/bookrental/internal/domain/payment"
	"github.com/xiebiao/bookrental/internal/domain/pricing"
	"github.com/xiebiao/bookrental/internal/domain/transaction"
	"github.com/xiebiao/bookrental/internal/domain/user"
	"github.com/xiebiao/bookrental/pkg/metrics"
	"github.com/xiebiao/bookrental/pkg/tracing"
)

// ReturnBorrowingUseCase 还书
//
// 归还日期和库存在一个事务中提交;逾期时提交之后再申请罚款会话
// 罚款会话失败不会撤销归还,返回ErrFineSessionFailed并附带已归还的借阅
type ReturnBorrowingUseCase struct {
	books      book.Repository
	borrowings borrowing.Repository
	tx         transaction.Manager
	charger    *apppayment.Charger
	now        func() time.Time
}

// NewReturnBorrowingUseCase 创建还书用例
func NewReturnBorrowingUseCase(
	books book.Repository,
	borrowings borrowing.Repository,
	tx transaction.Manager,
	charger *apppayment.Charger,
) *ReturnBorrowingUseCase {
	return &ReturnBorrowingUseCase{
		books:      books,
		borrowings: borrowings,
		tx:         tx,
		charger:    charger,
		now:        time.Now,
	}
}

// ReturnBorrowingRequest 还书请求
type ReturnBorrowingRequest struct {
	Principal   user.Principal
	BorrowingID uint
}

// ReturnBorrowingResponse 还书结果
// Overdue为true时Fine和CheckoutURL有值(罚款会话创建失败时为空)
type ReturnBorrowingResponse struct {
	Borrowing   BorrowingDTO           `json:"borrowing"`
	Overdue     bool                   `json:"overdue"`
	OverdueDays int                    `json:"overdue_days"`
	Fine        string                 `json:"fine,omitempty"`
	Payment     *apppayment.PaymentDTO `json:"payment,omitempty"`
	CheckoutURL string                 `json:"checkout_url,omitempty"`
}

// Execute 还书
// 返回ErrFineSessionFailed时响应仍然非空
func (uc *ReturnBorrowingUseCase) Execute(ctx context.Context, req ReturnBorrowingRequest) (_ *ReturnBorrowingResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "borrowing.return", attribute.Int64("borrowing.id", int64(req.BorrowingID)))
	defer func() { tracing.End(span, err) }()

	today := pricing.DateOf(uc.now())

	var (
		returned *borrowing.Borrowing
		b        *book.Book
	)
	err = uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		var err error
		returned, err = uc.borrowings.LockByID(txCtx, req.BorrowingID)
		if err != nil {
			return err
		}
		if !req.Principal.CanAccess(returned.UserID) {
			return borrowing.ErrForbidden
		}
		if err := returned.Return(today); err != nil {
			return err
		}
		if err := uc.borrowings.MarkReturned(txCtx, returned.ID, today); err != nil {
			return err
		}
		if err := uc.books.UpdateInventory(txCtx, returned.BookID, 1); err != nil {
			return err
		}
		b, err = uc.books.FindByID(txCtx, returned.BookID)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := &ReturnBorrowingResponse{
		Borrowing:   ToDTO(returned),
		OverdueDays: returned.OverdueDays(today),
	}
	metrics.IncCounterVec(metrics.BorrowingsReturnedTotal, map[string]string{"overdue": strconv.FormatBool(resp.OverdueDays > 0)})

	if resp.OverdueDays == 0 {
		slog.InfoContext(ctx, "归还成功", "borrowing_id", returned.ID)
		return resp, nil
	}

	fine := pricing.Fine(returned.ExpectedReturnDate, today, b.DailyFee)
	resp.Overdue = true
	resp.Fine = fine.StringFixed(2)
	metrics.ObserveHistogram(metrics.FineAmount, fine.InexactFloat64())

	pay, err := uc.charger.Open(ctx, returned.ID, b.Title, payment.TypeFine, fine)
	if err != nil {
		slog.ErrorContext(ctx, "归还成功但罚款会话创建失败",
			"borrowing_id", returned.ID,
			"fine", resp.Fine,
			"error", err,
		)
		return resp, borrowing.ErrFineSessionFailed.WithCause(err)
	}

	dto := apppayment.ToDTO(pay)
	resp.Payment = &dto
	resp.CheckoutURL = pay.SessionURL
	slog.InfoContext(ctx, "逾期归还", "borrowing_id", returned.ID, "overdue_days", resp.OverdueDays, "fine", resp.Fine)
	return resp, nil
}

// PreviewReturnUseCase 还书预览(GET,只读)
// 按今天归还计算逾期天数和罚款
type PreviewReturnUseCase struct {
	books      book.Repository
	borrowings borrowing.Repository
	now        func() time.Time
}

// NewPreviewReturnUseCase 创建还书预览用例
func NewPreviewReturnUseCase(books book.Repository, borrowings borrowing.Repository) *PreviewReturnUseCase {
	return &PreviewReturnUseCase{books: books, borrowings: borrowings, now: time.Now}
}

// PreviewReturnResponse 预览结果
type PreviewReturnResponse struct {
	Borrowing   BorrowingDTO `json:"borrowing"`
	IsActive    bool         `json:"is_active"`
	OverdueDays int          `json:"overdue_days"`
	Fine        string       `json:"fine"`
}

func (uc *PreviewReturnUseCase) Execute(ctx context.Context, principal user.Principal, id uint) (*PreviewReturnResponse, error) {
	b, err := uc.borrowings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.CanAccess(b.UserID) {
		return nil, borrowing.ErrForbidden
	}

	today := pricing.DateOf(uc.now())
	resp := &PreviewReturnResponse{
		Borrowing:   ToDTO(b),
		IsActive:    b.IsActive(),
		OverdueDays: b.OverdueDays(today),
		Fine:        "0.00",
	}
	if !b.IsActive() || resp.OverdueDays == 0 {
		return resp, nil
	}

	bk, err := uc.books.FindByID(ctx, b.BookID)
	if err != nil {
		return nil, err
	}
	resp.Fine = pricing.Fine(b.ExpectedReturnDate, today, bk.DailyFee).StringFixed(2)
	return resp, nil
}
