// Package report 定时汇总报表,以纯文本通知发送
package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/xiebiao/bookrental/internal/domain/book"
	"github.com/xiebiao/bookrental/internal/domain/borrowing"
	"github.com/xiebiao/bookrental/internal/domain/notification"
	"github.com/xiebiao/bookrental/internal/domain/payment"
	"github.com/xiebiao/bookrental/internal/domain/pricing"
	"github.com/xiebiao/bookrental/internal/domain/user"
)

const dateLayout = "2006-01-02"

// SendReportsUseCase 日报/月报/到期提醒
type SendReportsUseCase struct {
	payments   payment.Repository
	borrowings borrowing.Repository
	books      book.Repository
	users      user.Repository
	notifier   notification.Sink

	mu      sync.Mutex
	sentDay string
	sent    map[notification.Kind]bool
}

// NewSendReportsUseCase 创建报表用例
func NewSendReportsUseCase(
	payments payment.Repository,
	borrowings borrowing.Repository,
	books book.Repository,
	users user.Repository,
	notifier notification.Sink,
) *SendReportsUseCase {
	return &SendReportsUseCase{
		payments:   payments,
		borrowings: borrowings,
		books:      books,
		users:      users,
		notifier:   notifier,
	}
}

// Execute 发送now所在日期的报表
// 每天:前一天的收款汇总 + 到期提醒;每月1号额外发送上个月的收款汇总
// 先生成全部内容再逐条发送;某条发送失败后重试时,当天已发出的不再重复发送
func (uc *SendReportsUseCase) Execute(ctx context.Context, now time.Time) error {
	today := pricing.DateOf(now)

	reports, err := uc.build(ctx, today)
	if err != nil {
		return err
	}

	day := today.Format(dateLayout)
	for _, r := range reports {
		if uc.alreadySent(day, r.kind) {
			continue
		}
		if err := uc.send(ctx, r.kind, r.text); err != nil {
			return err
		}
		uc.markSent(day, r.kind)
	}
	return nil
}

type pendingReport struct {
	kind notification.Kind
	text string
}

func (uc *SendReportsUseCase) build(ctx context.Context, today time.Time) ([]pendingReport, error) {
	daily, err := uc.paidSummary(ctx, "日报", today.AddDate(0, 0, -1), today)
	if err != nil {
		return nil, err
	}
	reports := []pendingReport{{kind: notification.KindReportDaily, text: daily}}

	if today.Day() == 1 {
		monthly, err := uc.paidSummary(ctx, "月报", today.AddDate(0, -1, 0), today)
		if err != nil {
			return nil, err
		}
		reports = append(reports, pendingReport{kind: notification.KindReportMonthly, text: monthly})
	}

	due, err := uc.DueReport(ctx, today)
	if err != nil {
		return nil, err
	}
	return append(reports, pendingReport{kind: notification.KindReportDue, text: due}), nil
}

// alreadySent 只记录当天,换日后清空
func (uc *SendReportsUseCase) alreadySent(day string, kind notification.Kind) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.sentDay != day {
		uc.sentDay = day
		uc.sent = make(map[notification.Kind]bool)
	}
	return uc.sent[kind]
}

func (uc *SendReportsUseCase) markSent(day string, kind notification.Kind) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.sentDay == day {
		uc.sent[kind] = true
	}
}

// paidSummary [from, to) 内已支付的金额和笔数
func (uc *SendReportsUseCase) paidSummary(ctx context.Context, title string, from, to time.Time) (string, error) {
	sum, count, err := uc.payments.SumPaid(ctx, from, to)
	if err != nil {
		return "", err
	}
	period := from.Format(dateLayout)
	if days := pricing.DaysBetween(from, to); days > 1 {
		period = fmt.Sprintf("%s ~ %s", from.Format(dateLayout), to.AddDate(0, 0, -1).Format(dateLayout))
	}
	return fmt.Sprintf("%s(%s): 收款 %s,共 %d 笔", title, period, sum.StringFixed(2), count), nil
}

// DueReport 到期提醒:已逾期(到期日<=今天)在前,明天到期在后
func (uc *SendReportsUseCase) DueReport(ctx context.Context, today time.Time) (string, error) {
	today = pricing.DateOf(today)
	list, err := uc.borrowings.ListActiveDueBy(ctx, today.AddDate(0, 0, 1))
	if err != nil {
		return "", err
	}

	userIDs := make([]uint, 0, len(list))
	for _, b := range list {
		userIDs = append(userIDs, b.UserID)
	}
	borrowers, err := uc.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return "", err
	}

	var overdue, soon []string
	for _, b := range list {
		line, err := uc.describe(ctx, b, borrowers[b.UserID])
		if err != nil {
			return "", err
		}
		if b.DaysUntilDue(today) == 1 {
			soon = append(soon, line)
		} else {
			overdue = append(overdue, line)
		}
	}

	if len(overdue) == 0 && len(soon) == 0 {
		return "没有即将到期或已逾期的借阅", nil
	}

	var sb strings.Builder
	writeSection(&sb, "已逾期", overdue)
	writeSection(&sb, "即将到期", soon)
	return strings.TrimRight(sb.String(), "\n"), nil
}

func (uc *SendReportsUseCase) describe(ctx context.Context, b *borrowing.Borrowing, borrower *user.User) (string, error) {
	bk, err := uc.books.FindByID(ctx, b.BookID)
	if err != nil {
		return "", err
	}
	email := fmt.Sprintf("用户#%d", b.UserID)
	if borrower != nil {
		email = borrower.Email
	}
	return fmt.Sprintf("《%s》 借出 %s 到期 %s 借阅#%d %s",
		bk.Title, b.BorrowDate.Format(dateLayout), b.ExpectedReturnDate.Format(dateLayout), b.ID, email), nil
}

func writeSection(sb *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	sb.WriteString(title + ":\n")
	for i, l := range lines {
		fmt.Fprintf(sb, "%d. %s\n", i+1, l)
	}
}

func (uc *SendReportsUseCase) send(ctx context.Context, kind notification.Kind, text string) error {
	if err := uc.notifier.Notify(ctx, notification.NewMessage(kind, text)); err != nil {
		slog.WarnContext(ctx, "发送报表失败", "kind", kind, "error", err)
		return err
	}
	return nil
}
