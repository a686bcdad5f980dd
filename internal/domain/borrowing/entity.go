package borrowing

import (
	"time"

	"github.com/xiebiao/bookrental/internal/domain/pricing"
)

// Status 借阅状态(由ActualReturnDate推导,不单独存储)
type Status string

const (
	StatusActive   Status = "ACTIVE"   // 借阅中
	StatusReturned Status = "RETURNED" // 已归还(终态)
)

// Borrowing 借阅实体(聚合根)
// 一条借阅记录代表一个用户持有某本书的一个副本
//   - BorrowDate 创建时确定,之后不可修改
//   - ActualReturnDate 为nil表示借阅中,只能被设置一次
type Borrowing struct {
	ID                 uint
	BookID             uint
	UserID             uint
	BorrowDate         time.Time
	ExpectedReturnDate time.Time
	ActualReturnDate   *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewBorrowing 创建借阅(工厂方法)
// 业务规则:预计归还日期不能早于借出日期
func NewBorrowing(bookID, userID uint, borrowDate, expectedReturnDate time.Time) (*Borrowing, error) {
	borrowDate = pricing.DateOf(borrowDate)
	expectedReturnDate = pricing.DateOf(expectedReturnDate)
	if pricing.DaysBetween(borrowDate, expectedReturnDate) < 0 {
		return nil, ErrInvalidReturnDate
	}

	now := time.Now()
	return &Borrowing{
		BookID:             bookID,
		UserID:             userID,
		BorrowDate:         borrowDate,
		ExpectedReturnDate: expectedReturnDate,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// IsActive 是否借阅中
func (b *Borrowing) IsActive() bool {
	return b.ActualReturnDate == nil
}

// Status 当前状态
func (b *Borrowing) Status() Status {
	if b.IsActive() {
		return StatusActive
	}
	return StatusReturned
}

// Return 归还(领域行为),只能执行一次
func (b *Borrowing) Return(today time.Time) error {
	if !b.IsActive() {
		return ErrAlreadyReturned
	}
	d := pricing.DateOf(today)
	b.ActualReturnDate = &d
	b.UpdatedAt = time.Now()
	return nil
}

// IsOverdue 归还日期严格晚于预计归还日期才算逾期
// 借阅中的记录以asOf作为假定的归还日期
func (b *Borrowing) IsOverdue(asOf time.Time) bool {
	return b.OverdueDays(asOf) > 0
}

// OverdueDays 逾期天数
func (b *Borrowing) OverdueDays(asOf time.Time) int {
	returned := asOf
	if b.ActualReturnDate != nil {
		returned = *b.ActualReturnDate
	}
	return pricing.OverdueDays(b.ExpectedReturnDate, returned)
}

// DaysUntilDue 距离预计归还日期的天数,<=0表示已到期
func (b *Borrowing) DaysUntilDue(today time.Time) int {
	return pricing.DaysBetween(today, b.ExpectedReturnDate)
}

// IsOwnedBy 检查借阅是否属于指定用户
func (b *Borrowing) IsOwnedBy(userID uint) bool {
	return b.UserID == userID
}
