package borrowing

import (
	"github.com/xiebiao/bookrental/internal/domain/borrowing"
)

const dateLayout = "2006-01-02"

// BorrowingDTO 借阅记录
type BorrowingDTO struct {
	ID                 uint    `json:"id"`
	BookID             uint    `json:"book_id"`
	UserID             uint    `json:"user_id"`
	BorrowDate         string  `json:"borrow_date"`
	ExpectedReturnDate string  `json:"expected_return_date"`
	ActualReturnDate   *string `json:"actual_return_date"`
	Status             string  `json:"status"`
}

// ToDTO 实体转DTO
func ToDTO(b *borrowing.Borrowing) BorrowingDTO {
	dto := BorrowingDTO{
		ID:                 b.ID,
		BookID:             b.BookID,
		UserID:             b.UserID,
		BorrowDate:         b.BorrowDate.Format(dateLayout),
		ExpectedReturnDate: b.ExpectedReturnDate.Format(dateLayout),
		Status:             string(b.Status()),
	}
	if b.ActualReturnDate != nil {
		s := b.ActualReturnDate.Format(dateLayout)
		dto.ActualReturnDate = &s
	}
	return dto
}
