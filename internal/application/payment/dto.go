package payment

import (
	"time"

	"github.com/xiebiao/bookrental/internal/domain/payment"
)

const timeLayout = "2006-01-02 15:04:05"

// PaymentDTO 支付记录
type PaymentDTO struct {
	ID            uint    `json:"id"`
	BorrowingID   uint    `json:"borrowing_id"`
	Type          string  `json:"type"`
	Status        string  `json:"status"`
	MoneyToPay    string  `json:"money_to_pay"`
	SessionURL    string  `json:"session_url"`
	SessionID     string  `json:"session_id"`
	SessionExpiry string  `json:"session_expiry"`
	PaidAt        *string `json:"paid_at,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// ToDTO 实体转DTO
func ToDTO(p *payment.Payment) PaymentDTO {
	dto := PaymentDTO{
		ID:            p.ID,
		BorrowingID:   p.BorrowingID,
		Type:          string(p.Type),
		Status:        string(p.Status),
		MoneyToPay:    p.MoneyToPay.StringFixed(2),
		SessionURL:    p.SessionURL,
		SessionID:     p.SessionID,
		SessionExpiry: p.SessionExpiry.Format(time.RFC3339),
		CreatedAt:     p.CreatedAt.Format(timeLayout),
	}
	if p.PaidAt != nil {
		s := p.PaidAt.Format(time.RFC3339)
		dto.PaidAt = &s
	}
	return dto
}

// ToDTOs 批量转换
func ToDTOs(list []*payment.Payment) []PaymentDTO {
	out := make([]PaymentDTO, 0, len(list))
	for _, p := range list {
		out = append(out, ToDTO(p))
	}
	return out
}
