package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/xiebiao/bookrental/internal/domain/payment"
	apperrors "github.com/xiebiao/bookrental/pkg/errors"
)

// paymentRepository 支付仓储实现(MySQL)
// 状态变更全部使用带状态条件的UPDATE,过期任务与支付回调并发时不会互相覆盖
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建支付仓储
func NewPaymentRepository(db *gorm.DB) payment.Repository {
	return &paymentRepository{db: db}
}

var outstandingStatuses = []string{string(payment.StatusPending), string(payment.StatusExpired)}

// Create 创建支付记录
func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	model := toPaymentModel(p)
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrDuplicate.WithCause(err)
		}
		return apperrors.Wrap(err, "创建支付记录失败")
	}

	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查询
func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*payment.Payment, error) {
	var model PaymentModel
	if err := dbFrom(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return toPaymentEntity(&model), nil
}

// FindBySessionID 根据网关会话ID查询
func (r *paymentRepository) FindBySessionID(ctx context.Context, sessionID string) (*payment.Payment, error) {
	var model PaymentModel
	if err := dbFrom(ctx, r.db).Where("session_id = ?", sessionID).First(&model).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return toPaymentEntity(&model), nil
}

// MarkPaid 条件更新为PAID
// UPDATE payments SET status='PAID', paid_at=? WHERE session_id=? AND status IN ('PENDING','EXPIRED')
func (r *paymentRepository) MarkPaid(ctx context.Context, sessionID string, paidAt time.Time) error {
	result := dbFrom(ctx, r.db).Model(&PaymentModel{}).
		Where("session_id = ? AND status IN ?", sessionID, outstandingStatuses).
		Updates(map[string]interface{}{
			"status":     string(payment.StatusPaid),
			"paid_at":    paidAt,
			"updated_at": paidAt,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新支付状态失败")
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindBySessionID(ctx, sessionID); err != nil {
			return err
		}
		return payment.ErrAlreadyPaid
	}
	return nil
}

// ExpireStale 批量过期
// UPDATE payments SET status='EXPIRED' WHERE status='PENDING' AND session_expiry < ?
func (r *paymentRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	result := dbFrom(ctx, r.db).Model(&PaymentModel{}).
		Where("status = ? AND session_expiry < ?", string(payment.StatusPending), now).
		Updates(map[string]interface{}{
			"status":     string(payment.StatusExpired),
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "过期支付处理失败")
	}
	return result.RowsAffected, nil
}

// HasOutstanding 用户是否存在PENDING或EXPIRED的支付
func (r *paymentRepository) HasOutstanding(ctx context.Context, userID uint) (bool, error) {
	var n int64
	err := dbFrom(ctx, r.db).Model(&PaymentModel{}).
		Joins("JOIN borrowings ON borrowings.id = payments.borrowing_id").
		Where("borrowings.user_id = ? AND payments.status IN ?", userID, outstandingStatuses).
		Count(&n).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询未结清支付失败")
	}
	return n > 0, nil
}

// ListByBorrowing 查询某次借阅的全部支付
func (r *paymentRepository) ListByBorrowing(ctx context.Context, borrowingID uint) ([]*payment.Payment, error) {
	var models []PaymentModel
	err := dbFrom(ctx, r.db).Where("borrowing_id = ?", borrowingID).Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询支付列表失败")
	}
	return toPaymentEntities(models), nil
}

// List 分页查询,UserID不为空时只查该用户借阅下的支付
func (r *paymentRepository) List(ctx context.Context, params payment.ListParams) ([]*payment.Payment, int64, error) {
	var (
		models []PaymentModel
		total  int64
	)

	query := dbFrom(ctx, r.db).Model(&PaymentModel{})
	if params.UserID != nil {
		query = query.Joins("JOIN borrowings ON borrowings.id = payments.borrowing_id").
			Where("borrowings.user_id = ?", *params.UserID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询支付总数失败")
	}

	err := query.Select("payments.*").
		Order("payments.id DESC").
		Scopes(paginate(params.Page, params.PageSize)).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询支付列表失败")
	}
	return toPaymentEntities(models), total, nil
}

// SumPaid 统计[from, to)内完成的支付
func (r *paymentRepository) SumPaid(ctx context.Context, from, to time.Time) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal
		Cnt   int64
	}
	err := dbFrom(ctx, r.db).Model(&PaymentModel{}).
		Select("COALESCE(SUM(money_to_pay), 0) AS total, COUNT(*) AS cnt").
		Where("status = ? AND paid_at >= ? AND paid_at < ?", string(payment.StatusPaid), from, to).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, apperrors.Wrap(err, "统计支付金额失败")
	}
	return row.Total, row.Cnt, nil
}

// OwnerOf 查询支付所属借阅的用户ID
func (r *paymentRepository) OwnerOf(ctx context.Context, paymentID uint) (uint, error) {
	var row struct {
		UserID uint
	}
	result := dbFrom(ctx, r.db).Model(&PaymentModel{}).
		Select("borrowings.user_id AS user_id").
		Joins("JOIN borrowings ON borrowings.id = payments.borrowing_id").
		Where("payments.id = ?", paymentID).
		Scan(&row)
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "查询支付所属用户失败")
	}
	if result.RowsAffected == 0 {
		return 0, payment.ErrPaymentNotFound
	}
	return row.UserID, nil
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payment.ErrPaymentNotFound
	}
	return apperrors.Wrap(err, "查询支付记录失败")
}

func toPaymentModel(p *payment.Payment) *PaymentModel {
	return &PaymentModel{
		ID:            p.ID,
		BorrowingID:   p.BorrowingID,
		Type:          string(p.Type),
		Status:        string(p.Status),
		MoneyToPay:    p.MoneyToPay,
		SessionURL:    p.SessionURL,
		SessionID:     p.SessionID,
		SessionExpiry: p.SessionExpiry,
		PaidAt:        p.PaidAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toPaymentEntity(model *PaymentModel) *payment.Payment {
	return &payment.Payment{
		ID:            model.ID,
		BorrowingID:   model.BorrowingID,
		Type:          payment.Type(model.Type),
		Status:        payment.Status(model.Status),
		MoneyToPay:    model.MoneyToPay,
		SessionURL:    model.SessionURL,
		SessionID:     model.SessionID,
		SessionExpiry: model.SessionExpiry,
		PaidAt:        model.PaidAt,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func toPaymentEntities(models []PaymentModel) []*payment.Payment {
	list := make([]*payment.Payment, len(models))
	for i := range models {
		list[i] = toPaymentEntity(&models[i])
	}
	return list
}
