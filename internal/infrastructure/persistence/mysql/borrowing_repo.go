package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookrental/internal/domain/borrowing"
	apperrors "github.com/xiebiao/bookrental/pkg/errors"
)

// borrowingRepository 借阅仓储实现(MySQL)
type borrowingRepository struct {
	db *gorm.DB
}

// NewBorrowingRepository 创建借阅仓储
func NewBorrowingRepository(db *gorm.DB) borrowing.Repository {
	return &borrowingRepository{db: db}
}

// Create 创建借阅
func (r *borrowingRepository) Create(ctx context.Context, b *borrowing.Borrowing) error {
	model := toBorrowingModel(b)
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建借阅失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查询
func (r *borrowingRepository) FindByID(ctx context.Context, id uint) (*borrowing.Borrowing, error) {
	return r.first(dbFrom(ctx, r.db), id)
}

// LockByID SELECT ... FOR UPDATE,防止同一借阅被并发归还
func (r *borrowingRepository) LockByID(ctx context.Context, id uint) (*borrowing.Borrowing, error) {
	return r.first(dbFrom(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *borrowingRepository) first(db *gorm.DB, id uint) (*borrowing.Borrowing, error) {
	var model BorrowingModel
	if err := db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, borrowing.ErrBorrowingNotFound
		}
		return nil, apperrors.Wrap(err, "查询借阅失败")
	}
	return toBorrowingEntity(&model), nil
}

// MarkReturned 条件更新归还日期
// UPDATE borrowings SET actual_return_date = ? WHERE id = ? AND actual_return_date IS NULL
func (r *borrowingRepository) MarkReturned(ctx context.Context, id uint, returnDate time.Time) error {
	result := dbFrom(ctx, r.db).Model(&BorrowingModel{}).
		Where("id = ? AND actual_return_date IS NULL", id).
		Update("actual_return_date", returnDate)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新归还日期失败")
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return borrowing.ErrAlreadyReturned
	}
	return nil
}

// List 分页查询
func (r *borrowingRepository) List(ctx context.Context, params borrowing.ListParams) ([]*borrowing.Borrowing, int64, error) {
	var (
		models []BorrowingModel
		total  int64
	)

	query := dbFrom(ctx, r.db).Model(&BorrowingModel{})
	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.IsActive != nil {
		if *params.IsActive {
			query = query.Where("actual_return_date IS NULL")
		} else {
			query = query.Where("actual_return_date IS NOT NULL")
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅总数失败")
	}

	err := query.Order("id DESC").
		Scopes(paginate(params.Page, params.PageSize)).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅列表失败")
	}

	return toBorrowingEntities(models), total, nil
}

// ListActiveDueBy 查询预计归还日期<=due的借阅中记录
func (r *borrowingRepository) ListActiveDueBy(ctx context.Context, due time.Time) ([]*borrowing.Borrowing, error) {
	var models []BorrowingModel
	err := dbFrom(ctx, r.db).
		Where("actual_return_date IS NULL AND expected_return_date <= ?", due).
		Order("expected_return_date ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询到期借阅失败")
	}
	return toBorrowingEntities(models), nil
}

// CountActiveByBook 统计某本书的在借数量
func (r *borrowingRepository) CountActiveByBook(ctx context.Context, bookID uint) (int64, error) {
	var n int64
	err := dbFrom(ctx, r.db).Model(&BorrowingModel{}).
		Where("book_id = ? AND actual_return_date IS NULL", bookID).
		Count(&n).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计在借数量失败")
	}
	return n, nil
}

func toBorrowingModel(b *borrowing.Borrowing) *BorrowingModel {
	return &BorrowingModel{
		ID:                 b.ID,
		BookID:             b.BookID,
		UserID:             b.UserID,
		BorrowDate:         b.BorrowDate,
		ExpectedReturnDate: b.ExpectedReturnDate,
		ActualReturnDate:   b.ActualReturnDate,
	}
}

func toBorrowingEntity(model *BorrowingModel) *borrowing.Borrowing {
	return &borrowing.Borrowing{
		ID:                 model.ID,
		BookID:             model.BookID,
		UserID:             model.UserID,
		BorrowDate:         model.BorrowDate,
		ExpectedReturnDate: model.ExpectedReturnDate,
		ActualReturnDate:   model.ActualReturnDate,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	}
}

func toBorrowingEntities(models []BorrowingModel) []*borrowing.Borrowing {
	list := make([]*borrowing.Borrowing, len(models))
	for i := range models {
		list[i] = toBorrowingEntity(&models[i])
	}
	return list
}
