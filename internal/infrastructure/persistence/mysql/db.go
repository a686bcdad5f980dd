package mysql

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookrental/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 1. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 2. debug模式打印SQL
// 3. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:  logger.Default.LogMode(logLevel),
		NowFunc: time.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	slog.Info("数据库连接成功", "host", cfg.Database.Host, "db", cfg.Database.DBName)

	// 生产环境应使用版本化的迁移脚本
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&BorrowingModel{},
		&PaymentModel{},
	)
}

// UserModel GORM用户模型
// domain/user/entity.go是领域实体，不依赖GORM，Repository负责两者之间的转换
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Nickname  string         `gorm:"size:50;not null;comment:昵称"`
	IsStaff   bool           `gorm:"not null;default:false;comment:是否管理员"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// inventory只通过UpdateInventory的条件UPDATE修改,保证不为负
type BookModel struct {
	ID        uint            `gorm:"primaryKey"`
	Title     string          `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Author    string          `gorm:"index:idx_search;size:100;not null;comment:作者"`
	Cover     string          `gorm:"size:4;not null;comment:封面(HARD/SOFT)"`
	Inventory int             `gorm:"not null;default:0;comment:可借库存"`
	DailyFee  decimal.Decimal `gorm:"type:decimal(5,2);not null;comment:日租金"`
	CreatedAt time.Time       `gorm:"index;comment:创建时间"`
	UpdatedAt time.Time       `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt  `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// BorrowingModel GORM借阅模型
// actual_return_date为NULL表示借阅中
type BorrowingModel struct {
	ID                 uint           `gorm:"primaryKey"`
	BookID             uint           `gorm:"index;not null;comment:图书ID"`
	UserID             uint           `gorm:"index;not null;comment:借阅用户ID"`
	BorrowDate         time.Time      `gorm:"type:date;not null;comment:借出日期"`
	ExpectedReturnDate time.Time      `gorm:"type:date;index;not null;comment:预计归还日期"`
	ActualReturnDate   *time.Time     `gorm:"type:date;index;comment:实际归还日期"`
	Payments           []PaymentModel `gorm:"foreignKey:BorrowingID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time      `gorm:"comment:创建时间"`
	UpdatedAt          time.Time      `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BorrowingModel) TableName() string {
	return "borrowings"
}

// PaymentModel GORM支付模型
// session_id唯一,用于网关回调时定位记录
type PaymentModel struct {
	ID            uint            `gorm:"primaryKey"`
	BorrowingID   uint            `gorm:"index;not null;comment:借阅ID"`
	Type          string          `gorm:"size:16;not null;comment:支付类型(PAYMENT/FINE)"`
	Status        string          `gorm:"size:16;index:idx_status_expiry;not null;comment:支付状态(PENDING/PAID/EXPIRED)"`
	MoneyToPay    decimal.Decimal `gorm:"type:decimal(10,2);not null;comment:应付金额"`
	SessionURL    string          `gorm:"size:500;not null;comment:支付会话URL"`
	SessionID     string          `gorm:"uniqueIndex;size:255;not null;comment:支付会话ID"`
	SessionExpiry time.Time       `gorm:"index:idx_status_expiry;not null;comment:会话过期时间"`
	PaidAt        *time.Time      `gorm:"index;comment:支付完成时间"`
	CreatedAt     time.Time       `gorm:"comment:创建时间"`
	UpdatedAt     time.Time       `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (PaymentModel) TableName() string {
	return "payments"
}
