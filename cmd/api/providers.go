package main

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	apppayment "github.com/xiebiao/bookrental/internal/application/payment"
	"github.com/xiebiao/bookrental/internal/application/report"
	"github.com/xiebiao/bookrental/internal/domain/book"
	"github.com/xiebiao/bookrental/internal/domain/borrowing"
	"github.com/xiebiao/bookrental/internal/domain/notification"
	"github.com/xiebiao/bookrental/internal/domain/payment"
	"github.com/xiebiao/bookrental/internal/infrastructure/config"
	"github.com/xiebiao/bookrental/internal/infrastructure/gateway"
	"github.com/xiebiao/bookrental/internal/infrastructure/messaging"
	"github.com/xiebiao/bookrental/internal/infrastructure/persistence"
	"github.com/xiebiao/bookrental/internal/interface/http/handler"
	"github.com/xiebiao/bookrental/internal/interface/http/middleware"
	"github.com/xiebiao/bookrental/internal/interface/http/router"
	"github.com/xiebiao/bookrental/internal/interface/job"
	"github.com/xiebiao/bookrental/pkg/jwt"
	"github.com/xiebiao/bookrental/pkg/mq"
)

// App 组装完成的应用
type App struct {
	Engine    *gin.Engine
	Scheduler *job.Scheduler
	Repos     *persistence.Repositories
}

func provideRepositories(cfg *config.Config) (*persistence.Repositories, func(), error) {
	repos, err := persistence.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return repos, repos.Close, nil
}

// provideBorrowingCounter 图书删除前的在借校验由借阅仓储提供
func provideBorrowingCounter(borrowings borrowing.Repository) book.ActiveBorrowingCounter {
	return borrowings
}

type gateways struct {
	Gateway payment.Gateway
	Mock    *gateway.Mock
}

func provideGateways(cfg *config.Config) (*gateways, error) {
	gw, mock, err := gateway.New(cfg)
	if err != nil {
		return nil, err
	}
	return &gateways{Gateway: gw, Mock: mock}, nil
}

// provideCheckout 只有模拟网关才注册收银台页面
func provideCheckout(g *gateways) handler.CheckoutSimulator {
	if g.Mock == nil {
		return nil
	}
	return g.Mock
}

func provideCharger(cfg *config.Config, gw payment.Gateway, payments payment.Repository) *apppayment.Charger {
	return apppayment.NewCharger(gw, payments, apppayment.CallbackURLs{
		Success: cfg.Payment.SuccessURL,
		Cancel:  cfg.Payment.CancelURL,
	})
}

// provideNotifier 启用RabbitMQ时发布到Exchange,否则只写日志
func provideNotifier(cfg *config.Config) (notification.Sink, func(), error) {
	if !cfg.RabbitMQ.Enabled {
		return messaging.NewLogSink(slog.Default()), func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, "topic")
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := publisher.Close(); err != nil {
			slog.Warn("关闭RabbitMQ连接失败", "error", err)
		}
	}
	return messaging.NewRabbitSink(publisher), cleanup, nil
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

func provideRouter(
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	borrowingHandler *handler.BorrowingHandler,
	paymentHandler *handler.PaymentHandler,
	authMiddleware *middleware.AuthMiddleware,
	checkout handler.CheckoutSimulator,
) *gin.Engine {
	return router.New(router.Handlers{
		User:      userHandler,
		Book:      bookHandler,
		Borrowing: borrowingHandler,
		Payment:   paymentHandler,
		Auth:      authMiddleware,
		Checkout:  checkout,
	})
}

func provideScheduler(
	cfg *config.Config,
	locker job.Locker,
	sweep *apppayment.SweepExpiredUseCase,
	reports *report.SendReportsUseCase,
) *job.Scheduler {
	return job.NewScheduler(locker, cfg.Scheduler.LockTTL,
		job.SweepJob(sweep, cfg.Scheduler.SweepInterval),
		job.ReportJob(reports, cfg.Scheduler.ReportInterval),
	)
}
