//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改后运行 `wire gen ./cmd/api` 重新生成 wire_gen.go

package main

import (
	"github.com/google/wire"

	appbook "github.com/xiebiao/bookrental/internal/application/book"
	appborrowing "github.com/xiebiao/bookrental/internal/application/borrowing"
	apppayment "github.com/xiebiao/bookrental/internal/application/payment"
	"github.com/xiebiao/bookrental/internal/application/report"
	appuser "github.com/xiebiao/bookrental/internal/application/user"
	"github.com/xiebiao/bookrental/internal/domain/book"
	"github.com/xiebiao/bookrental/internal/domain/user"
	"github.com/xiebiao/bookrental/internal/infrastructure/config"
	"github.com/xiebiao/bookrental/internal/infrastructure/persistence"
	"github.com/xiebiao/bookrental/internal/interface/http/handler"
	"github.com/xiebiao/bookrental/internal/interface/http/middleware"
	"github.com/xiebiao/bookrental/internal/interface/job"
)

// infrastructureSet 仓储、网关、通知出口
var infrastructureSet = wire.NewSet(
	provideRepositories,
	wire.FieldsOf(new(*persistence.Repositories),
		"Books", "Borrowings", "Payments", "Users", "Tx", "Sessions", "Locker"),
	provideBorrowingCounter,
	provideGateways,
	wire.FieldsOf(new(*gateways), "Gateway"),
	provideCheckout,
	provideNotifier,
	provideJWTManager,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	user.NewService,
	book.NewService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	wire.Bind(new(appuser.SessionStore), new(persistence.SessionStore)),
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewGetProfileUseCase,
	appuser.NewRefreshTokenUseCase,

	appbook.NewPublishBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewDeleteBookUseCase,

	provideCharger,
	appborrowing.NewCreateBorrowingUseCase,
	appborrowing.NewReturnBorrowingUseCase,
	appborrowing.NewPreviewReturnUseCase,
	appborrowing.NewListBorrowingsUseCase,
	appborrowing.NewGetBorrowingUseCase,

	apppayment.NewConfirmPaymentUseCase,
	apppayment.NewListPaymentsUseCase,
	apppayment.NewGetPaymentUseCase,
	apppayment.NewSweepExpiredUseCase,

	report.NewSendReportsUseCase,
)

// interfaceSet HTTP处理器、中间件、路由、定时任务
var interfaceSet = wire.NewSet(
	wire.Bind(new(middleware.TokenBlacklist), new(persistence.SessionStore)),
	middleware.NewAuthMiddleware,
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewBorrowingHandler,
	handler.NewPaymentHandler,
	provideRouter,
	wire.Bind(new(job.Locker), new(persistence.JobLocker)),
	provideScheduler,
	wire.Struct(new(App), "*"),
)

// InitializeApp 组装整个应用
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil, nil
}
