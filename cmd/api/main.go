// @title        图书租借服务 API
// @version      1.0
// @description  借阅、支付、逾期罚款
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in           header
// @name         Authorization
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	_ "github.com/xiebiao/bookrental/docs"
	"github.com/xiebiao/bookrental/internal/infrastructure/config"
	"github.com/xiebiao/bookrental/internal/interface/http/dto"
	"github.com/xiebiao/bookrental/pkg/logger"
	"github.com/xiebiao/bookrental/pkg/tracing"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 日志
	l, closeLog, err := logger.New(logger.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Output:    cfg.Log.Output,
		AddSource: cfg.Log.AddSource,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer closeLog()
	slog.SetDefault(l)

	if err := run(cfg); err != nil {
		slog.Error("服务异常退出", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. 链路追踪
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(ctx, cfg.Tracing.ServiceName, cfg.Tracing.CollectorURL)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Warn("关闭TracerProvider失败", "error", err)
			}
		}()
	}

	// 4. 自定义校验规则要在创建路由之前注册
	if err := dto.RegisterValidations(); err != nil {
		return err
	}
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 5. 依赖注入
	app, cleanup, err := InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// 6. 定时任务
	jobCtx, cancelJobs := context.WithCancel(ctx)
	defer cancelJobs()
	if cfg.Scheduler.Enabled {
		app.Scheduler.Start(jobCtx)
	}

	// 7. HTTP服务
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("服务启动",
			"addr", srv.Addr,
			"mode", cfg.Server.Mode,
			"database", cfg.Database.Driver,
			"payment", cfg.Payment.Provider,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		slog.Info("收到退出信号,开始优雅关闭")
	}

	// 8. 优雅关闭:先停止接收请求,再等待定时任务退出
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP服务关闭失败", "error", err)
	}

	cancelJobs()
	app.Scheduler.Wait()
	slog.Info("服务已停止")
	return nil
}
