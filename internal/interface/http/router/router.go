// Package router HTTP路由
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/bookrental/internal/interface/http/handler"
	"github.com/xiebiao/bookrental/internal/interface/http/middleware"
	"github.com/xiebiao/bookrental/pkg/response"
)

// Handlers 路由依赖
type Handlers struct {
	User      *handler.UserHandler
	Book      *handler.BookHandler
	Borrowing *handler.BorrowingHandler
	Payment   *handler.PaymentHandler
	Auth      *middleware.AuthMiddleware

	// Checkout 仅在使用模拟网关时非空
	Checkout handler.CheckoutSimulator
}

// New 创建Gin引擎并注册全部路由
func New(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestContext(),
		middleware.AccessLog(),
		middleware.Metrics(),
		middleware.Recovery(),
	)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if h.Checkout != nil {
		r.GET("/mock-checkout", handler.MockCheckout(h.Checkout))
	}

	auth := h.Auth.RequireAuth()
	staff := middleware.RequireStaff()

	v1 := r.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/register", h.User.Register)
			users.POST("/login", h.User.Login)
			users.POST("/refresh", h.User.Refresh)
			users.POST("/logout", auth, h.User.Logout)
			users.GET("/me", auth, h.User.Me)
		}

		books := v1.Group("/books")
		{
			books.GET("", h.Book.ListBooks)
			books.GET("/:id", h.Book.GetBook)
			books.POST("", auth, staff, h.Book.PublishBook)
			books.DELETE("/:id", auth, staff, h.Book.DeleteBook)
		}

		borrowings := v1.Group("/borrowings", auth)
		{
			borrowings.POST("", h.Borrowing.CreateBorrowing)
			borrowings.GET("", h.Borrowing.ListBorrowings)
			borrowings.GET("/:id", h.Borrowing.GetBorrowing)
			borrowings.GET("/:id/return", h.Borrowing.PreviewReturn)
			borrowings.POST("/:id/return", h.Borrowing.ReturnBorrowing)
		}

		payments := v1.Group("/payments")
		{
			// 网关回跳,不要求登录
			payments.GET("/success", h.Payment.Success)
			payments.GET("/cancel", h.Payment.Cancel)

			payments.GET("", auth, h.Payment.ListPayments)
			payments.GET("/:id", auth, h.Payment.GetPayment)
		}
	}

	return r
}
