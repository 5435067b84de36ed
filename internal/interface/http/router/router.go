// Package router 组装gin引擎:全局中间件、公开路由与需要登录的路由
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/bookoutlet/internal/interface/http/dto"
	"github.com/xiebiao/bookoutlet/internal/interface/http/handler"
	"github.com/xiebiao/bookoutlet/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
	"github.com/xiebiao/bookoutlet/pkg/metrics"
	"github.com/xiebiao/bookoutlet/pkg/response"
)

// Handlers 全部HTTP处理器
type Handlers struct {
	User    *handler.UserHandler
	Book    *handler.BookHandler
	Review  *handler.ReviewHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
	Contact *handler.ContactHandler
}

// Options 引擎配置
type Options struct {
	Mode          string // debug | release | test
	AllowOrigins  []string
	EnableSwagger bool
}

// New 创建gin引擎并注册全部路由
func New(opts Options, log *zap.Logger, auth *middleware.AuthMiddleware, h Handlers) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	dto.RegisterValidator()

	r := gin.New()
	r.Use(
		middleware.RequestLogger(log),
		middleware.Recovery(),
		middleware.Tracing(),
		middleware.Metrics(),
		cors.New(corsConfig(opts.AllowOrigins)),
	)
	r.NoRoute(func(c *gin.Context) {
		response.Abort(c, http.StatusNotFound, apperrors.ErrNotFound)
	})

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if opts.EnableSwagger {
		// http://localhost:8080/swagger/index.html
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")

	users := v1.Group("/users")
	{
		users.POST("/register", h.User.Register)
		users.POST("/login", h.User.Login)
		users.POST("/logout", auth.RequireAuth(), h.User.Logout)
	}

	books := v1.Group("/books")
	{
		books.GET("", h.Book.SearchBooks)
		books.GET("/json", h.Book.CatalogJSON)
		books.GET("/:id", auth.OptionalAuth(), h.Book.GetBook)
		books.POST("", auth.RequireAuth(), h.Book.PublishBook)
		books.PUT("/:id", auth.RequireAuth(), h.Book.UpdateBook)
		books.POST("/:id/reviews", auth.RequireAuth(), h.Review.SubmitReview)
	}
	v1.GET("/stats", h.Book.Stats)
	v1.POST("/contact", h.Contact.Submit)

	authorized := v1.Group("")
	authorized.Use(auth.RequireAuth())
	{
		authorized.GET("/profile", h.User.GetProfile)
		authorized.PUT("/profile", h.User.UpdateProfile)

		authorized.DELETE("/reviews/:id", h.Review.DeleteReview)

		authorized.GET("/cart", h.Cart.GetCart)
		authorized.POST("/cart/items", h.Cart.AddItem)
		authorized.PATCH("/cart/items/:id", h.Cart.UpdateItem)
		authorized.DELETE("/cart/items/:id", h.Cart.RemoveItem)

		authorized.POST("/orders", h.Order.PlaceOrder)
		authorized.GET("/orders", h.Order.ListOrders)
		authorized.GET("/orders/:id", h.Order.GetOrder)
		authorized.POST("/orders/:id/payment", h.Order.ProcessPayment)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{middleware.HeaderRequestID, "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
