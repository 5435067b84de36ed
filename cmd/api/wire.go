//go:build wireinject
// +build wireinject

// 生成: wire gen ./cmd/api
// 与app.go中的newApp组装结果一致

package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookoutlet/internal/application/book"
	appcart "github.com/xiebiao/bookoutlet/internal/application/cart"
	appcontact "github.com/xiebiao/bookoutlet/internal/application/contact"
	apporder "github.com/xiebiao/bookoutlet/internal/application/order"
	appreview "github.com/xiebiao/bookoutlet/internal/application/review"
	appuser "github.com/xiebiao/bookoutlet/internal/application/user"
	"github.com/xiebiao/bookoutlet/internal/domain/book"
	"github.com/xiebiao/bookoutlet/internal/domain/cart"
	"github.com/xiebiao/bookoutlet/internal/domain/review"
	"github.com/xiebiao/bookoutlet/internal/domain/user"
	"github.com/xiebiao/bookoutlet/internal/infrastructure/config"
	"github.com/xiebiao/bookoutlet/internal/interface/http/handler"
	"github.com/xiebiao/bookoutlet/internal/interface/http/middleware"
	"github.com/xiebiao/bookoutlet/internal/interface/http/router"
)

// infrastructureSet 存储、Redis、消息队列
var infrastructureSet = wire.NewSet(
	provideRepositories,
	wire.FieldsOf(new(*repositories),
		"Tx", "Books", "Reviews", "Carts", "Orders", "Users", "Profiles", "Contacts"),
	provideRedis,
	provideSessionBackend,
	provideSessionStore,
	provideTokenBlacklist,
	provideCache,
	provideEventPublisher,
)

var domainSet = wire.NewSet(
	book.NewService,
	review.NewService,
	cart.NewService,
	user.NewService,
)

var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	provideLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewProfileUseCase,
	appbook.NewPublishBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewSearchBooksUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewCatalogJSONUseCase,
	provideStatsUseCase,
	appreview.NewSubmitReviewUseCase,
	appreview.NewDeleteReviewUseCase,
	appcart.NewGetCartUseCase,
	appcart.NewAddToCartUseCase,
	appcart.NewUpdateCartItemUseCase,
	apporder.NewPlaceOrderUseCase,
	apporder.NewProcessPaymentUseCase,
	apporder.NewListOrdersUseCase,
	apporder.NewGetOrderUseCase,
	appcontact.NewSubmitContactUseCase,
)

var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewUserHandler,
	handler.NewBookHandler,
	handler.NewReviewHandler,
	handler.NewCartHandler,
	handler.NewOrderHandler,
	handler.NewContactHandler,
	wire.Struct(new(router.Handlers), "*"),
	provideEngine,
)

// initializeApp 初始化整个应用,返回gin引擎与资源释放函数
func initializeApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil, nil
}
