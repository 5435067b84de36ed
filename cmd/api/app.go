package main

import (
	"context"

	"github.com/gin-gonic/gin"
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

// newApp 手动组装依赖,与wire.go中的initializeApp保持一致
// Repository ← Service ← UseCase ← Handler
func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gin.Engine, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// 基础设施层
	repos, closeRepos, err := provideRepositories(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanups = append(cleanups, closeRepos)

	redisClient, closeRedis, err := provideRedis(ctx, cfg, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cleanups = append(cleanups, closeRedis)

	events, closeEvents, err := provideEventPublisher(cfg, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	cleanups = append(cleanups, closeEvents)

	backend := provideSessionBackend(redisClient)
	sessions := provideSessionStore(backend)
	cache := provideCache(redisClient)
	jwtManager := provideJWTManager(cfg)

	// 领域层
	bookService := book.NewService(repos.Books)
	reviewService := review.NewService(repos.Reviews)
	cartService := cart.NewService(repos.Carts)
	userService := user.NewService(repos.Users, repos.Profiles)

	// 接口层
	handlers := router.Handlers{
		User: handler.NewUserHandler(
			appuser.NewRegisterUseCase(repos.Tx, userService),
			provideLoginUseCase(cfg, userService, jwtManager, sessions),
			appuser.NewLogoutUseCase(sessions, jwtManager),
			appuser.NewProfileUseCase(repos.Users, userService, repos.Reviews),
		),
		Book: handler.NewBookHandler(
			appbook.NewPublishBookUseCase(bookService, cache),
			appbook.NewUpdateBookUseCase(bookService, cache),
			appbook.NewSearchBooksUseCase(bookService),
			appbook.NewGetBookUseCase(bookService, repos.Reviews),
			appbook.NewCatalogJSONUseCase(bookService),
			provideStatsUseCase(cfg, bookService, repos.Reviews, cache),
		),
		Review: handler.NewReviewHandler(
			appreview.NewSubmitReviewUseCase(repos.Tx, reviewService, repos.Books, cache),
			appreview.NewDeleteReviewUseCase(repos.Tx, reviewService, repos.Reviews, repos.Books, cache),
		),
		Cart: handler.NewCartHandler(
			appcart.NewGetCartUseCase(cartService),
			appcart.NewAddToCartUseCase(cartService, bookService),
			appcart.NewUpdateCartItemUseCase(cartService),
		),
		Order: handler.NewOrderHandler(
			apporder.NewPlaceOrderUseCase(repos.Tx, repos.Carts, repos.Orders, events),
			apporder.NewProcessPaymentUseCase(repos.Tx, repos.Orders, events),
			apporder.NewListOrdersUseCase(repos.Orders),
			apporder.NewGetOrderUseCase(repos.Orders),
		),
		Contact: handler.NewContactHandler(appcontact.NewSubmitContactUseCase(repos.Contacts)),
	}

	auth := middleware.NewAuthMiddleware(jwtManager, provideTokenBlacklist(backend))
	return provideEngine(cfg, log, auth, handlers), cleanup, nil
}
