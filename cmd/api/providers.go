package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookoutlet/internal/application/book"
	apporder "github.com/xiebiao/bookoutlet/internal/application/order"
	appuser "github.com/xiebiao/bookoutlet/internal/application/user"
	"github.com/xiebiao/bookoutlet/internal/domain/book"
	"github.com/xiebiao/bookoutlet/internal/domain/cart"
	"github.com/xiebiao/bookoutlet/internal/domain/contact"
	"github.com/xiebiao/bookoutlet/internal/domain/order"
	"github.com/xiebiao/bookoutlet/internal/domain/review"
	"github.com/xiebiao/bookoutlet/internal/domain/tx"
	"github.com/xiebiao/bookoutlet/internal/domain/user"
	"github.com/xiebiao/bookoutlet/internal/infrastructure/config"
	"github.com/xiebiao/bookoutlet/internal/infrastructure/messaging"
	"github.com/xiebiao/bookoutlet/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/bookoutlet/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookoutlet/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookoutlet/internal/interface/http/middleware"
	"github.com/xiebiao/bookoutlet/internal/interface/http/router"
	"github.com/xiebiao/bookoutlet/pkg/jwt"
	"github.com/xiebiao/bookoutlet/pkg/mq"
)

// repositories 按database.driver选择MySQL或内存实现
type repositories struct {
	Tx       tx.Manager
	Books    book.Repository
	Reviews  review.Repository
	Carts    cart.Repository
	Orders   order.Repository
	Users    user.Repository
	Profiles user.ProfileRepository
	Contacts contact.Repository
}

func provideRepositories(cfg *config.Config, log *zap.Logger) (*repositories, func(), error) {
	if cfg.Database.Driver == "memory" {
		log.Warn("使用内存存储,重启后数据丢失")
		store := memory.NewStore()
		return &repositories{
			Tx:       store,
			Books:    store.Books(),
			Reviews:  store.Reviews(),
			Carts:    store.Carts(),
			Orders:   store.Orders(),
			Users:    store.Users(),
			Profiles: store.Profiles(),
			Contacts: store.Contacts(),
		}, func() {}, nil
	}

	db, err := mysql.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	cleanup := func() {
		if err := sqlDB.Close(); err != nil {
			log.Error("关闭数据库连接失败", zap.Error(err))
		}
	}

	return &repositories{
		Tx:       mysql.NewTxManager(db),
		Books:    mysql.NewBookRepository(db),
		Reviews:  mysql.NewReviewRepository(db),
		Carts:    mysql.NewCartRepository(db),
		Orders:   mysql.NewOrderRepository(db),
		Users:    mysql.NewUserRepository(db),
		Profiles: mysql.NewProfileRepository(db),
		Contacts: mysql.NewContactRepository(db),
	}, cleanup, nil
}

// provideRedis redis.enabled=false时返回nil,会话与缓存改用内存实现
func provideRedis(ctx context.Context, cfg *config.Config, log *zap.Logger) (*goredis.Client, func(), error) {
	if !cfg.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// sessionBackend 会话存储与Token黑名单
type sessionBackend interface {
	appuser.SessionStore
	middleware.TokenBlacklist
}

func provideSessionBackend(client *goredis.Client) sessionBackend {
	if client == nil {
		return memory.NewSessionStore()
	}
	return redis.NewSessionStore(client)
}

func provideSessionStore(b sessionBackend) appuser.SessionStore { return b }

func provideTokenBlacklist(b sessionBackend) middleware.TokenBlacklist { return b }

func provideCache(client *goredis.Client) appbook.Cache {
	if client == nil {
		return memory.NewCache()
	}
	return redis.NewCache(client)
}

// provideEventPublisher mq.enabled=false时事件直接丢弃
func provideEventPublisher(cfg *config.Config, log *zap.Logger) (apporder.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return messaging.NopPublisher{}, func() {}, nil
	}
	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic", log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := pub.Close(); err != nil {
			log.Error("关闭消息发布者失败", zap.Error(err))
		}
	}
	return messaging.NewOrderEventPublisher(pub, log), cleanup, nil
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// 会话有效期与Refresh Token一致
func provideLoginUseCase(cfg *config.Config, users user.Service, jwtManager *jwt.Manager, sessions appuser.SessionStore) *appuser.LoginUseCase {
	return appuser.NewLoginUseCase(users, jwtManager, sessions, cfg.JWT.RefreshTokenExpire)
}

func provideStatsUseCase(cfg *config.Config, books book.Service, reviews review.Repository, cache appbook.Cache) *appbook.StatsUseCase {
	return appbook.NewStatsUseCase(books, reviews, cache, cfg.Cache.StatsTTL)
}

func provideEngine(cfg *config.Config, log *zap.Logger, auth *middleware.AuthMiddleware, handlers router.Handlers) *gin.Engine {
	return router.New(router.Options{
		Mode:          cfg.Server.Mode,
		AllowOrigins:  cfg.CORS.AllowOrigins,
		EnableSwagger: cfg.Server.Mode != "release",
	}, log, auth, handlers)
}
