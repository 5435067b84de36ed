// @title           BookOutlet API
// @version         1.0
// @description     在线书店:图书目录、评论、购物车、订单与支付
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	_ "github.com/xiebiao/bookoutlet/docs"
	"github.com/xiebiao/bookoutlet/internal/infrastructure/config"
	"github.com/xiebiao/bookoutlet/pkg/logger"
	"github.com/xiebiao/bookoutlet/pkg/metrics"
	"github.com/xiebiao/bookoutlet/pkg/tracing"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 日志
	zlog, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	zap.ReplaceGlobals(zlog)

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("服务异常退出", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. 链路追踪与指标
	shutdownTracer, err := tracing.InitTracer(tracing.Options{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("初始化链路追踪失败: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			zlog.Warn("关闭链路追踪失败", zap.Error(err))
		}
	}()
	metrics.InitMetrics()

	// 4. 依赖组装
	engine, cleanup, err := newApp(ctx, cfg, zlog)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 2)
	go func() {
		zlog.Info("HTTP服务启动",
			zap.String("addr", srv.Addr),
			zap.String("mode", cfg.Server.Mode),
			zap.String("database", cfg.Database.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP服务异常: %w", err)
		}
	}()

	// 5. gRPC健康检查(可选)
	var (
		grpcServer   *grpc.Server
		healthServer *health.Server
	)
	if cfg.GRPC.Enabled {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPC.Port))
		if err != nil {
			return fmt.Errorf("监听gRPC端口失败: %w", err)
		}
		grpcServer = grpc.NewServer()
		healthServer = health.NewServer()
		grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

		go func() {
			zlog.Info("gRPC健康检查启动", zap.Int("port", cfg.GRPC.Port))
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- fmt.Errorf("gRPC服务异常: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		zlog.Info("收到退出信号,开始优雅关闭")
	case err := <-errCh:
		return err
	}

	// 6. 优雅关闭
	if healthServer != nil {
		healthServer.Shutdown()
		grpcServer.GracefulStop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("关闭HTTP服务失败: %w", err)
	}
	zlog.Info("服务已停止")
	return nil
}
