package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus"

	"announceslider/config"
	"announceslider/internal/api"
	"announceslider/internal/cache"
	"announceslider/internal/metrics"
	"announceslider/internal/repository"
	"announceslider/internal/scheduler"
	"announceslider/internal/service"
	"announceslider/internal/slider"
	"announceslider/pkg/async"
	"announceslider/pkg/database"
	"announceslider/pkg/logger"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}

	// 初始化日志
	logger := logger.NewLoggerWithConfig(cfg.LogLevel, cfg.LogFile)
	defer logger.Close()

	ctx := context.Background()
	m := metrics.New(prometheus.DefaultRegisterer)

	// 公告缓存
	var announcementCache cache.Cache
	switch cfg.Announcements.CacheBackend {
	case "redis":
		redisClient, err := database.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("无法链接到Redis", err)
		}
		defer redisClient.Close()
		announcementCache = cache.NewRedis(redisClient, cfg.Announcements.CacheTTL)
	default:
		memoryCache := cache.NewMemory(cfg.Announcements.CacheTTL, cache.WithMaxEntries(cfg.Announcements.CacheMaxEntries))
		janitor := scheduler.NewCacheScheduler(memoryCache, cfg.Announcements.CacheTTL, logger)
		janitor.Start()
		defer janitor.Stop()
		announcementCache = memoryCache
	}

	fetcher := service.NewAnnouncementFetcher(
		announcementCache,
		&http.Client{Timeout: cfg.Announcements.HTTPTimeout},
		m,
		logger,
	)

	// 滚动触发的加载在工作器中执行
	worker := async.NewWorker(cfg.Announcements.QueueSize, logger)
	worker.Start(cfg.Announcements.Workers)

	var sanitizer *bluemonday.Policy
	if cfg.Announcements.SanitizeContent {
		sanitizer = bluemonday.UGCPolicy()
	}
	registry := slider.NewRegistry(slider.RegistryConfig{
		Fetcher:     fetcher,
		Dispatcher:  worker,
		Metrics:     m,
		Logger:      logger,
		APIURL:      func() string { return cfg.Announcements.APIURL },
		Sanitizer:   sanitizer,
		MaxSessions: cfg.Announcements.MaxSliders,
	})

	// 未主动关闭的滑块超时回收
	if cfg.Announcements.SliderIdleTimeout > 0 {
		reaper := scheduler.NewSessionScheduler(registry, cfg.Announcements.SliderIdleTimeout, logger)
		reaper.Start()
		defer reaper.Stop()
	}

	deps := api.Dependencies{
		Registry: registry,
		Cache:    fetcher,
		Gatherer: prometheus.DefaultGatherer,
	}

	// 数据库可选，未配置时只提供滑块接口
	if cfg.DatabaseEnabled() {
		db, err := database.NewMySQLConnection(cfg.Database)
		if err != nil {
			logger.Fatal("无法链接到数据库", err)
		}
		defer db.Close()

		announcementRepo := repository.NewAnnouncementRepository(db)
		if err := announcementRepo.EnsureSchema(ctx); err != nil {
			logger.Fatal("初始化公告表失败", err)
		}
		deps.AnnouncementService = service.NewAnnouncementService(announcementRepo, cfg.Announcements.NewWindow, logger)
	} else {
		logger.Warn("未配置数据库，公告与管理接口不可用")
	}

	// 初始化API路由
	router := api.SetupRouter(cfg, logger, deps)

	// 创建HTTP服务器
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.APIPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器（非阻塞）
	go func() {
		logger.Info("服务器启动", "port", cfg.APIPort, "cache_backend", cfg.Announcements.CacheBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("启动服务器失败", err)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("正在关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器被强制关闭", err)
	}
	registry.CloseAll(shutdownCtx)
	worker.Stop()

	logger.Info("服务器已正常退出")
}
