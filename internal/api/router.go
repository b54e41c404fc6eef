package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"announceslider/config"
	"announceslider/internal/api/admin"
	"announceslider/internal/api/apis"
	"announceslider/internal/api/handler"
	"announceslider/internal/middleware"
	"announceslider/internal/service"
	"announceslider/internal/slider"
	"announceslider/pkg/logger"
)

// Dependencies 路由依赖，由 main 组装
type Dependencies struct {
	// AnnouncementService 为空时不注册公告与管理接口（未配置数据库）
	AnnouncementService *service.AnnouncementService
	Registry            *slider.Registry
	Cache               handler.CacheClearer
	Gatherer            prometheus.Gatherer
}

// SetupRouter 设置API路由
func SetupRouter(cfg *config.Config, logger *logger.Logger, deps Dependencies) *gin.Engine {
	// 创建Gin引擎
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// 使用中间件
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// API版本v1
	v1 := router.Group("/api/v1")

	sliderHandler := handler.NewSliderHandler(deps.Registry, deps.Cache, logger)
	apis.RegisterSliderRoutes(v1, sliderHandler)

	if deps.AnnouncementService != nil {
		announcementHandler := handler.NewAnnouncementHandler(deps.AnnouncementService, logger)
		apis.RegisterAnnouncementRoutes(v1, announcementHandler)

		// 注册管理员API路由
		adminRouter := v1.Group("/admin")
		adminRouter.Use(middleware.AdminAuth(cfg.Admin.TokenHash))
		admin.RegisterAdminRoutes(adminRouter, admin.NewAnnouncementAdminHandler(deps.AnnouncementService, logger))
	}

	return router
}
