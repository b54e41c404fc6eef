package apis

import (
	"announceslider/internal/api/handler"

	"github.com/gin-gonic/gin"
)

// RegisterAnnouncementRoutes 注册公告相关路由
func RegisterAnnouncementRoutes(router *gin.RouterGroup, announcementHandler *handler.AnnouncementHandler) {
	router.GET("/organizations/:orgId/announcements", announcementHandler.ListByOrganization)
}

// RegisterSliderRoutes 注册滑块会话路由
func RegisterSliderRoutes(router *gin.RouterGroup, sliderHandler *handler.SliderHandler) {
	sliders := router.Group("/sliders")
	{
		sliders.POST("", sliderHandler.Open)
		sliders.GET("/:id", sliderHandler.Get)
		sliders.POST("/:id/scroll", sliderHandler.Scroll)
		sliders.POST("/:id/load", sliderHandler.Load)
		sliders.DELETE("/:id", sliderHandler.Close)
	}

	router.DELETE("/announcements/cache", sliderHandler.ClearCache)
}
