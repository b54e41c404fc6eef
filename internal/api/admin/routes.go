package admin

import (
	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes 注册管理员API路由，调用方负责挂载认证中间件
func RegisterAdminRoutes(router *gin.RouterGroup, announcementAdminHandler *AnnouncementAdminHandler) {
	router.POST("/organizations/:orgId/announcements", announcementAdminHandler.CreateAnnouncement)

	announcements := router.Group("/announcements")
	{
		announcements.GET("/:id", announcementAdminHandler.GetAnnouncement)
		announcements.PATCH("/:id/status", announcementAdminHandler.UpdateStatus)
		announcements.DELETE("/:id", announcementAdminHandler.DeleteAnnouncement)
	}
}
