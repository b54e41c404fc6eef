package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"announceslider/internal/constants"
	"announceslider/internal/model"
	"announceslider/internal/service"
	"announceslider/pkg/logger"
)

// AnnouncementHandler 公告处理器
type AnnouncementHandler struct {
	announcementService *service.AnnouncementService
	logger              *logger.Logger
}

// NewAnnouncementHandler 创建公告处理器实例
func NewAnnouncementHandler(announcementService *service.AnnouncementService, logger *logger.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementService: announcementService,
		logger:              logger,
	}
}

// ListByOrganization 获取组织公告列表
// @Summary 获取组织公告列表
// @Description 按发布时间倒序分页返回公告数组，供滑块面板抓取
// @Tags 公告
// @Produce json
// @Param orgId path string true "组织ID"
// @Param status query string false "状态，默认published"
// @Param page query int false "页码，默认1"
// @Param limit query int false "每页条数，默认10，最大50"
// @Success 200 {array} model.AnnouncementItem
// @Router /api/v1/organizations/{orgId}/announcements [get]
func (h *AnnouncementHandler) ListByOrganization(c *gin.Context) {
	orgID := c.Param("orgId")
	// 非法数字按缺省处理，由服务层统一修正
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	status := model.Status(c.DefaultQuery("status", string(model.StatusPublished)))

	items, err := h.announcementService.List(c.Request.Context(), orgID, status, page, limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": constants.ErrInvalidStatus})
			return
		}
		h.logger.Error("获取公告列表失败", "organization_id", orgID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": constants.ErrInternalServer})
		return
	}

	c.JSON(http.StatusOK, items)
}
