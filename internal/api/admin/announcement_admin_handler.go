package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"announceslider/internal/constants"
	"announceslider/internal/model"
	"announceslider/internal/repository"
	"announceslider/internal/service"
	"announceslider/pkg/logger"
)

// AnnouncementAdminHandler 公告管理处理器
type AnnouncementAdminHandler struct {
	announcementService *service.AnnouncementService
	logger              *logger.Logger
}

// NewAnnouncementAdminHandler 创建公告管理处理器实例
func NewAnnouncementAdminHandler(announcementService *service.AnnouncementService, logger *logger.Logger) *AnnouncementAdminHandler {
	return &AnnouncementAdminHandler{
		announcementService: announcementService,
		logger:              logger,
	}
}

// UpdateStatusRequest 修改公告状态请求
type UpdateStatusRequest struct {
	Status model.Status `json:"status" binding:"required"`
}

// CreateAnnouncement 创建公告
// @Summary 创建公告
// @Tags 公告管理
// @Accept json
// @Produce json
// @Param orgId path string true "组织ID"
// @Param announcement body service.CreateAnnouncementInput true "公告信息"
// @Router /api/v1/admin/organizations/{orgId}/announcements [post]
func (h *AnnouncementAdminHandler) CreateAnnouncement(c *gin.Context) {
	var req service.CreateAnnouncementInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": constants.ErrInvalidParams + ": " + err.Error()})
		return
	}

	orgID := c.Param("orgId")
	item, err := h.announcementService.Create(c.Request.Context(), orgID, req)
	if err != nil {
		h.fail(c, "创建公告失败", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"code": 201, "msg": constants.SuccessCreate, "data": item})
}

// UpdateStatus 修改公告状态
// @Summary 修改公告状态
// @Tags 公告管理
// @Accept json
// @Produce json
// @Param id path string true "公告ID"
// @Param body body UpdateStatusRequest true "目标状态"
// @Router /api/v1/admin/announcements/{id}/status [patch]
func (h *AnnouncementAdminHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": constants.ErrInvalidParams + ": " + err.Error()})
		return
	}

	item, err := h.announcementService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, "修改公告状态失败", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": constants.SuccessUpdate, "data": item})
}

// DeleteAnnouncement 删除公告
// @Summary 删除公告
// @Tags 公告管理
// @Param id path string true "公告ID"
// @Router /api/v1/admin/announcements/{id} [delete]
func (h *AnnouncementAdminHandler) DeleteAnnouncement(c *gin.Context) {
	if err := h.announcementService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "删除公告失败", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": constants.SuccessDelete})
}

// GetAnnouncement 获取单个公告（含草稿与归档）
// @Summary 获取公告详情
// @Tags 公告管理
// @Produce json
// @Param id path string true "公告ID"
// @Router /api/v1/admin/announcements/{id} [get]
func (h *AnnouncementAdminHandler) GetAnnouncement(c *gin.Context) {
	item, err := h.announcementService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "获取公告详情失败", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": constants.SuccessGet, "data": item})
}

func (h *AnnouncementAdminHandler) fail(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidAnnouncement):
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": constants.ErrInvalidParams + ": " + err.Error()})
	case errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": constants.ErrInvalidStatus})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": 404, "msg": constants.ErrAnnouncementMissing})
	default:
		h.logger.Error(msg, "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": constants.ErrInternalServer})
	}
}
