package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"announceslider/internal/constants"
	"announceslider/internal/slider"
	"announceslider/pkg/logger"
)

// CacheClearer 可清空的公告缓存
type CacheClearer interface {
	ClearCache(ctx context.Context) error
}

// SliderHandler 滑块会话处理器
type SliderHandler struct {
	registry *slider.Registry
	cache    CacheClearer
	logger   *logger.Logger
}

// NewSliderHandler 创建滑块处理器实例
func NewSliderHandler(registry *slider.Registry, cache CacheClearer, logger *logger.Logger) *SliderHandler {
	return &SliderHandler{registry: registry, cache: cache, logger: logger}
}

// SliderResponse 滑块会话状态
type SliderResponse struct {
	ID string `json:"id"`
	slider.PaginationState
	HTML string `json:"html"`
}

func sliderResponse(s *slider.Session) SliderResponse {
	return SliderResponse{
		ID:              s.ID,
		PaginationState: s.Controller.Snapshot(),
		HTML:            s.View.Render(),
	}
}

// Open 打开滑块并加载第一页
// @Summary 打开滑块
// @Tags 滑块
// @Accept json
// @Produce json
// @Param options body slider.Options true "滑块配置"
// @Success 201 {object} SliderResponse
// @Router /api/v1/sliders [post]
func (h *SliderHandler) Open(c *gin.Context) {
	var opts slider.Options
	if err := c.ShouldBindJSON(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": constants.ErrInvalidParams + ": " + err.Error()})
		return
	}

	s, err := h.registry.Open(opts)
	if errors.Is(err, slider.ErrTooManySliders) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"code": 503, "msg": constants.ErrTooManySliders})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": constants.ErrInvalidParams + ": " + err.Error()})
		return
	}
	s.Controller.LoadAnnouncements(c.Request.Context())

	c.JSON(http.StatusCreated, gin.H{"code": 201, "msg": constants.SuccessCreate, "data": sliderResponse(s)})
}

// Get 获取滑块当前状态与渲染结果
// @Summary 获取滑块
// @Tags 滑块
// @Produce json
// @Param id path string true "滑块ID"
// @Success 200 {object} SliderResponse
// @Router /api/v1/sliders/{id} [get]
func (h *SliderHandler) Get(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": constants.SuccessGet, "data": sliderResponse(s)})
}

// Scroll 上报滚动位置，接近底部时异步加载下一页
// @Summary 上报滚动
// @Tags 滑块
// @Accept json
// @Produce json
// @Param id path string true "滑块ID"
// @Param position body slider.ScrollPosition true "滚动位置"
// @Router /api/v1/sliders/{id}/scroll [post]
func (h *SliderHandler) Scroll(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var pos slider.ScrollPosition
	if err := c.ShouldBindJSON(&pos); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": constants.ErrInvalidParams + ": " + err.Error()})
		return
	}

	triggered := s.Controller.HandleScroll(pos)
	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": constants.SuccessGet, "data": gin.H{"triggered": triggered}})
}

// Load 同步加载下一页
// @Summary 加载下一页
// @Tags 滑块
// @Produce json
// @Param id path string true "滑块ID"
// @Router /api/v1/sliders/{id}/load [post]
func (h *SliderHandler) Load(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	loaded := s.Controller.LoadAnnouncements(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": constants.SuccessGet, "data": gin.H{
		"loaded": loaded,
		"slider": sliderResponse(s),
	}})
}

// Close 关闭滑块，取消在途请求并清空缓存
// @Summary 关闭滑块
// @Tags 滑块
// @Param id path string true "滑块ID"
// @Router /api/v1/sliders/{id} [delete]
func (h *SliderHandler) Close(c *gin.Context) {
	id := c.Param("id")
	found, err := h.registry.Close(c.Request.Context(), id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"code": 404, "msg": constants.ErrSliderMissing})
		return
	}
	if err != nil {
		// 会话已移除，缓存清理失败只记录
		h.logger.Warn("滑块关闭时清空缓存失败", "slider_id", id, "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": constants.SuccessDelete})
}

// ClearCache 清空公告缓存
// @Summary 清空公告缓存
// @Tags 滑块
// @Router /api/v1/announcements/cache [delete]
func (h *SliderHandler) ClearCache(c *gin.Context) {
	if err := h.cache.ClearCache(c.Request.Context()); err != nil {
		h.logger.Error("清空公告缓存失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": constants.ErrInternalServer})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": constants.SuccessDelete})
}

func (h *SliderHandler) session(c *gin.Context) (*slider.Session, bool) {
	s, ok := h.registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"code": 404, "msg": constants.ErrSliderMissing})
		return nil, false
	}
	return s, true
}
