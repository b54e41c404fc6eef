package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"announceslider/internal/model"
	"announceslider/pkg/logger"
)

// MaxLimit 单页最多返回条数
const MaxLimit = 50

// MaxPage 页码上限，避免偏移量溢出
const MaxPage = 100000

// DefaultNewWindow 发布后多久内标记为新公告
const DefaultNewWindow = 7 * 24 * time.Hour

var (
	// ErrInvalidStatus 未知的公告状态
	ErrInvalidStatus = errors.New("invalid announcement status")
	// ErrInvalidAnnouncement 公告字段校验失败
	ErrInvalidAnnouncement = errors.New("invalid announcement")
)

// AnnouncementStore 公告持久化接口，由 repository.AnnouncementRepository 实现
type AnnouncementStore interface {
	ListByOrganization(ctx context.Context, orgID string, status model.Status, page, limit int) ([]model.AnnouncementItem, error)
	GetByID(ctx context.Context, id string) (*model.AnnouncementItem, error)
	Create(ctx context.Context, item *model.AnnouncementItem) error
	UpdateStatus(ctx context.Context, id string, status model.Status, now time.Time) error
	Delete(ctx context.Context, id string) error
}

// CreateAnnouncementInput 创建公告参数
type CreateAnnouncementInput struct {
	Title   string       `json:"title" validate:"required,max=255"`
	Content string       `json:"content" validate:"required"`
	Status  model.Status `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// AnnouncementService 公告服务
type AnnouncementService struct {
	repo      AnnouncementStore
	newWindow time.Duration
	logger    *logger.Logger
	now       func() time.Time
}

// NewAnnouncementService 创建公告服务实例
func NewAnnouncementService(repo AnnouncementStore, newWindow time.Duration, log *logger.Logger) *AnnouncementService {
	if newWindow <= 0 {
		newWindow = DefaultNewWindow
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &AnnouncementService{repo: repo, newWindow: newWindow, logger: log, now: time.Now}
}

// ClampPagination 规范化分页参数
func ClampPagination(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// List 分页获取组织公告，按发布时间倒序
func (s *AnnouncementService) List(ctx context.Context, orgID string, status model.Status, page, limit int) ([]model.AnnouncementItem, error) {
	if status == "" {
		status = model.StatusPublished
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	page, limit = ClampPagination(page, limit)

	items, err := s.repo.ListByOrganization(ctx, orgID, status, page, limit)
	if err != nil {
		s.logger.Error("获取公告列表失败", "organization_id", orgID, "error", err)
		return nil, err
	}
	if items == nil {
		items = []model.AnnouncementItem{}
	}
	now := s.now()
	for i := range items {
		s.markNew(&items[i], now)
	}
	return items, nil
}

// Get 根据ID获取公告
func (s *AnnouncementService) Get(ctx context.Context, id string) (*model.AnnouncementItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.markNew(item, s.now())
	return item, nil
}

// Create 创建公告，状态缺省为 draft
func (s *AnnouncementService) Create(ctx context.Context, orgID string, in CreateAnnouncementInput) (*model.AnnouncementItem, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAnnouncement, err)
	}
	if in.Status == "" {
		in.Status = model.StatusDraft
	}

	now := s.now()
	item := &model.AnnouncementItem{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		Title:          in.Title,
		Content:        in.Content,
		Status:         in.Status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if item.Status == model.StatusPublished {
		item.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, item); err != nil {
		s.logger.Error("创建公告失败", "organization_id", orgID, "error", err)
		return nil, err
	}
	s.markNew(item, now)
	s.logger.Info("公告已创建", "id", item.ID, "organization_id", orgID, "status", string(item.Status))
	return item, nil
}

// UpdateStatus 修改公告状态并返回最新记录
func (s *AnnouncementService) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.AnnouncementItem, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, id, status, s.now()); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete 删除公告
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("公告已删除", "id", id)
	return nil
}

func (s *AnnouncementService) markNew(item *model.AnnouncementItem, now time.Time) {
	item.IsNew = item.Status == model.StatusPublished &&
		item.PublishedAt != nil &&
		now.Sub(*item.PublishedAt) < s.newWindow
}
