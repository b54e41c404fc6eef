package model

import "time"

// Status 公告状态
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Valid 判断状态是否为已知值
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// AnnouncementItem 公告条目，content 为富文本 HTML
type AnnouncementItem struct {
	ID             string     `db:"id" json:"id" validate:"required"`
	OrganizationID string     `db:"organization_id" json:"-"`
	Title          string     `db:"title" json:"title"`
	Content        string     `db:"content" json:"content"`
	Status         Status     `db:"status" json:"status" validate:"oneof=draft published archived"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
	PublishedAt    *time.Time `db:"published_at" json:"published_at"`
	IsNew          bool       `db:"-" json:"is_new"`
}

// FetchResult 一页公告及是否可能还有下一页
type FetchResult struct {
	Data    []AnnouncementItem `json:"data"`
	HasMore bool               `json:"hasMore"`
}

// HasMore 以本页条数是否达到 limit 判断是否还有更多
func HasMore(n, limit int) bool {
	return n >= limit
}
