package constants

// 滑块面板展示文案
const (
	DefaultSliderTitle       = "What's New"
	DefaultEmptyStateMessage = "No announcements available."
	FailedToLoadMessage      = "Failed to load announcements."
	LoadingMessage           = "Loading announcements..."
	NewBadge                 = "NEW"
)

// 接口错误消息
const (
	ErrUnauthorized        = "unauthorized"
	ErrInvalidParams       = "invalid parameters"
	ErrInvalidStatus       = "invalid announcement status"
	ErrAnnouncementMissing = "announcement not found"
	ErrSliderMissing       = "slider not found"
	ErrTooManySliders      = "too many open sliders"
	ErrInternalServer      = "internal server error"
	ErrAdminDisabled       = "admin api disabled"
)

// 成功消息
const (
	SuccessCreate = "created"
	SuccessUpdate = "updated"
	SuccessDelete = "deleted"
	SuccessGet    = "success"
)
