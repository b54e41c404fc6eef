package slider

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"announceslider/internal/constants"
)

// 默认配置
const (
	DefaultPosition = "right"
	DefaultWidth    = "400px"
	DefaultLimit    = 10
	// MaxLimit 与公告接口单页上限一致，超过会被截断导致 hasMore 误判
	MaxLimit = 50
)

var (
	validate    = validator.New()
	cssLengthRe = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?(px|%|rem|em|vw)$`)
)

func init() {
	// 宽度会直接写入 style 属性，只接受简单长度值
	_ = validate.RegisterValidation("csslength", func(fl validator.FieldLevel) bool {
		return cssLengthRe.MatchString(fl.Field().String())
	})
}

// Options 单个滑块面板实例的配置
type Options struct {
	OrganizationID      string `json:"organizationId" validate:"required"`
	SliderPosition      string `json:"sliderPosition" validate:"omitempty,oneof=left right"`
	SliderWidth         string `json:"sliderWidth" validate:"omitempty,csslength"`
	Title               string `json:"title"`
	Subtitle            string `json:"subtitle"`
	EmptyStateMessage   string `json:"emptyStateMessage"`
	APIURL              string `json:"apiUrl" validate:"omitempty,url"`
	InitialLimit        int    `json:"initialLimit" validate:"gte=0,lte=50"`
	EnablePagination    *bool  `json:"enablePagination"`
	HideClose           bool   `json:"hideClose"`
	HideOverlay         bool   `json:"hideOverlay"`
	CloseOnOverlayClick *bool  `json:"closeOnOverlayClick"`
}

// WithDefaults 填充默认值；apiURL 为空时取 resolver 的结果
func (o Options) WithDefaults(resolver func() string) Options {
	if o.SliderPosition == "" {
		o.SliderPosition = DefaultPosition
	}
	if o.SliderWidth == "" {
		o.SliderWidth = DefaultWidth
	}
	if o.Title == "" {
		o.Title = constants.DefaultSliderTitle
	}
	if o.EmptyStateMessage == "" {
		o.EmptyStateMessage = constants.DefaultEmptyStateMessage
	}
	if o.APIURL == "" && resolver != nil {
		o.APIURL = resolver()
	}
	if o.InitialLimit == 0 {
		o.InitialLimit = DefaultLimit
	}
	if o.EnablePagination == nil {
		o.EnablePagination = boolPtr(true)
	}
	if o.CloseOnOverlayClick == nil {
		o.CloseOnOverlayClick = boolPtr(true)
	}
	return o
}

// Validate 校验配置
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid slider options: %w", err)
	}
	return nil
}

// PaginationEnabled 是否开启滚动分页，未设置时为 true
func (o Options) PaginationEnabled() bool {
	return o.EnablePagination == nil || *o.EnablePagination
}

// OverlayClickCloses 点击遮罩是否关闭面板，未设置时为 true
func (o Options) OverlayClickCloses() bool {
	return o.CloseOnOverlayClick == nil || *o.CloseOnOverlayClick
}

func boolPtr(b bool) *bool { return &b }
