package slider

import (
	"bytes"
	"html/template"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"announceslider/internal/constants"
	"announceslider/internal/model"
)

// View 控制器驱动的渲染目标
type View interface {
	Clear()
	ShowLoading()
	RemoveLoading()
	ShowEmpty(message string)
	AppendCard(item model.AnnouncementItem)
}

// DateLayout 发布日期格式，对应 en-US 的 "MMM D, YYYY"
const DateLayout = "Jan 2, 2006"

// FormatDate 格式化发布日期，nil 返回空串
func FormatDate(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}

var (
	cardTmpl = template.Must(template.New("card").Parse(
		`<div class="flows-announcement-card">` +
			`<div class="flows-announcement-card-header">` +
			`{{if .IsNew}}<span class="flows-announcement-badge">{{.Badge}}</span>{{end}}` +
			`<h3 class="flows-announcement-card-title">{{.Title}}</h3>` +
			`</div>` +
			`<div class="flows-announcement-card-content">{{.Content}}</div>` +
			`{{if .Date}}<div class="flows-announcement-card-date">{{.Date}}</div>{{end}}` +
			`</div>`))

	loadingTmpl = template.Must(template.New("loading").Parse(
		`<div class="flows-announcement-loading"><div class="flows-announcement-spinner"></div><span>{{.}}</span></div>`))

	emptyTmpl = template.Must(template.New("empty").Parse(
		`<div class="flows-announcement-empty"><span>{{.}}</span></div>`))

	panelTmpl = template.Must(template.New("panel").Parse(
		`{{if .ShowOverlay}}<div class="{{.OverlayClass}}"></div>{{end}}` +
			`<div class="flows-announcement-slider-wrapper flows-announcement-slider-{{.Position}}">` +
			`<div class="flows-announcement-slider" style="{{.Style}}">` +
			`<div class="flows-header">` +
			`<div class="flows-announcement-header-text">` +
			`<h1 class="flows-title">{{.Title}}</h1>` +
			`{{if .Subtitle}}<p class="flows-announcement-subtitle">{{.Subtitle}}</p>{{end}}` +
			`</div>` +
			`{{if .ShowClose}}<button aria-label="Close" class="flows-cancel flows-close-btn"></button>{{end}}` +
			`</div>` +
			`<div class="flows-announcement-content">{{.Content}}</div>` +
			`</div>` +
			`</div>`))
)

type nodeKind int

const (
	nodeCard nodeKind = iota
	nodeLoading
	nodeEmpty
)

type node struct {
	kind nodeKind
	html template.HTML
}

// HTMLView 在内存中维护面板内容容器并渲染为 HTML 片段
type HTMLView struct {
	opts      Options
	sanitizer *bluemonday.Policy
	loc       *time.Location

	mu    sync.RWMutex
	nodes []node
}

// HTMLViewOption 配置 HTMLView
type HTMLViewOption func(*HTMLView)

// WithSanitizer 使用 bluemonday 策略清洗公告内容；默认内容视为可信原样输出
func WithSanitizer(p *bluemonday.Policy) HTMLViewOption {
	return func(v *HTMLView) { v.sanitizer = p }
}

// WithLocation 设置发布日期的时区
func WithLocation(loc *time.Location) HTMLViewOption {
	return func(v *HTMLView) { v.loc = loc }
}

// NewHTMLView 创建视图，opts 应已填充默认值
func NewHTMLView(opts Options, options ...HTMLViewOption) *HTMLView {
	v := &HTMLView{opts: opts, loc: time.Local}
	for _, o := range options {
		o(v)
	}
	return v
}

func (v *HTMLView) Clear() {
	v.mu.Lock()
	v.nodes = nil
	v.mu.Unlock()
}

func (v *HTMLView) ShowLoading() {
	v.push(nodeLoading, mustExec(loadingTmpl, constants.LoadingMessage))
}

// RemoveLoading 移除第一个加载提示，没有则不做任何事
func (v *HTMLView) RemoveLoading() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, n := range v.nodes {
		if n.kind == nodeLoading {
			v.nodes = append(v.nodes[:i], v.nodes[i+1:]...)
			return
		}
	}
}

func (v *HTMLView) ShowEmpty(message string) {
	v.push(nodeEmpty, mustExec(emptyTmpl, message))
}

func (v *HTMLView) AppendCard(item model.AnnouncementItem) {
	content := item.Content
	if v.sanitizer != nil {
		content = v.sanitizer.Sanitize(content)
	}
	v.push(nodeCard, mustExec(cardTmpl, struct {
		IsNew   bool
		Badge   string
		Title   string
		Content template.HTML
		Date    string
	}{
		IsNew:   item.IsNew,
		Badge:   constants.NewBadge,
		Title:   item.Title,
		Content: template.HTML(content),
		Date:    FormatDate(item.PublishedAt, v.loc),
	}))
}

// CardCount 当前已渲染的公告卡片数
func (v *HTMLView) CardCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	n := 0
	for _, nd := range v.nodes {
		if nd.kind == nodeCard {
			n++
		}
	}
	return n
}

// ContentHTML 内容容器内部的 HTML
func (v *HTMLView) ContentHTML() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	var sb strings.Builder
	for _, n := range v.nodes {
		sb.WriteString(string(n.html))
	}
	return sb.String()
}

// Render 渲染完整面板：遮罩、头部与内容容器
func (v *HTMLView) Render() string {
	overlayClass := "flows-announcement-overlay"
	if v.opts.OverlayClickCloses() {
		overlayClass += " flows-overlay-cancel"
	}
	return string(mustExec(panelTmpl, struct {
		ShowOverlay  bool
		OverlayClass string
		Position     string
		Style        template.CSS
		Title        string
		Subtitle     string
		ShowClose    bool
		Content      template.HTML
	}{
		ShowOverlay:  !v.opts.HideOverlay,
		OverlayClass: overlayClass,
		Position:     v.opts.SliderPosition,
		Style:        template.CSS("width: " + v.opts.SliderWidth + ";"),
		Title:        v.opts.Title,
		Subtitle:     v.opts.Subtitle,
		ShowClose:    !v.opts.HideClose,
		Content:      template.HTML(v.ContentHTML()),
	}))
}

func (v *HTMLView) push(kind nodeKind, html template.HTML) {
	v.mu.Lock()
	v.nodes = append(v.nodes, node{kind: kind, html: html})
	v.mu.Unlock()
}

func mustExec(t *template.Template, data any) template.HTML {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		panic(err)
	}
	return template.HTML(buf.String())
}
