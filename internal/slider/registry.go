package slider

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"announceslider/internal/metrics"
	"announceslider/pkg/logger"
)

// ErrTooManySliders 打开的滑块数量已达上限
var ErrTooManySliders = errors.New("too many open sliders")

// Session 一个已打开的滑块面板
type Session struct {
	ID         string
	Options    Options
	Controller *Controller
	View       *HTMLView
	OpenedAt   time.Time

	// lastSeen 由 Registry.mu 保护
	lastSeen time.Time
}

// RegistryConfig 创建滑块会话所需的依赖
type RegistryConfig struct {
	Fetcher    Fetcher
	Dispatcher Dispatcher
	Metrics    *metrics.Metrics
	Logger     *logger.Logger
	// APIURL 为未指定 apiUrl 的滑块提供后端地址
	APIURL    func() string
	Sanitizer *bluemonday.Policy
	Location  *time.Location
	// MaxSessions 同时打开的会话上限，0 表示不限制
	MaxSessions int
	Clock       func() time.Time
}

// Registry 按 ID 管理滑块会话
type Registry struct {
	cfg RegistryConfig

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry 创建会话注册表
func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New(nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Registry{cfg: cfg, sessions: make(map[string]*Session)}
}

// Open 校验配置并创建新的滑块会话，不触发加载
func (r *Registry) Open(opts Options) (*Session, error) {
	opts = opts.WithDefaults(r.cfg.APIURL)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.cfg.MaxSessions > 0 && len(r.sessions) >= r.cfg.MaxSessions {
		r.mu.Unlock()
		r.cfg.Logger.Warn("滑块数量已达上限", "max", r.cfg.MaxSessions)
		return nil, ErrTooManySliders
	}
	s := r.newSessionLocked(opts)
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.cfg.Metrics.OpenSliders.Inc()
	r.cfg.Logger.Info("滑块已打开", "slider_id", s.ID, "organization_id", opts.OrganizationID)
	return s, nil
}

func (r *Registry) newSessionLocked(opts Options) *Session {
	viewOpts := []HTMLViewOption{}
	if r.cfg.Sanitizer != nil {
		viewOpts = append(viewOpts, WithSanitizer(r.cfg.Sanitizer))
	}
	if r.cfg.Location != nil {
		viewOpts = append(viewOpts, WithLocation(r.cfg.Location))
	}
	view := NewHTMLView(opts, viewOpts...)

	now := r.cfg.Clock()
	return &Session{
		ID:      uuid.NewString(),
		Options: opts,
		View:    view,
		Controller: NewController(opts, Deps{
			Fetcher:    r.cfg.Fetcher,
			View:       view,
			Dispatcher: r.cfg.Dispatcher,
			Metrics:    r.cfg.Metrics,
			Logger:     r.cfg.Logger,
		}),
		OpenedAt: now,
		lastSeen: now,
	}
}

// Get 按 ID 查找会话并刷新最近访问时间
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if ok {
		s.lastSeen = r.cfg.Clock()
	}
	return s, ok
}

// Close 关闭会话并执行控制器清理，会话不存在返回 false
func (r *Registry) Close(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return false, nil
	}

	r.cfg.Metrics.OpenSliders.Dec()
	r.cfg.Logger.Info("滑块已关闭", "slider_id", id)
	return true, s.Controller.Cleanup(ctx)
}

// CloseAll 关闭全部会话，用于服务退出
func (r *Registry) CloseAll(ctx context.Context) {
	r.mu.RLock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	for _, id := range ids {
		if _, err := r.Close(ctx, id); err != nil {
			r.cfg.Logger.Warn("关闭滑块失败", "slider_id", id, "error", err)
		}
	}
}

// CloseIdle 关闭超过 maxIdle 未访问的会话，返回关闭数量
func (r *Registry) CloseIdle(ctx context.Context, maxIdle time.Duration) int {
	now := r.cfg.Clock()
	var idle []*Session

	r.mu.Lock()
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) >= maxIdle {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		r.cfg.Metrics.OpenSliders.Dec()
		r.cfg.Logger.Info("空闲滑块已回收", "slider_id", s.ID)
		if err := s.Controller.Cleanup(ctx); err != nil {
			r.cfg.Logger.Warn("回收空闲滑块时清空缓存失败", "slider_id", s.ID, "error", err)
		}
	}
	return len(idle)
}

// Len 当前打开的会话数
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
