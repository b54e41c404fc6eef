package slider

import (
	"context"
	"fmt"
	"sync"

	"announceslider/internal/constants"
	"announceslider/internal/metrics"
	"announceslider/internal/model"
	"announceslider/internal/service"
	"announceslider/pkg/logger"
)

// Fetcher 控制器依赖的公告抓取器
type Fetcher interface {
	Fetch(ctx context.Context, p service.FetchParams) (model.FetchResult, error)
	ClearCache(ctx context.Context) error
}

// Dispatcher 用于滚动触发的后台加载，返回任务是否被接收
type Dispatcher interface {
	Go(name string, fn func(ctx context.Context) error) bool
}

type goroutineDispatcher struct{}

func (goroutineDispatcher) Go(_ string, fn func(ctx context.Context) error) bool {
	go func() { _ = fn(context.Background()) }()
	return true
}

// Controller 单个滑块实例的分页加载状态机。
// 同一时刻最多一次抓取在途，重叠的调用直接忽略而不排队。
type Controller struct {
	opts       Options
	fetcher    Fetcher
	view       View
	dispatcher Dispatcher
	metrics    *metrics.Metrics
	logger     *logger.Logger

	mu          sync.Mutex
	currentPage int
	hasMore     bool
	isLoading   bool
	state       State
	detached    bool

	// 生命周期上下文，Cleanup 时取消在途请求
	ctx    context.Context
	cancel context.CancelFunc
}

// Deps 控制器的协作方
type Deps struct {
	Fetcher    Fetcher
	View       View
	Dispatcher Dispatcher
	Metrics    *metrics.Metrics
	Logger     *logger.Logger
}

// NewController 创建控制器，opts 应已填充默认值并通过校验
func NewController(opts Options, deps Deps) *Controller {
	if deps.Dispatcher == nil {
		deps.Dispatcher = goroutineDispatcher{}
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New(nil)
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		opts:        opts,
		fetcher:     deps.Fetcher,
		view:        deps.View,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      deps.Logger.With("organization_id", opts.OrganizationID),
		currentPage: 1,
		hasMore:     true,
		state:       StateIdle,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// LoadAnnouncements 加载当前页并推进分页。
// 加载中、或已无更多且不在第一页时直接返回 false；第一页即使 hasMore=false 也允许加载，
// 以便空结果能渲染空状态。
func (c *Controller) LoadAnnouncements(ctx context.Context) bool {
	c.mu.Lock()
	if c.detached || c.isLoading || (!c.hasMore && c.currentPage > 1) {
		c.mu.Unlock()
		c.metrics.SkippedLoads.Inc()
		return false
	}
	c.isLoading = true
	page := c.currentPage
	if page == 1 {
		c.state = StateLoadingFirstPage
		if !c.showLoadingLocked() {
			c.mu.Unlock()
			return true
		}
	} else {
		c.state = StateLoadingNextPage
	}
	lifetime := c.ctx
	c.mu.Unlock()

	fetchCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(lifetime, cancel)
	res, err := c.fetcher.Fetch(fetchCtx, service.FetchParams{
		APIURL:         c.opts.APIURL,
		OrganizationID: c.opts.OrganizationID,
		Page:           page,
		Limit:          c.opts.InitialLimit,
	})
	stop()
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.isLoading = false }()

	if c.detached {
		c.logger.Debug("滑块已关闭，丢弃加载结果", "page", page)
		return true
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("渲染公告失败", "page", page, "panic", fmt.Sprint(r))
			c.failLocked(page)
		}
	}()

	if err != nil {
		c.logger.Warn("加载公告失败", "page", page, "error", err)
		c.failLocked(page)
		return true
	}

	if page == 1 {
		c.view.Clear()
	} else {
		c.view.RemoveLoading()
	}

	if len(res.Data) == 0 && page == 1 {
		c.view.ShowEmpty(c.opts.EmptyStateMessage)
	} else {
		for _, item := range res.Data {
			c.view.AppendCard(item)
		}
	}

	c.hasMore = res.HasMore
	c.currentPage++
	if c.hasMore {
		c.state = StateLoaded
	} else {
		c.state = StateExhausted
	}
	c.logger.Debug("公告已加载", "page", page, "count", len(res.Data), "has_more", c.hasMore)
	return true
}

// showLoadingLocked 清空面板并显示加载提示；渲染出错时结束本次加载并返回 false
func (c *Controller) showLoadingLocked() (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("渲染加载提示失败", "panic", fmt.Sprint(r))
			c.isLoading = false
			c.state = StateFailed
			ok = false
		}
	}()
	c.view.Clear()
	c.view.ShowLoading()
	return true
}

// failLocked 第一页失败显示错误信息并保持分页状态以便重试；
// 后续页失败不显示错误，只停止分页。
func (c *Controller) failLocked(page int) {
	if page == 1 {
		c.view.Clear()
		c.view.ShowEmpty(constants.FailedToLoadMessage)
		c.state = StateFailed
		return
	}
	c.view.RemoveLoading()
	c.hasMore = false
	c.currentPage = page + 1
	c.state = StateExhausted
}

// HandleScroll 处理内容容器滚动；接近底部时在后台加载下一页，返回是否已触发
func (c *Controller) HandleScroll(pos ScrollPosition) bool {
	c.mu.Lock()
	eligible := !c.detached && c.opts.PaginationEnabled() && c.hasMore && !c.isLoading
	c.mu.Unlock()
	if !eligible || !pos.NearBottom() {
		return false
	}

	queued := c.dispatcher.Go("announcements_load", func(ctx context.Context) error {
		c.LoadAnnouncements(ctx)
		return nil
	})
	if !queued {
		c.metrics.DroppedScrolls.Inc()
	}
	return queued
}

// Cleanup 停止响应滚动、取消在途请求并清空整个共享缓存（影响所有滑块实例）
func (c *Controller) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	if c.detached {
		c.mu.Unlock()
		return nil
	}
	c.detached = true
	c.cancel()
	c.mu.Unlock()

	return c.fetcher.ClearCache(ctx)
}

// Snapshot 返回当前分页状态
func (c *Controller) Snapshot() PaginationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return PaginationState{
		CurrentPage: c.currentPage,
		HasMore:     c.hasMore,
		IsLoading:   c.isLoading,
		State:       c.state,
	}
}

// Options 返回控制器使用的配置
func (c *Controller) Options() Options {
	return c.opts
}
