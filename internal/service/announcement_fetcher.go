package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"announceslider/internal/cache"
	"announceslider/internal/metrics"
	"announceslider/internal/model"
	"announceslider/pkg/logger"
)

// 默认分页参数
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

var validate = validator.New()

// FetchParams 抓取一页公告的参数
type FetchParams struct {
	APIURL         string
	OrganizationID string
	Page           int
	Limit          int
}

func (p FetchParams) withDefaults() FetchParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	return p
}

// StatusError 后端返回非 2xx 状态
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return "failed to fetch announcements: " + e.Status
}

// ParseError 响应体无法解析为公告列表
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "malformed announcements response: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// AnnouncementFetcher 带短期缓存的公告抓取器
type AnnouncementFetcher struct {
	cache   cache.Cache
	client  *http.Client
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewAnnouncementFetcher 创建公告抓取器
func NewAnnouncementFetcher(c cache.Cache, client *http.Client, m *metrics.Metrics, log *logger.Logger) *AnnouncementFetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if m == nil {
		m = metrics.New(nil)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &AnnouncementFetcher{cache: c, client: client, metrics: m, logger: log}
}

// Fetch 获取一页已发布公告。缓存命中时不发起请求，hasMore 始终按本页条数重新计算。
func (f *AnnouncementFetcher) Fetch(ctx context.Context, p FetchParams) (model.FetchResult, error) {
	p = p.withDefaults()
	key := cache.Key(p.OrganizationID, p.Page, p.Limit)

	cached, ok, err := f.cache.Get(ctx, key)
	if err != nil {
		f.metrics.FetchErrors.WithLabelValues(metrics.ReasonCache).Inc()
		f.logger.Warn("读取公告缓存失败，改为请求后端", "key", key, "error", err)
	}
	if ok {
		f.metrics.CacheHits.Inc()
		f.logger.Debug("公告缓存命中", "key", key, "count", len(cached))
		return model.FetchResult{Data: cached, HasMore: model.HasMore(len(cached), p.Limit)}, nil
	}
	f.metrics.CacheMisses.Inc()

	start := time.Now()
	items, err := f.request(ctx, p)
	f.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		f.metrics.FetchErrors.WithLabelValues(reasonOf(err)).Inc()
		f.logger.Error("获取公告失败", "organization_id", p.OrganizationID, "page", p.Page, "error", err)
		return model.FetchResult{Data: []model.AnnouncementItem{}}, err
	}

	if err := f.cache.Set(ctx, key, items); err != nil {
		f.metrics.FetchErrors.WithLabelValues(metrics.ReasonCache).Inc()
		f.logger.Warn("写入公告缓存失败", "key", key, "error", err)
	}

	return model.FetchResult{Data: items, HasMore: model.HasMore(len(items), p.Limit)}, nil
}

// FetchOrEmpty 出错时返回空页且 hasMore=false，不向调用方传播错误
func (f *AnnouncementFetcher) FetchOrEmpty(ctx context.Context, p FetchParams) model.FetchResult {
	res, err := f.Fetch(ctx, p)
	if err != nil {
		return model.FetchResult{Data: []model.AnnouncementItem{}, HasMore: false}
	}
	return res
}

// ClearCache 清空全部缓存，不区分组织和页码
func (f *AnnouncementFetcher) ClearCache(ctx context.Context) error {
	if err := f.cache.Clear(ctx); err != nil {
		f.logger.Error("清空公告缓存失败", "error", err)
		return err
	}
	f.logger.Debug("公告缓存已清空")
	return nil
}

// RequestURL 构造 {apiUrl}/organizations/{organizationId}/announcements 请求地址
func RequestURL(p FetchParams) string {
	p = p.withDefaults()
	q := url.Values{}
	q.Set("status", string(model.StatusPublished))
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("limit", strconv.Itoa(p.Limit))
	return strings.TrimRight(p.APIURL, "/") + "/organizations/" + url.PathEscape(p.OrganizationID) + "/announcements?" + q.Encode()
}

func (f *AnnouncementFetcher) request(ctx context.Context, p FetchParams) ([]model.AnnouncementItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, RequestURL(p), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request announcements: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return decodeItems(resp.Body)
}

func decodeItems(r io.Reader) ([]model.AnnouncementItem, error) {
	var items []model.AnnouncementItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, &ParseError{Err: err}
	}
	for i := range items {
		if err := validate.Struct(items[i]); err != nil {
			return nil, &ParseError{Err: fmt.Errorf("item %d: %w", i, err)}
		}
	}
	if items == nil {
		items = []model.AnnouncementItem{}
	}
	return items, nil
}

func reasonOf(err error) string {
	var statusErr *StatusError
	var parseErr *ParseError
	switch {
	case errors.As(err, &statusErr):
		return metrics.ReasonStatus
	case errors.As(err, &parseErr):
		return metrics.ReasonParse
	default:
		return metrics.ReasonTransport
	}
}
