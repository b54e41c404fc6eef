package cache

import (
	"context"
	"sync"
	"time"

	"announceslider/internal/model"
)

type memoryEntry struct {
	items    []model.AnnouncementItem
	storedAt time.Time
}

// Memory 进程内缓存。过期条目由 Get 视为未命中，下次 Set 覆盖或由 Prune 回收
type Memory struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// MemoryOption 配置 Memory
type MemoryOption func(*Memory)

// WithClock 替换 time.Now，测试用
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// WithMaxEntries 限制键数量，0 表示不限制
func WithMaxEntries(n int) MemoryOption {
	return func(m *Memory) { m.maxEntries = n }
}

// NewMemory 创建内存缓存，ttl 非正数时使用 DefaultTTL
func NewMemory(ttl time.Duration, opts ...MemoryOption) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Get(_ context.Context, key string) ([]model.AnnouncementItem, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok || m.now().Sub(e.storedAt) >= m.ttl {
		return nil, false, nil
	}
	return cloneItems(e.items), true, nil
}

func (m *Memory) Set(_ context.Context, key string, items []model.AnnouncementItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		m.evictOldestLocked()
	}
	m.entries[key] = memoryEntry{items: cloneItems(items), storedAt: m.now()}
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}

// Prune 删除全部过期条目，返回删除数量
func (m *Memory) Prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	n := 0
	for k, e := range m.entries {
		if now.Sub(e.storedAt) >= m.ttl {
			delete(m.entries, k)
			n++
		}
	}
	return n
}

// Len 当前键数量，包含已过期的
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) evictOldestLocked() {
	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for k, e := range m.entries {
		if !found || e.storedAt.Before(oldestAt) {
			oldestKey, oldestAt, found = k, e.storedAt, true
		}
	}
	if found {
		delete(m.entries, oldestKey)
	}
}

func cloneItems(items []model.AnnouncementItem) []model.AnnouncementItem {
	if items == nil {
		return nil
	}
	out := make([]model.AnnouncementItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].PublishedAt != nil {
			t := *out[i].PublishedAt
			out[i].PublishedAt = &t
		}
	}
	return out
}
