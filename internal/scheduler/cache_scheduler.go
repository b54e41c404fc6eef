package scheduler

import (
	"sync"
	"time"

	"announceslider/pkg/logger"
)

// Pruner 可回收过期条目的缓存
type Pruner interface {
	Prune() int
}

// CacheScheduler 定期回收内存缓存中的过期公告页
type CacheScheduler struct {
	cache    Pruner
	interval time.Duration
	logger   *logger.Logger
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewCacheScheduler 创建缓存回收调度器
func NewCacheScheduler(cache Pruner, interval time.Duration, logger *logger.Logger) *CacheScheduler {
	return &CacheScheduler{
		cache:    cache,
		interval: interval,
		logger:   logger,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start 启动调度器
func (s *CacheScheduler) Start() {
	go s.pruneScheduler()
	s.logger.Info("缓存回收调度器启动", "interval", s.interval)
}

// Stop 停止调度器并等待当前回收结束，可重复调用
func (s *CacheScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
		<-s.done
		s.logger.Info("缓存回收调度器停止")
	})
}

func (s *CacheScheduler) pruneScheduler() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.cache.Prune(); n > 0 {
				s.logger.Debug("已回收过期公告缓存", "count", n)
			}
		case <-s.quit:
			return
		}
	}
}
