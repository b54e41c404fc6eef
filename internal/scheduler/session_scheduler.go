package scheduler

import (
	"context"
	"sync"
	"time"

	"announceslider/pkg/logger"
)

// IdleCloser 可回收空闲会话的注册表
type IdleCloser interface {
	CloseIdle(ctx context.Context, maxIdle time.Duration) int
}

// SessionScheduler 定期关闭长时间无访问的滑块会话
type SessionScheduler struct {
	registry IdleCloser
	maxIdle  time.Duration
	interval time.Duration
	logger   *logger.Logger
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewSessionScheduler 创建会话回收调度器，检查间隔取空闲时长的一半
func NewSessionScheduler(registry IdleCloser, maxIdle time.Duration, logger *logger.Logger) *SessionScheduler {
	interval := maxIdle / 2
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &SessionScheduler{
		registry: registry,
		maxIdle:  maxIdle,
		interval: interval,
		logger:   logger,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start 启动调度器
func (s *SessionScheduler) Start() {
	go s.idleScheduler()
	s.logger.Info("滑块回收调度器启动", "max_idle", s.maxIdle)
}

// Stop 停止调度器，可重复调用
func (s *SessionScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
		<-s.done
		s.logger.Info("滑块回收调度器停止")
	})
}

func (s *SessionScheduler) idleScheduler() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if n := s.registry.CloseIdle(ctx, s.maxIdle); n > 0 {
				s.logger.Info("已回收空闲滑块", "count", n)
			}
			cancel()
		case <-s.quit:
			return
		}
	}
}
