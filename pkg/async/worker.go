package async

import (
	"context"
	"errors"
	"sync"
	"time"

	"k8s.io/apimachinery/pkg/util/rand"

	"announceslider/pkg/logger"
)

// ErrStopped 工作器已停止，不再接收任务
var ErrStopped = errors.New("async worker stopped")

// Task 表示一个异步任务；失败不重试
type Task struct {
	ID      string
	Handler func(ctx context.Context) error
	Timeout time.Duration
}

// Worker 有界队列 + 固定数量协程的异步任务处理器
type Worker struct {
	taskQueue chan Task
	ctx       context.Context
	cancel    context.CancelFunc
	logger    *logger.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewWorker 创建工作器，queueSize 为待处理任务上限
func NewWorker(queueSize int, log *logger.Logger) *Worker {
	if queueSize < 1 {
		queueSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		taskQueue: make(chan Task, queueSize),
		ctx:       ctx,
		cancel:    cancel,
		logger:    log,
	}
}

// Start 启动 numWorkers 个处理协程
func (w *Worker) Start(numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		w.wg.Add(1)
		go w.processTask()
	}
}

// Stop 停止接收新任务，等待队列中的任务处理完毕
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.taskQueue)
	w.mu.Unlock()

	w.wg.Wait()
	w.cancel()
}

// Submit 非阻塞提交任务，队列已满返回 false
func (w *Worker) Submit(task Task) (bool, error) {
	if task.ID == "" {
		task.ID = "task_" + rand.String(8)
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return false, ErrStopped
	}

	select {
	case w.taskQueue <- task:
		return true, nil
	default:
		w.logger.Warn("异步任务队列已满，丢弃任务", "task_id", task.ID)
		return false, nil
	}
}

// Go 以默认参数提交一个函数
func (w *Worker) Go(name string, fn func(ctx context.Context) error) bool {
	ok, err := w.Submit(Task{ID: name + "_" + rand.String(8), Handler: fn})
	return ok && err == nil
}

func (w *Worker) processTask() {
	defer w.wg.Done()
	for task := range w.taskQueue {
		w.executeTask(task)
	}
}

func (w *Worker) executeTask(task Task) {
	ctx := w.ctx
	if task.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, task.Timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("异步任务崩溃", "task_id", task.ID, "panic", r)
		}
	}()

	if err := task.Handler(ctx); err != nil {
		w.logger.Error("异步任务失败", "task_id", task.ID, "error", err)
		return
	}
	w.logger.Debug("异步任务完成", "task_id", task.ID, "duration", time.Since(start))
}
