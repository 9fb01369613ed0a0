package frame

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Loop is the single serialized execution context for the framework. All
// scene dispatch, component hooks and input flips run on its goroutine, so
// framework state needs no further locking.
type Loop struct {
	log     *zap.Logger
	tasks   chan func()
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

func NewLoop(bufferSize int, log *zap.Logger) *Loop {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	if log == nil {
		log = zap.NewNop()
	}
	l := &Loop{
		log:   log,
		tasks: make(chan func(), bufferSize),
	}
	l.ctx, l.cancel = context.WithCancel(context.Background())
	return l
}

// Start launches the loop goroutine.
func (l *Loop) Start() {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		for {
			select {
			case <-l.ctx.Done():
				return
			case task := <-l.tasks:
				task()
			}
		}
	}()
}

// Stop terminates the loop and waits for the goroutine to exit. Queued
// tasks that have not started are discarded.
func (l *Loop) Stop() {
	l.cancel()
	l.wg.Wait()
}

// Post submits a task without blocking the caller. When the queue is full
// the task is dropped and false returned.
func (l *Loop) Post(task func()) bool {
	select {
	case l.tasks <- task:
		return true
	default:
		l.dropped.Add(1)
		l.log.Debug("loop queue full, task dropped")
		return false
	}
}

// DroppedTasks reports how many posts were shed due to a full queue.
func (l *Loop) DroppedTasks() uint64 { return l.dropped.Load() }
