package workerpool

import (
	"context"
)

// Manager owns the pool shared by concurrent import runs.
type Manager interface {
	GetPool() (WorkerPool, error)
	Shutdown(context.Context) error
}

// WorkerPool defines the common methods for worker pool operations.
// This allows the manager to hold either a single ants.Pool or an ants.MultiPool.
type WorkerPool interface {
	Submit(ctx context.Context, task func()) error
	Shutdown()
}
