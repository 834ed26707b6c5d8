package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pitabwire/util"

	"github.com/pitabwire/typedtext/config"
)

var ErrPoolNotConfigured = errors.New("worker pool is not configured")

type manager struct {
	pool     WorkerPool
	stopOnce sync.Once
}

// NewManager builds the pool from configuration, then applies opts on top.
func NewManager(ctx context.Context, cfg config.ConfigurationWorkerPool, opts ...Option) (Manager, error) {
	log := util.Log(ctx)

	poolOpts := defaultWorkerPoolOpts(cfg, log)
	for _, opt := range opts {
		opt(poolOpts)
	}

	pool, err := setupWorkerPool(poolOpts)
	if err != nil {
		return nil, fmt.Errorf("could not create worker pool: %w", err)
	}

	return &manager{pool: pool}, nil
}

func (m *manager) GetPool() (WorkerPool, error) {
	if m.pool == nil {
		return nil, ErrPoolNotConfigured
	}
	return m.pool, nil
}

func (m *manager) Shutdown(_ context.Context) error {
	if m.pool == nil {
		return ErrPoolNotConfigured
	}
	m.stopOnce.Do(m.pool.Shutdown)
	return nil
}

// Go submits every fn and waits for all of them to finish. Submission stops at the
// first error, which is returned once the already running functions are done.
func Go(ctx context.Context, m Manager, fns ...func()) error {
	if m == nil {
		return errors.New("worker pool manager is nil")
	}

	pool, err := m.GetPool()
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	defer wg.Wait()

	for _, fn := range fns {
		wg.Add(1)
		submitErr := pool.Submit(ctx, func() {
			defer wg.Done()
			fn()
		})
		if submitErr != nil {
			wg.Done()
			return submitErr
		}
	}

	return nil
}
