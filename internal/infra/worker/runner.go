// File: internal/infra/worker/runner.go
package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Handle tracks a submitted job. Done is closed when the job returns; Err
// reports its terminal error, if any.
type Handle struct {
	OwnerID string

	mu   sync.Mutex
	err  error
	done chan struct{}
}

func (h *Handle) Done() <-chan struct{} { return h.done }

func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Runner owns one goroutine per submitted job and keeps the latest handle per
// owner. Submitting a new job for an owner replaces the previous handle
// (last-writer-wins, matching the progress contract); the superseded job still
// runs to completion.
type Runner struct {
	mu      sync.Mutex
	handles map[string]*Handle
	wg      sync.WaitGroup
	log     *zerolog.Logger
}

func NewRunner(logger *zerolog.Logger) *Runner {
	return &Runner{handles: make(map[string]*Handle), log: logger}
}

// Submit starts job on its own goroutine. The handle for the owner's latest
// job stays retrievable via Handle.
func (r *Runner) Submit(ctx context.Context, ownerID string, job func(ctx context.Context) error) {
	h := &Handle{OwnerID: ownerID, done: make(chan struct{})}

	r.mu.Lock()
	r.handles[ownerID] = h
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		err := job(ctx)
		h.mu.Lock()
		h.err = err
		h.mu.Unlock()
		close(h.done)
		if err != nil {
			r.log.Error().Str("owner_id", ownerID).Err(err).Msg("batch job finished with error")
		}
	}()
}

// Handle returns the latest handle for an owner, or nil.
func (r *Runner) Handle(ownerID string) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handles[ownerID]
}

// Wait blocks until every submitted job has returned. Used on shutdown.
func (r *Runner) Wait() { r.wg.Wait() }
