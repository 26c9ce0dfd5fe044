package memory

import (
	"context"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// Reserver grants per-driver holds inside one process. Each driver has a
// one-slot semaphore; waiting callers give up when their context ends.
type Reserver struct {
	mu    sync.Mutex
	slots map[kernel.UUID]chan struct{}
}

var _ ports.DriverReserver = (*Reserver)(nil)

func NewReserver() *Reserver {
	return &Reserver{slots: map[kernel.UUID]chan struct{}{}}
}

func (r *Reserver) Reserve(ctx context.Context, driverID kernel.UUID) (ports.Release, error) {
	if ctx.Err() != nil {
		return nil, ports.ErrDriverReserved
	}
	slot := r.slot(driverID)

	select {
	case slot <- struct{}{}:
	case <-ctx.Done():
		return nil, ports.ErrDriverReserved
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() { <-slot })
		return nil
	}, nil
}

func (r *Reserver) slot(driverID kernel.UUID) chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[driverID]
	if !ok {
		slot = make(chan struct{}, 1)
		r.slots[driverID] = slot
	}
	return slot
}
