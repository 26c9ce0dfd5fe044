package memory

import (
	"context"
	"errors"
	"sync"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

var (
	ErrTransactionNotStarted     = errors.New("transaction is not started")
	ErrTransactionAlreadyStarted = errors.New("transaction is already started")
	ErrOrderAlreadyStaged        = errors.New("order is already assigned in this transaction")
)

type staged struct {
	orderID  kernel.UUID
	driverID kernel.UUID
}

// UnitOfWork buffers assignments and ledger records and applies them to the
// Store atomically on Commit. Reads see the committed state plus the writes
// staged in this unit.
type UnitOfWork struct {
	store *Store

	mu          sync.Mutex
	started     bool
	assignments []staged
	records     []assignment.Record
}

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

func (s *Store) Create() ports.UnitOfWork {
	return &UnitOfWork{store: s}
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.started {
		return ErrTransactionAlreadyStarted
	}
	u.started = true
	return nil
}

// Commit validates every staged assignment against the current state and
// applies all of them or none.
func (u *UnitOfWork) Commit(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.started {
		return ErrTransactionNotStarted
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	for _, a := range u.assignments {
		d, ok := u.store.deliveries[a.orderID]
		if !ok {
			return errs.NewObjectNotFoundError("orderId", a.orderID)
		}
		if err := d.status.ValidateAssign(); err != nil {
			return err
		}
	}
	for _, a := range u.assignments {
		if err := u.store.assignLocked(a.orderID, a.driverID); err != nil {
			return err
		}
	}
	u.store.records = append(u.store.records, u.records...)

	u.reset()
	return nil
}

// Rollback discards staged writes. Calling it after Commit is a no-op.
func (u *UnitOfWork) Rollback(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.reset()
	return nil
}

func (u *UnitOfWork) DeliveryStore() ports.DeliveryStore {
	return txDeliveryStore{u: u}
}

func (u *UnitOfWork) AssignmentLedger() ports.AssignmentLedger {
	return txLedger{u: u}
}

func (u *UnitOfWork) reset() {
	u.started = false
	u.assignments = nil
	u.records = nil
}

type txDeliveryStore struct{ u *UnitOfWork }

func (t txDeliveryStore) CountActiveDeliveries(_ context.Context, driverID kernel.UUID) (int, error) {
	t.u.mu.Lock()
	defer t.u.mu.Unlock()

	t.u.store.mu.RLock()
	count := t.u.store.countActiveLocked(driverID)
	t.u.store.mu.RUnlock()

	for _, a := range t.u.assignments {
		if a.driverID.IsEqual(driverID) {
			count++
		}
	}
	return count, nil
}

func (t txDeliveryStore) AssignDriver(_ context.Context, orderID, driverID kernel.UUID) error {
	t.u.mu.Lock()
	defer t.u.mu.Unlock()
	if !t.u.started {
		return ErrTransactionNotStarted
	}

	t.u.store.mu.RLock()
	d, ok := t.u.store.deliveries[orderID]
	var err error
	if !ok {
		err = errs.NewObjectNotFoundError("orderId", orderID)
	} else {
		err = d.status.ValidateAssign()
	}
	t.u.store.mu.RUnlock()
	if err != nil {
		return err
	}
	for _, a := range t.u.assignments {
		if a.orderID.IsEqual(orderID) {
			return ErrOrderAlreadyStaged
		}
	}

	t.u.assignments = append(t.u.assignments, staged{orderID: orderID, driverID: driverID})
	return nil
}

type txLedger struct{ u *UnitOfWork }

func (t txLedger) Record(_ context.Context, record assignment.Record) error {
	t.u.mu.Lock()
	defer t.u.mu.Unlock()
	if !t.u.started {
		return ErrTransactionNotStarted
	}
	t.u.records = append(t.u.records, record)
	return nil
}

func (t txLedger) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]assignment.Record, error) {
	return t.u.store.ListByOrder(ctx, orderID)
}
