// Package memory holds in-process adapters for the assignment ports. They back
// local runs without Postgres and the engine's concurrency tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

type delivery struct {
	order    *order.Order
	status   order.Status
	driverID *kernel.UUID
}

// Store keeps drivers, deliveries and ledger records in memory. It is safe for
// concurrent use. Store itself writes straight through; Create returns units
// of work that stage writes until Commit.
type Store struct {
	mu         sync.RWMutex
	drivers    []*courier.Driver
	deliveries map[kernel.UUID]*delivery
	orderSeq   []kernel.UUID
	records    []assignment.Record
}

var (
	_ ports.DriverDirectory    = (*Store)(nil)
	_ ports.DeliveryStore      = (*Store)(nil)
	_ ports.PendingOrderSource = (*Store)(nil)
	_ ports.AssignmentLedger   = (*Store)(nil)
	_ ports.UnitOfWorkFactory  = (*Store)(nil)
	_ ports.OrderIntake        = (*Store)(nil)
	_ ports.DriverRegistry     = (*Store)(nil)
)

func NewStore() *Store {
	return &Store{deliveries: map[kernel.UUID]*delivery{}}
}

// PutDriver adds d or replaces the driver with the same id.
func (s *Store) PutDriver(d *courier.Driver) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.drivers {
		if existing.ID().IsEqual(d.ID()) {
			s.drivers[i] = d
			return nil
		}
	}
	s.drivers = append(s.drivers, d)
	return nil
}

// PutOrder stores o in status with an optional driver.
func (s *Store) PutOrder(o *order.Order, status order.Status, driverID *kernel.UUID) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := status.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.deliveries[o.ID()]; !ok {
		s.orderSeq = append(s.orderSeq, o.ID())
	}
	s.deliveries[o.ID()] = &delivery{order: o, status: status, driverID: driverID}
	return nil
}

func (s *Store) SaveDriver(_ context.Context, d *courier.Driver) error {
	return s.PutDriver(d)
}

// AddPending stores o as pending. An order id can be taken only once.
func (s *Store) AddPending(_ context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.deliveries[o.ID()]; ok {
		return errs.NewValueIsInvalidErrorWithCause("orderId", fmt.Errorf("order %s already exists", o.ID()))
	}
	s.orderSeq = append(s.orderSeq, o.ID())
	s.deliveries[o.ID()] = &delivery{order: o, status: order.StatusPending}
	return nil
}

// Delivery returns the status and driver of orderID.
func (s *Store) Delivery(orderID kernel.UUID) (order.Status, *kernel.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.deliveries[orderID]
	if !ok {
		return order.StatusUnknown, nil, errs.NewObjectNotFoundError("orderId", orderID)
	}
	return d.status, d.driverID, nil
}

func (s *Store) ListEligibleDrivers(_ context.Context) ([]*courier.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*courier.Driver, 0, len(s.drivers))
	for _, d := range s.drivers {
		if d.IsEligible() {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Store) CountActiveDeliveries(_ context.Context, driverID kernel.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countActiveLocked(driverID), nil
}

func (s *Store) AssignDriver(_ context.Context, orderID, driverID kernel.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignLocked(orderID, driverID)
}

func (s *Store) ListPending(_ context.Context, limit int) ([]*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*order.Order, 0)
	for _, id := range s.orderSeq {
		if limit > 0 && len(out) == limit {
			break
		}
		if d := s.deliveries[id]; d.status == order.StatusPending {
			out = append(out, d.order)
		}
	}
	return out, nil
}

func (s *Store) Record(_ context.Context, record assignment.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *Store) ListByOrder(_ context.Context, orderID kernel.UUID) ([]assignment.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]assignment.Record, 0)
	for _, r := range s.records {
		if r.OrderID.IsEqual(orderID) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Records returns every ledger record, oldest first.
func (s *Store) Records() []assignment.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

func (s *Store) countActiveLocked(driverID kernel.UUID) int {
	count := 0
	for _, d := range s.deliveries {
		if d.driverID != nil && d.driverID.IsEqual(driverID) && d.status.IsActive() {
			count++
		}
	}
	return count
}

func (s *Store) assignLocked(orderID, driverID kernel.UUID) error {
	d, ok := s.deliveries[orderID]
	if !ok {
		return errs.NewObjectNotFoundError("orderId", orderID)
	}
	if err := d.status.ValidateAssign(); err != nil {
		return fmt.Errorf("assign order %s: %w", orderID, err)
	}
	d.status = order.StatusAssigned
	d.driverID = &driverID
	return nil
}
