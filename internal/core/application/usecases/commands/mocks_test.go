package commands_test

import (
	"context"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockCandidateSource struct{ mock.Mock }

func (m *MockCandidateSource) Candidates(
	ctx context.Context,
	pickup kernel.GeoPoint,
	radiusKm float64,
) ([]*courier.Candidate, error) {
	args := m.Called(ctx, pickup, radiusKm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Candidate), args.Error(1)
}

type MockZoneResolver struct{ mock.Mock }

func (m *MockZoneResolver) Resolve(ctx context.Context, point kernel.GeoPoint) (kernel.Zone, error) {
	args := m.Called(ctx, point)
	return args.Get(0).(kernel.Zone), args.Error(1)
}

type MockDeliveryStore struct{ mock.Mock }

func (m *MockDeliveryStore) CountActiveDeliveries(ctx context.Context, driverID kernel.UUID) (int, error) {
	args := m.Called(ctx, driverID)
	return args.Int(0), args.Error(1)
}

func (m *MockDeliveryStore) AssignDriver(ctx context.Context, orderID, driverID kernel.UUID) error {
	args := m.Called(ctx, orderID, driverID)
	return args.Error(0)
}

type MockAssignmentLedger struct{ mock.Mock }

func (m *MockAssignmentLedger) Record(ctx context.Context, record assignment.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAssignmentLedger) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]assignment.Record, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]assignment.Record), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) DeliveryStore() ports.DeliveryStore {
	args := m.Called()
	return args.Get(0).(ports.DeliveryStore)
}

func (m *MockUoW) AssignmentLedger() ports.AssignmentLedger {
	args := m.Called()
	return args.Get(0).(ports.AssignmentLedger)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() ports.UnitOfWork {
	args := m.Called()
	return args.Get(0).(ports.UnitOfWork)
}

type MockReserver struct{ mock.Mock }

func (m *MockReserver) Reserve(ctx context.Context, driverID kernel.UUID) (ports.Release, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.Release), args.Error(1)
}

type MockObserver struct{ mock.Mock }

func (m *MockObserver) ObserveAssignment(result assignment.Result, elapsed time.Duration) {
	m.Called(result, elapsed)
}

type MockOrderAssigner struct{ mock.Mock }

func (m *MockOrderAssigner) Handle(ctx context.Context, command commands.AssignOrderCommand) assignment.Result {
	args := m.Called(ctx, command)
	return args.Get(0).(assignment.Result)
}
