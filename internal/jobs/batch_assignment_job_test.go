package jobs_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPendingOrderSource struct{ mock.Mock }

func (m *MockPendingOrderSource) ListPending(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockBatchAssigner struct{ mock.Mock }

func (m *MockBatchAssigner) Handle(ctx context.Context, cmd commands.AssignBatchCommand) (commands.BatchResults, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(commands.BatchResults), args.Error(1)
}

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(),
		kernel.MustGeoPoint(17.40, 78.47), kernel.MustGeoPoint(17.45, 78.50), 10, 250, order.PriorityNormal)
	require.NoError(t, err)
	return o
}

func TestBatchAssignmentJob_RunOnce(t *testing.T) {
	first, second := newOrder(t), newOrder(t)
	pending := new(MockPendingOrderSource)
	pending.On("ListPending", mock.Anything, 20).Return([]*order.Order{first, second}, nil)

	assigner := new(MockBatchAssigner)
	assigner.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AssignBatchCommand) bool {
		return len(cmd.Orders()) == 2
	})).Return(commands.BatchResults{
		first.ID().String():  assignment.Succeeded(first.ID(), assignment.SmartRouting, assignment.Score{DriverID: kernel.NewUUID()}, nil, 1),
		second.ID().String(): assignment.Failed(second.ID(), assignment.SmartRouting, assignment.ReasonAllDriversAtLimit, 1),
	}, nil)

	job := jobs.NewBatchAssignmentJob(pending, assigner, "", 20, nil)

	assigned, failed := job.RunOnce(t.Context())

	assert.Equal(t, 1, assigned)
	assert.Equal(t, 1, failed)
	pending.AssertExpectations(t)
	assigner.AssertExpectations(t)
}

func TestBatchAssignmentJob_RunOnce_NothingToDo(t *testing.T) {
	pending := new(MockPendingOrderSource)
	pending.On("ListPending", mock.Anything, jobs.DefaultPendingLimit).Return([]*order.Order{}, nil).Once()
	pending.On("ListPending", mock.Anything, jobs.DefaultPendingLimit).Return(nil, errors.New("connection refused")).Once()
	assigner := new(MockBatchAssigner)

	job := jobs.NewBatchAssignmentJob(pending, assigner, "", 0, nil)

	assigned, failed := job.RunOnce(t.Context())
	assert.Zero(t, assigned)
	assert.Zero(t, failed)

	assigned, failed = job.RunOnce(t.Context())
	assert.Zero(t, assigned)
	assert.Zero(t, failed)

	assigner.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestBatchAssignmentJob_StartRunsOnSchedule(t *testing.T) {
	var calls atomic.Int32
	pending := new(MockPendingOrderSource)
	pending.On("ListPending", mock.Anything, jobs.DefaultPendingLimit).
		Run(func(mock.Arguments) { calls.Add(1) }).
		Return([]*order.Order{}, nil)

	job := jobs.NewBatchAssignmentJob(pending, new(MockBatchAssigner), "* * * * * *", 0, nil)
	require.NoError(t, job.Start())
	defer job.Stop()

	assert.Eventually(t, func() bool { return calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestBatchAssignmentJob_InvalidSchedule(t *testing.T) {
	job := jobs.NewBatchAssignmentJob(new(MockPendingOrderSource), new(MockBatchAssigner), "every five seconds", 0, nil)

	require.Error(t, job.Start())
}

type fakeJob struct {
	startErr error
	events   *[]string
	name     string
}

func (f fakeJob) Start() error {
	*f.events = append(*f.events, "start "+f.name)
	return f.startErr
}

func (f fakeJob) Stop() {
	*f.events = append(*f.events, "stop "+f.name)
}

func TestJobManager(t *testing.T) {
	t.Run("starts in order and stops in reverse", func(t *testing.T) {
		var events []string
		manager := jobs.NewJobManager()
		manager.Add("a", fakeJob{name: "a", events: &events})
		manager.Add("b", fakeJob{name: "b", events: &events})

		require.NoError(t, manager.StartAll())
		manager.StopAll()
		manager.StopAll()

		assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, events)
	})

	t.Run("failed start stops the jobs already running", func(t *testing.T) {
		var events []string
		manager := jobs.NewJobManager()
		manager.Add("a", fakeJob{name: "a", events: &events})
		manager.Add("b", fakeJob{name: "b", events: &events, startErr: errors.New("bad schedule")})

		err := manager.StartAll()

		require.ErrorContains(t, err, "failed to start b job")
		assert.Equal(t, []string{"start a", "start b", "stop a"}, events)
	})
}
