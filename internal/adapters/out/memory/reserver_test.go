package memory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserver_ExclusivePerDriver(t *testing.T) {
	r := memory.NewReserver()
	driverID := kernel.NewUUID()

	release, err := r.Reserve(t.Context(), driverID)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	_, err = r.Reserve(ctx, driverID)
	require.ErrorIs(t, err, ports.ErrDriverReserved)

	// Other drivers are unaffected.
	otherRelease, err := r.Reserve(t.Context(), kernel.NewUUID())
	require.NoError(t, err)
	require.NoError(t, otherRelease(t.Context()))

	require.NoError(t, release(t.Context()))
	require.NoError(t, release(t.Context()), "second release is a no-op")

	again, err := r.Reserve(t.Context(), driverID)
	require.NoError(t, err)
	require.NoError(t, again(t.Context()))
}

func TestReserver_WaitersAreSerialized(t *testing.T) {
	r := memory.NewReserver()
	driverID := kernel.NewUUID()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := r.Reserve(context.Background(), driverID)
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			assert.NoError(t, release(context.Background()))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestReserver_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := memory.NewReserver().Reserve(ctx, kernel.NewUUID())
	require.ErrorIs(t, err, ports.ErrDriverReserved)
}
