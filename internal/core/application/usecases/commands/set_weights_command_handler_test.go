package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestSetWeightsCommandHandler_Handle(t *testing.T) {
	registry := assignment.NewWeightRegistry(assignment.DefaultWeights())
	handler := commands.NewSetWeightsCommandHandler(registry, nil)

	t.Run("partial update is renormalized", func(t *testing.T) {
		cmd, err := commands.NewSetWeightsCommand(assignment.WeightsUpdate{Distance: ptr(0.60)})
		require.NoError(t, err)

		got, err := handler.Handle(t.Context(), cmd)

		require.NoError(t, err)
		assert.InDelta(t, 1.0, got.Sum(), 1e-9)
		assert.InDelta(t, 0.60/1.20, got.Distance, 1e-9)
		assert.InDelta(t, 0.25/1.20, got.Performance, 1e-9)
		assert.Equal(t, got, registry.Get())
	})

	t.Run("negative weight is rejected and registry is unchanged", func(t *testing.T) {
		before := registry.Get()
		cmd, err := commands.NewSetWeightsCommand(assignment.WeightsUpdate{Load: ptr(-0.1)})
		require.NoError(t, err)

		_, err = handler.Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Equal(t, before, registry.Get())
	})

	t.Run("not constructed", func(t *testing.T) {
		_, err := handler.Handle(t.Context(), commands.SetWeightsCommand{})
		require.ErrorIs(t, err, commands.ErrSetWeightsCommandIsNotConstructed)
	})
}

func TestNewSetWeightsCommand_RequiresAField(t *testing.T) {
	_, err := commands.NewSetWeightsCommand(assignment.WeightsUpdate{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewAssignOrderCommand(t *testing.T) {
	_, err := commands.NewAssignOrderCommand(nil, "nearest")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	o := newTestOrder(t, order.PriorityNormal)
	cmd, err := commands.NewAssignOrderCommand(o, "nearest")
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, "nearest", cmd.Algorithm())
	assert.Same(t, o, cmd.Order())
}
