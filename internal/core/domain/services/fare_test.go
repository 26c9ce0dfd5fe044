package services_test

import (
	"testing"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFareCalculator_Quote(t *testing.T) {
	calc := services.DefaultFareCalculator()

	tests := []struct {
		name    string
		km      float64
		minutes int
		surge   float64
		want    services.Fare
	}{
		{
			name: "no surge", km: 6, minutes: 20, surge: 1.0,
			want: services.Fare{Base: 20, Distance: 48, Time: 20, Surge: 0, Total: 88},
		},
		{
			name: "fractional distance rounds up", km: 2.01, minutes: 7, surge: 1.0,
			want: services.Fare{Base: 20, Distance: 17, Time: 7, Surge: 0, Total: 44},
		},
		{
			name: "surge applies to subtotal", km: 6, minutes: 20, surge: 1.5,
			want: services.Fare{Base: 20, Distance: 48, Time: 20, Surge: 44, Total: 132},
		},
		{
			name: "zero trip pays base", km: 0, minutes: 0, surge: 1,
			want: services.Fare{Base: 20, Total: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.Quote(tt.km, tt.minutes, tt.surge)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFareCalculator_QuoteRejectsBadInput(t *testing.T) {
	calc := services.NewFareCalculator(10, 5, 2)

	_, err := calc.Quote(-1, 5, 1)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = calc.Quote(1, -5, 1)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = calc.Quote(1, 5, 0.9)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}
