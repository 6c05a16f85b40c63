package waitpredict

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketqueue/queue-service/internal/domain"
)

func TestFixedEstimator_Estimate(t *testing.T) {
	tests := []struct {
		name        string
		perPerson   int
		queueLength int
		want        int
	}{
		{"empty queue", 15, 0, 15},
		{"three ahead", 15, 3, 60},
		{"custom rate", 10, 2, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewFixedEstimator(tt.perPerson)
			got, err := e.Estimate(context.Background(), tt.queueLength, "pickup")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewFixedEstimator_DefaultRate(t *testing.T) {
	for _, perPerson := range []int{0, -5} {
		e := NewFixedEstimator(perPerson)
		got, err := e.Estimate(context.Background(), 1, "")
		require.NoError(t, err)
		assert.Equal(t, 2*domain.DefaultPerPersonMinutes, got)
	}
}

func TestFixedEstimator_RecordServiceDurationIsNoop(t *testing.T) {
	e := NewFixedEstimator(15)
	assert.NoError(t, e.RecordServiceDuration(context.Background(), "pickup", 25))
}
