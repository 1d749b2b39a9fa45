package sim

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/babeltower/internal/model"
	"github.com/udisondev/babeltower/internal/vec"
)

func TestRegisterMetrics(t *testing.T) {
	s := newSim(t)
	reg := prometheus.NewRegistry()
	require.NoError(t, s.RegisterMetrics(reg))

	s.SpawnMonster("Goblin", model.TierNormal, 1, vec.New(50, 50))
	s.Tick(0.1)

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.Error(t, s.RegisterMetrics(reg), "duplicate registration")
}
