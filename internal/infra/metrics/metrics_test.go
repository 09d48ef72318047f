package metrics_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/metrics"
)

func TestCounters_ConcurrentIncrements(t *testing.T) {
	c := &metrics.Counters{}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.IncApproved()
			c.IncQueries()
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	require.Equal(t, uint64(50), snap.PaymentsApproved)
	require.Equal(t, uint64(50), snap.Queries)
	require.Zero(t, snap.AdapterFailures)
}

func TestCounters_NilIsSafe(t *testing.T) {
	var c *metrics.Counters
	c.IncApproved()
	c.IncEventsFailed()
	require.Equal(t, metrics.Snapshot{}, c.Snapshot())
}
