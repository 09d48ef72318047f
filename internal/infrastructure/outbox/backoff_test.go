package outbox_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/outbox"
)

func TestBackoff_Delay(t *testing.T) {
	b := outbox.Backoff{Base: time.Second, Max: 10 * time.Second}

	require.Equal(t, time.Second, b.Delay(0))
	require.Equal(t, 2*time.Second, b.Delay(1))
	require.Equal(t, 4*time.Second, b.Delay(2))
	require.Equal(t, 8*time.Second, b.Delay(3))
	require.Equal(t, 10*time.Second, b.Delay(4))
	require.Equal(t, 10*time.Second, b.Delay(1000))
}
