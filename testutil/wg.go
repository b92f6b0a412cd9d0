package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// WaitGroupWithTimeout fails the test unless wg is done within timeout.
func WaitGroupWithTimeout(t testing.TB, wg *sync.WaitGroup, timeout time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	require.Eventually(t, func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, timeout, time.Millisecond, "WaitGroup not done after %s", timeout)
}
