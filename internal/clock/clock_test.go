package clock

import (
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
)

// TestSystem_AfterFunc verifies callbacks run after the delay and can be stopped.
func TestSystem_AfterFunc(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var (
			c       Clock = System{}
			fired   atomic.Int32
			stopped atomic.Int32
			start   = c.Now()
		)

		c.AfterFunc(time.Minute, func() { fired.Add(1) })
		timer := c.AfterFunc(2*time.Minute, func() { stopped.Add(1) })

		time.Sleep(time.Minute)
		synctest.Wait()

		require.Equal(t, int32(1), fired.Load())
		require.True(t, timer.Stop())

		time.Sleep(time.Hour)
		synctest.Wait()

		require.Equal(t, int32(0), stopped.Load())
		require.Equal(t, time.Minute+time.Hour, c.Now().Sub(start))
	})
}
