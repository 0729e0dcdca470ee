package keylock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_SerializesSameKey(t *testing.T) {
	table := New()
	var (
		inside  int32
		maxSeen int32
		wg      sync.WaitGroup
	)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := table.Lock(context.Background(), "REQ123")
			require.NoError(t, err)
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxSeen)
				if n <= m || atomic.CompareAndSwapInt32(&maxSeen, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen)
	assert.Equal(t, 0, table.Len())
}

func TestTable_DifferentKeysDoNotContend(t *testing.T) {
	table := New()

	unlockA, err := table.Lock(context.Background(), "A")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	unlockB, err := table.Lock(ctx, "B")
	require.NoError(t, err)
	unlockB()

	assert.Equal(t, 1, table.Len())
}

func TestTable_RespectsContext(t *testing.T) {
	table := New()

	unlock, err := table.Lock(context.Background(), "REQ1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = table.Lock(ctx, "REQ1")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	assert.Equal(t, 0, table.Len())
}

func TestTable_UnlockIsIdempotent(t *testing.T) {
	table := New()

	unlock, err := table.Lock(context.Background(), "REQ1")
	require.NoError(t, err)
	unlock()
	unlock()

	unlock, err = table.Lock(context.Background(), "REQ1")
	require.NoError(t, err)
	unlock()
	assert.Equal(t, 0, table.Len())
}
