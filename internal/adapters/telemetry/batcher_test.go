package telemetry_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stage/internal/adapters/telemetry"
)

type flushes struct {
	mu     sync.Mutex
	chunks []string
}

func (f *flushes) add(b []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chunks = append(f.chunks, string(b))
}

func (f *flushes) get() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.chunks...)
}

func TestLogBatcher_SizeLimit(t *testing.T) {
	var got flushes
	b := telemetry.NewLogBatcher(4, time.Hour, got.add)

	_, err := b.Write([]byte("ab"))
	require.NoError(t, err)
	assert.Empty(t, got.get())

	_, err = b.Write([]byte("cd"))
	require.NoError(t, err)
	assert.Equal(t, []string{"abcd"}, got.get())

	require.NoError(t, b.Close())
}

func TestLogBatcher_TimeLimit(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var got flushes
		b := telemetry.NewLogBatcher(0, 50*time.Millisecond, got.add)

		_, err := b.Write([]byte("partial"))
		require.NoError(t, err)

		time.Sleep(49 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, got.get())

		time.Sleep(2 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, []string{"partial"}, got.get())

		require.NoError(t, b.Close())
	})
}

func TestLogBatcher_Close(t *testing.T) {
	var got flushes
	b := telemetry.NewLogBatcher(0, time.Hour, got.add)

	_, err := b.Write([]byte("tail"))
	require.NoError(t, err)
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	assert.Equal(t, []string{"tail"}, got.get())

	_, err = b.Write([]byte("late"))
	assert.ErrorIs(t, err, telemetry.ErrBatcherClosed)
	b.Flush()
	assert.Equal(t, []string{"tail"}, got.get())
}
