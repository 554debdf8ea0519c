package log_test

import (
	"bytes"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocraft/sldcat/pkg/log"
)

func TestCircularBufferWrite(t *testing.T) {
	t.Parallel()

	cb := log.NewCircularBuffer(3)

	n, err := cb.Write([]byte("one\n"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = cb.Write([]byte("two\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, cb.Len())
	assert.Equal(t, [][]byte{[]byte("one\n"), []byte("two\n")}, cb.Entries())
}

func TestCircularBufferOverwritesOldest(t *testing.T) {
	t.Parallel()

	cb := log.NewCircularBuffer(3)

	for i := range 5 {
		_, err := cb.Write([]byte(strconv.Itoa(i)))
		require.NoError(t, err)
	}

	assert.Equal(t, 3, cb.Len())
	assert.Equal(t, [][]byte{[]byte("2"), []byte("3"), []byte("4")}, cb.Entries())
}

func TestCircularBufferEmptyWrite(t *testing.T) {
	t.Parallel()

	cb := log.NewCircularBuffer(2)

	n, err := cb.Write(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, cb.Len())
}

func TestCircularBufferCopiesData(t *testing.T) {
	t.Parallel()

	cb := log.NewCircularBuffer(2)

	data := []byte("original")
	_, err := cb.Write(data)
	require.NoError(t, err)

	copy(data, "MUTATED!")

	assert.Equal(t, [][]byte{[]byte("original")}, cb.Entries())
}

func TestCircularBufferWriteTo(t *testing.T) {
	t.Parallel()

	cb := log.NewCircularBuffer(4)

	_, err := cb.Write([]byte("first\n"))
	require.NoError(t, err)
	_, err = cb.Write([]byte("second\n"))
	require.NoError(t, err)

	out := &bytes.Buffer{}

	n, err := cb.WriteTo(out)
	require.NoError(t, err)
	assert.Equal(t, int64(13), n)
	assert.Equal(t, "first\nsecond\n", out.String())
}

func TestCircularBufferConcurrent(t *testing.T) {
	t.Parallel()

	cb := log.NewCircularBuffer(16)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := cb.Write([]byte(strconv.Itoa(i)))
			assert.NoError(t, err)
		}()
	}

	wg.Wait()
	assert.Equal(t, 8, cb.Len())
}

func TestCircularBufferDefaultCapacity(t *testing.T) {
	t.Parallel()

	cb := log.NewCircularBuffer(0)

	for range 150 {
		_, err := cb.Write([]byte("x"))
		require.NoError(t, err)
	}

	assert.Equal(t, 100, cb.Len())
}
