package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEach(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.NumWorkers = 4

	n := 1000
	seen := make([]int32, n)
	var counter int64

	Each(n, func(i int) {
		atomic.AddInt32(&seen[i], 1)
		atomic.AddInt64(&counter, 1)
	}, cfg)

	assert.Equal(t, int64(n), counter)
	for i, s := range seen {
		assert.Equal(t, int32(1), s, "index %d", i)
	}
}

func TestEach_Sequential(t *testing.T) {
	var order []int
	Each(5, func(i int) {
		order = append(order, i)
	}, Sequential())

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestEach_Disabled(t *testing.T) {
	cfg := Config{Enabled: false, NumWorkers: 8}

	var order []int
	Each(3, func(i int) {
		order = append(order, i)
	}, cfg)

	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestEach_Empty(t *testing.T) {
	called := false
	Each(0, func(int) { called = true }, DefaultConfig())
	assert.False(t, called)
}

func BenchmarkEach(b *testing.B) {
	cfg := DefaultConfig()
	n := 64

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			Each(n, func(j int) {
				atomic.AddInt64(&sum, int64(j))
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			Each(n, func(j int) {
				atomic.AddInt64(&sum, int64(j))
			}, Sequential())
		}
	})
}
