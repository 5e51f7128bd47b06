package workpool_test

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawdng/rawdng/internal/workpool"
)

func TestPoolRunsAllJobs(t *testing.T) {
	p := workpool.New(4)
	var n int32
	for i := 0; i < 100; i++ {
		p.Submit(func() error {
			atomic.AddInt32(&n, 1)
			return nil
		})
	}
	require.NoError(t, p.Wait())
	assert.EqualValues(t, 100, n)
}

func TestPoolPropagatesFirstError(t *testing.T) {
	p := workpool.New(2)
	sentinel := errors.New("boom")
	for i := 0; i < 10; i++ {
		i := i
		p.Submit(func() error {
			if i == 3 {
				return sentinel
			}
			return nil
		})
	}
	err := p.Wait()
	require.Error(t, err)
}

func TestRunPartitionsRowGroups(t *testing.T) {
	p := workpool.New(3)
	seen := make([]int32, 20)
	err := workpool.Run(p, 20, 4, func(start, end int) error {
		for i := start; i < end; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
		return nil
	})
	require.NoError(t, err)
	for i, v := range seen {
		assert.EqualValuesf(t, 1, v, "row %d processed %d times", i, v)
	}
}
