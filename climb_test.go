package serpwall_test

import (
	"testing"

	"github.com/fwojciec/serpwall"
	"github.com/stretchr/testify/assert"
)

// chain builds a synthetic tree where node i's parent is i-1 and node 1 is
// the root. Node 0 stands for "no node".
func chain(n int) func(int) (int, bool) {
	return func(i int) (int, bool) {
		if i <= 1 || i > n {
			return 0, false
		}
		return i - 1, true
	}
}

func TestClimb(t *testing.T) {
	t.Parallel()

	t.Run("returns first matching ancestor", func(t *testing.T) {
		t.Parallel()

		got, ok := serpwall.Climb(10, chain(10), func(i int) bool { return i == 7 }, 18, 0)

		assert.True(t, ok)
		assert.Equal(t, 7, got)
	})

	t.Run("start node itself may match", func(t *testing.T) {
		t.Parallel()

		got, ok := serpwall.Climb(10, chain(10), func(i int) bool { return i == 10 }, 18, 0)

		assert.True(t, ok)
		assert.Equal(t, 10, got)
	})

	t.Run("boundary child wins over deeper match", func(t *testing.T) {
		t.Parallel()

		// Node 4 is the boundary, so node 5 is its direct child.
		got, ok := serpwall.Climb(10, chain(10), func(i int) bool { return i == 3 }, 18, 4)

		assert.True(t, ok)
		assert.Equal(t, 5, got)
	})

	t.Run("boundary check precedes match at the same step", func(t *testing.T) {
		t.Parallel()

		got, ok := serpwall.Climb(10, chain(10), func(i int) bool { return i == 9 }, 18, 9)

		assert.True(t, ok)
		assert.Equal(t, 10, got)
	})

	t.Run("fails when depth is exhausted", func(t *testing.T) {
		t.Parallel()

		_, ok := serpwall.Climb(30, chain(30), func(i int) bool { return i == 5 }, 18, 0)

		assert.False(t, ok)
	})

	t.Run("fails when chain ends", func(t *testing.T) {
		t.Parallel()

		_, ok := serpwall.Climb(5, chain(5), func(int) bool { return false }, 18, 0)

		assert.False(t, ok)
	})

	t.Run("never inspects more than max depth nodes", func(t *testing.T) {
		t.Parallel()

		var inspected []int
		match := func(i int) bool {
			inspected = append(inspected, i)
			return false
		}

		_, ok := serpwall.Climb(100, chain(100), match, 18, 0)

		assert.False(t, ok)
		assert.Len(t, inspected, 18)
		assert.Equal(t, 100, inspected[0])
		assert.Equal(t, 83, inspected[17])
	})
}
