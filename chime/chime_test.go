package chime

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/cedargrove/windchimes/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStriker(t *testing.T, seed int64) *Striker {
	t.Helper()
	scale, err := ScaleByName("pentatonic")
	require.NoError(t, err)
	s, err := NewStriker(scale, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return s
}

func Test_Amplitude(t *testing.T) {
	assert.Equal(t, 0.40, Amplitude(0))
	assert.Equal(t, 1.00, Amplitude(env.MaxWindSpeedMph))
	// over range clamps, not extrapolates
	assert.Equal(t, 1.00, Amplitude(55))

	// monotonic and bounded across the range
	prev := 0.0
	for ws := 0.0; ws <= env.MaxWindSpeedMph; ws += 0.25 {
		a := Amplitude(ws)
		assert.GreaterOrEqual(t, a, prev)
		assert.GreaterOrEqual(t, a, 0.40)
		assert.LessOrEqual(t, a, 1.00)
		prev = a
	}
}

func Test_BaseDelay(t *testing.T) {
	assert.Equal(t, 2*time.Second, BaseDelay(0))
	assert.Equal(t, 10*time.Millisecond, BaseDelay(env.MaxWindSpeedMph))
	assert.Equal(t, 10*time.Millisecond, BaseDelay(55))

	prev := 3 * time.Second
	for ws := 0.0; ws <= env.MaxWindSpeedMph; ws += 0.25 {
		d := BaseDelay(ws)
		assert.LessOrEqual(t, d, prev)
		assert.GreaterOrEqual(t, d, 10*time.Millisecond)
		assert.LessOrEqual(t, d, 2*time.Second)
		prev = d
	}
}

func Test_Strike_ClusterShape(t *testing.T) {
	s := newTestStriker(t, 42)

	sawThree := false
	for i := 0; i < 500; i++ {
		cluster, err := s.Strike(rand.New(rand.NewSource(int64(i))).Float64() * env.MaxWindSpeedMph)
		require.NoError(t, err)

		// six tubes, so never more than three notes in a run
		require.GreaterOrEqual(t, len(cluster.Events), 1)
		require.LessOrEqual(t, len(cluster.Events), 3)
		if len(cluster.Events) == 3 {
			sawThree = true
		}

		// every note lands on a real tube and shares the amplitude
		amp := cluster.Events[0].Amplitude
		for j, ev := range cluster.Events {
			require.GreaterOrEqual(t, ev.Index, 0)
			require.Less(t, ev.Index, 6)
			require.Equal(t, amp, ev.Amplitude)
			if j == 0 {
				require.Equal(t, time.Duration(0), ev.Delay)
			} else {
				require.GreaterOrEqual(t, ev.Delay, 100*time.Millisecond)
				require.Less(t, ev.Delay, 500*time.Millisecond)
			}
		}

		// cluster pacing stays inside base delay plus jitter
		require.GreaterOrEqual(t, cluster.Delay, 10*time.Millisecond)
		require.LessOrEqual(t, cluster.Delay, 2500*time.Millisecond)
	}
	assert.True(t, sawThree, "never saw a full half-scale run")
}

func Test_Strike_RunsAreAdjacent(t *testing.T) {
	s := newTestStriker(t, 7)

	wrapped := false
	for i := 0; i < 500; i++ {
		cluster, err := s.Strike(12)
		require.NoError(t, err)
		for j := 1; j < len(cluster.Events); j++ {
			prev := cluster.Events[j-1].Index
			cur := cluster.Events[j].Index
			diff := cur - prev
			// tubes hang in a ring: steps off either end wrap around
			ok := diff == 1 || diff == -1 || diff == 5 || diff == -5
			require.True(t, ok, "non adjacent step %v -> %v", prev, cur)
			if diff == 5 || diff == -5 {
				wrapped = true
			}
		}
	}
	assert.True(t, wrapped, "expected at least one run to wrap the ring")
}

func Test_Strike_Deterministic(t *testing.T) {
	a := newTestStriker(t, 99)
	b := newTestStriker(t, 99)

	for i := 0; i < 50; i++ {
		ws := float64(i % 21)
		ca, err := a.Strike(ws)
		require.NoError(t, err)
		cb, err := b.Strike(ws)
		require.NoError(t, err)
		require.Equal(t, ca, cb)
	}
}

func Test_Strike_InvalidInput(t *testing.T) {
	s := newTestStriker(t, 1)

	cluster, err := s.Strike(-1)
	require.ErrorIs(t, err, ErrInvalidWindSpeed)
	assert.Empty(t, cluster.Events)

	cluster, err = s.Strike(math.NaN())
	require.ErrorIs(t, err, ErrInvalidWindSpeed)
	assert.Empty(t, cluster.Events)
}

func Test_Strike_EmptyScale(t *testing.T) {
	_, err := NewStriker(Scale{}, nil)
	require.ErrorIs(t, err, ErrBadScale)

	// a zero value striker must not panic either
	var s Striker
	_, err = s.Strike(5)
	require.ErrorIs(t, err, ErrBadScale)
}

func Test_Strike_SingleTube(t *testing.T) {
	scale, err := NewScale("A4")
	require.NoError(t, err)
	s, err := NewStriker(scale, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		cluster, err := s.Strike(10)
		require.NoError(t, err)
		require.Len(t, cluster.Events, 1)
		require.Equal(t, 0, cluster.Events[0].Index)
	}
}

func Test_maxClusterSize(t *testing.T) {
	assert.Equal(t, 1, maxClusterSize(1))
	assert.Equal(t, 1, maxClusterSize(2))
	assert.Equal(t, 1, maxClusterSize(3))
	assert.Equal(t, 2, maxClusterSize(4))
	assert.Equal(t, 3, maxClusterSize(6))
	assert.Equal(t, 4, maxClusterSize(8))
}

func Test_wrapIndex(t *testing.T) {
	assert.Equal(t, 0, wrapIndex(6, 6))
	assert.Equal(t, 5, wrapIndex(-1, 6))
	assert.Equal(t, 3, wrapIndex(3, 6))
}
