package chime

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/cedargrove/windchimes/env"
)

/*

How a real wind chime behaves, roughly:

The harder the wind blows, the harder and the more often the clapper
hits the tubes. One gust usually rings a short run of neighbouring
tubes rather than one tube on its own, because the clapper swings
across the ring. So each strike decision is:

  * amplitude from the wind speed (0mph -> 0.40, 20mph+ -> 1.00)
  * delay until the next strike, inverse to the wind (2s down to 10ms)
    plus up to half a second of jitter so it never sounds mechanical
  * a random starting tube, a random run length (at most half the
    tubes), a random direction, and a short random gap between the
    notes of the run

The tubes hang in a ring, so a run that walks off one end of the scale
carries on from the other end.

*/

var (
	ErrInvalidWindSpeed = errors.New("invalid wind speed")
	ErrBadScale         = errors.New("bad scale")
)

// StrikeEvent is one note of a cluster. Delay is measured from the
// previous event, the first event of a cluster always has Delay zero.
type StrikeEvent struct {
	Index     int
	Amplitude float64
	Delay     time.Duration
}

// Cluster is the outcome of one strike decision. Delay is how long the
// caller should wait before striking again.
type Cluster struct {
	Events []StrikeEvent
	Delay  time.Duration
}

// Striker turns wind speed readings into chime clusters. It holds no
// state beyond the scale and its random source, every Strike call is
// independent.
type Striker struct {
	scale Scale
	rng   *rand.Rand
}

// NewStriker creates a striker for the given scale. Pass a seeded rng
// for reproducible output, or nil to seed from the clock.
func NewStriker(scale Scale, rng *rand.Rand) (*Striker, error) {
	if len(scale) == 0 {
		return nil, fmt.Errorf("%w: scale has no tubes", ErrBadScale)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Striker{scale: scale, rng: rng}, nil
}

// Strike decides one cluster for the given wind speed in mph.
// The draw order (jitter, start tube, run length, direction, note
// gaps) is fixed, so a given seed always produces the same clusters.
// No events are returned on error.
func (s *Striker) Strike(windSpeed float64) (Cluster, error) {
	if math.IsNaN(windSpeed) || windSpeed < 0 {
		return Cluster{}, fmt.Errorf("%w: [%v]", ErrInvalidWindSpeed, windSpeed)
	}
	if len(s.scale) == 0 {
		return Cluster{}, fmt.Errorf("%w: scale has no tubes", ErrBadScale)
	}

	amplitude := Amplitude(windSpeed)
	jitter := s.rng.Float64() * env.ClusterJitterSec
	delay := BaseDelay(windSpeed) + secondsToDuration(jitter)

	start := s.rng.Intn(len(s.scale))
	size := 1 + s.rng.Intn(maxClusterSize(len(s.scale)))
	step := 1
	if s.rng.Intn(2) == 1 {
		step = -1
	}

	events := make([]StrikeEvent, 0, size)
	index := start
	for i := 0; i < size; i++ {
		gap := time.Duration(0)
		if i > 0 {
			gapSec := env.NoteGapMinSec + s.rng.Float64()*(env.NoteGapMaxSec-env.NoteGapMinSec)
			gap = secondsToDuration(gapSec)
			index = wrapIndex(index+step, len(s.scale))
		}
		events = append(events, StrikeEvent{Index: index, Amplitude: amplitude, Delay: gap})
	}

	return Cluster{Events: events, Delay: delay}, nil
}

// Scale returns the tube set this striker was built for.
func (s *Striker) Scale() Scale {
	return s.scale
}

// Amplitude maps wind speed to strike volume, linear between the floor
// and full volume over the operating range.
func Amplitude(windSpeed float64) float64 {
	return lerp(env.AmplitudeMin, env.AmplitudeMax, normalize(windSpeed))
}

// BaseDelay is the pre-jitter wait between clusters, 2s in a dead calm
// shrinking to 10ms at the top of the range.
func BaseDelay(windSpeed float64) time.Duration {
	return secondsToDuration(lerp(env.ClusterDelayMaxSec, env.ClusterDelayMinSec, normalize(windSpeed)))
}

func maxClusterSize(tubes int) int {
	max := tubes / 2
	if max < 1 {
		// a single tube chime still strikes one note
		max = 1
	}
	return max
}

func normalize(windSpeed float64) float64 {
	if math.IsNaN(windSpeed) {
		return 0
	}
	return clamp(windSpeed/env.MaxWindSpeedMph, 0, 1)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func wrapIndex(x int, size int) int {
	if x >= size {
		return x - size
	}
	if x < 0 {
		return x + size
	}
	return x
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(math.Round(sec * float64(time.Second)))
}
