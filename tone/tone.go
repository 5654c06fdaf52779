package tone

import (
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/generators"
	"github.com/faiface/beep/speaker"

	"github.com/cedargrove/windchimes/chime"
	"github.com/cedargrove/windchimes/env"
	logger "github.com/sirupsen/logrus"
)

// Engine sounds one tube. Play is fire and forget, the strike loop
// never waits on audio.
type Engine interface {
	Play(noteIndex int, amplitude float64)
}

// Noop swallows strikes. Used when running muted and in tests.
type Noop struct{}

func (Noop) Play(_ int, _ float64) {}

// Beep synthesizes tubes with the beep speaker. Each strike is its own
// streamer so overlapping tubes ring together like a real chime.
type Beep struct {
	sampleRate beep.SampleRate
	scale      chime.Scale
	ring       time.Duration
}

func NewBeep(scale chime.Scale) (*Beep, error) {
	sr := beep.SampleRate(env.SampleRate)
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &Beep{sampleRate: sr, scale: scale, ring: env.RingDuration}, nil
}

func (b *Beep) Play(noteIndex int, amplitude float64) {
	if noteIndex < 0 || noteIndex >= len(b.scale) {
		logger.Errorf("No such tube [%v]", noteIndex)
		return
	}
	note := b.scale[noteIndex]
	tone, err := generators.SinTone(b.sampleRate, int(note.Frequency))
	if err != nil {
		logger.Errorf("Failed to build tone for [%v] [%v]", note.Name, err)
		return
	}
	total := b.sampleRate.N(b.ring)
	speaker.Play(&strike{streamer: beep.Take(total, tone), total: total, gain: amplitude})
	logger.Debugf("Struck [%v] at [%.2f]", note.Name, amplitude)
}

// strike shapes a raw sine into something tube-like: full volume at
// the hit, quadratic decay to silence over the ring time.
type strike struct {
	streamer beep.Streamer
	total    int
	pos      int
	gain     float64
}

func (s *strike) Stream(samples [][2]float64) (int, bool) {
	n, ok := s.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		remain := 1.0 - float64(s.pos)/float64(s.total)
		k := s.gain * remain * remain
		samples[i][0] *= k
		samples[i][1] *= k
		s.pos++
	}
	return n, ok
}

func (s *strike) Err() error {
	return s.streamer.Err()
}
