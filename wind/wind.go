package wind

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/cedargrove/windchimes/env"
	logger "github.com/sirupsen/logrus"
)

// Source supplies the current wind speed in mph. Implementations own
// their retries and failure handling, Fetch either returns a good
// reading or an error.
type Source interface {
	Fetch(ctx context.Context) (float64, error)
}

// Fixed is a constant source for test mode, no network needed.
type Fixed float64

func (f Fixed) Fetch(_ context.Context) (float64, error) {
	return float64(f), nil
}

// Poller refreshes the wind speed from a Source on a coarse timer and
// caches the latest value. The chime loop reads the cache thousands of
// times between refreshes, so the handoff is a single atomic word,
// written only here, never blocking the reader.
type Poller struct {
	source    Source
	period    time.Duration
	speedBits atomic.Uint64
	onRefresh func(speed float64)
}

func NewPoller(source Source, period time.Duration) *Poller {
	return &Poller{source: source, period: period}
}

// OnRefresh installs a hook run after every successful fetch. Set it
// before Start.
func (p *Poller) OnRefresh(fn func(speed float64)) {
	p.onRefresh = fn
}

// Start fetches once immediately, then on every period tick until the
// context is cancelled.
func (p *Poller) Start(ctx context.Context) {
	logger.Infof("Starting wind poller, period [%v]", p.period)
	p.refresh(ctx)
	ticker := time.NewTicker(p.period)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.refresh(ctx)
		case <-ctx.Done():
			logger.Info("Wind poller stopped")
			return
		}
	}
}

// Speed returns the most recent good reading. Stale values are fine,
// the chimes would rather ring on old wind than fall silent.
func (p *Poller) Speed() float64 {
	return math.Float64frombits(p.speedBits.Load())
}

func (p *Poller) refresh(ctx context.Context) {
	fctx, cancel := context.WithTimeout(ctx, env.FetchTimeout)
	defer cancel()

	speed, err := p.source.Fetch(fctx)
	if err != nil {
		logger.Errorf("Wind refresh failed, keeping [%.1f] mph [%v]", p.Speed(), err)
		return
	}
	if math.IsNaN(speed) || speed < 0 {
		logger.Errorf("Wind source returned garbage [%v], keeping [%.1f] mph", speed, p.Speed())
		return
	}
	p.speedBits.Store(math.Float64bits(speed))
	logger.Infof("Wind speed [%.1f] mph", speed)
	if p.onRefresh != nil {
		p.onRefresh(speed)
	}
}
