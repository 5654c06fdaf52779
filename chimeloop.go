package main

import (
	"context"
	"time"

	"github.com/cedargrove/windchimes/chime"
	"github.com/cedargrove/windchimes/chimedb"
	"github.com/cedargrove/windchimes/env"

	logger "github.com/sirupsen/logrus"
)

// StartChimeLoop runs forever: strike a cluster for the cached wind
// speed, wait out the cluster delay, strike again. A failed strike
// skips the cycle rather than taking the unit down, the next wind
// refresh usually clears it.
func (c *chimestation) StartChimeLoop(ctx context.Context) {
	logger.Info("Chime loop started")
	for {
		cluster, err := c.striker.Strike(c.poller.Speed())
		if err != nil {
			logger.Errorf("Strike skipped [%v]", err)
			if !sleep(ctx, env.StrikeRetryDelay) {
				return
			}
			continue
		}

		for _, ev := range cluster.Events {
			if ev.Delay > 0 && !sleep(ctx, ev.Delay) {
				return
			}
			c.engine.Play(ev.Index, ev.Amplitude)
		}

		c.recordCluster(ctx, cluster)

		if !sleep(ctx, cluster.Delay) {
			return
		}
	}
}

// startupSweep rings every tube once in hanging order, the power-on
// self test the original garden unit always did.
func (c *chimestation) startupSweep() {
	logger.Info("Scale sweep")
	for i := range c.striker.Scale() {
		c.engine.Play(i, env.AmplitudeMax)
		time.Sleep(env.SweepNoteGap)
	}
}

func (c *chimestation) recordCluster(ctx context.Context, cluster chime.Cluster) {
	size := len(cluster.Events)
	c.clusters.Add(1)
	c.notes.Add(uint64(size))

	Prom_strikeClusters.Inc()
	Prom_strikeNotes.Add(float64(size))
	Prom_clusterSize.Set(float64(size))
	c.data.GetBuffer("clusterSize").AddItem(float64(size))

	if c.pub != nil {
		c.pub.publishCluster(cluster, c.poller.Speed())
	}
	if c.db != nil {
		rec := chimedb.ClusterRecord{
			StruckAt:    time.Now(),
			WindSpeed:   c.poller.Speed(),
			Amplitude:   cluster.Events[0].Amplitude,
			ClusterSize: size,
			StartIndex:  cluster.Events[0].Index,
		}
		if err := c.db.WriteCluster(ctx, rec); err != nil {
			logger.Errorf("Failed to write strike record [%v]", err)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
