package bench

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/kocubinski/tree23"
)

// TreeContext carries the logger, metrics and limits of a workload run.
type TreeContext struct {
	context.Context

	Log              zerolog.Logger
	VersionLimit     int64
	MetricOpCount    prometheus.Counter
	MetricTreeSize   prometheus.Gauge
	MetricTreeHeight prometheus.Gauge
}

// NewTreeContext returns a run context with metrics registered on reg.
// reg may be nil to leave the metrics unregistered.
func NewTreeContext(ctx context.Context, log zerolog.Logger, reg prometheus.Registerer) *TreeContext {
	c := &TreeContext{
		Context: ctx,
		Log:     log,
		MetricOpCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tree23",
			Name:      "bench_op_count",
			Help:      "Total set/delete operations applied to the tree.",
		}),
		MetricTreeSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tree23",
			Name:      "bench_tree_size",
			Help:      "Number of keys in the tree after the run.",
		}),
		MetricTreeHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tree23",
			Name:      "bench_tree_height",
			Help:      "Height of the tree after the run.",
		}),
	}
	if reg != nil {
		reg.MustRegister(c.MetricOpCount, c.MetricTreeSize, c.MetricTreeHeight)
	}
	return c
}

// Build streams a generated changeset directly into the map.
func (c *TreeContext) Build(m *tree23.Map[string, string], gen ChangesetGenerator) error {
	itr, err := gen.Iterator()
	if err != nil {
		return err
	}

	cnt := 1
	since := time.Now()
	for ; itr.Valid(); err = itr.Next() {
		if err != nil {
			return err
		}
		if c.VersionLimit > 0 && itr.Version > c.VersionLimit {
			break
		}
		if err := c.applyOp(m, itr.Op); err != nil {
			return err
		}
		cnt++
		if cnt%100_000 == 0 {
			c.Log.Info().Msgf("processed %s ops in %s; %s ops/s; version=%d",
				humanize.Comma(int64(cnt)),
				time.Since(since),
				humanize.Comma(int64(100_000/time.Since(since).Seconds())),
				itr.Version)
			since = time.Now()
		}
	}

	c.finish(m)
	return nil
}

// Replay applies changeset files from dataDir version by version, up
// to targetVersion (or all versions when targetVersion is 0).
func (c *TreeContext) Replay(m *tree23.Map[string, string], dataDir string, targetVersion int64) error {
	info, err := readChangesetInfo(dataDir)
	if err != nil {
		return err
	}
	if targetVersion <= 0 || targetVersion > info.Versions {
		targetVersion = info.Versions
	}

	c.Log.Info().Int64("target_version", targetVersion).Msg("starting replay")
	for version := int64(1); version <= targetVersion; version++ {
		if err := c.replayVersion(m, dataDir, version); err != nil {
			return fmt.Errorf("error applying version %d: %w", version, err)
		}
	}

	c.finish(m)
	return nil
}

func (c *TreeContext) replayVersion(m *tree23.Map[string, string], dataDir string, version int64) error {
	ops, err := readVersionOps(dataDir, version)
	if err != nil {
		return err
	}

	start := time.Now()
	for i := range ops {
		if err := c.applyOp(m, &ops[i]); err != nil {
			return fmt.Errorf("error at entry %d applying op: %w", i, err)
		}
	}
	duration := time.Since(start)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	c.Log.Info().
		Int64("version", version).
		Int("count", len(ops)).
		Dur("duration", duration).
		Float64("ops_per_sec", float64(len(ops))/duration.Seconds()).
		Str("mem_allocs", humanize.Bytes(memStats.Alloc)).
		Str("mem_sys", humanize.Bytes(memStats.Sys)).
		Msg("applied version")
	return nil
}

func (c *TreeContext) applyOp(m *tree23.Map[string, string], op *Op) error {
	c.MetricOpCount.Inc()
	if op.Delete {
		if !m.Delete(op.Key) {
			return fmt.Errorf("failed to remove key %q; version %d", op.Key, op.Version)
		}
		return nil
	}
	m.Set(op.Key, op.Value)
	return nil
}

func (c *TreeContext) finish(m *tree23.Map[string, string]) {
	c.MetricTreeSize.Set(float64(m.Len()))
	c.MetricTreeHeight.Set(float64(m.Height()))
	c.Log.Info().
		Str("size", humanize.Comma(int64(m.Len()))).
		Int("height", m.Height()).
		Msg("run complete")
}
