package prometheus

import (
	"context"
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/taskpool/taskpool/core"
)

// PoolSnapshotProvider provides current pool stats snapshots.
type PoolSnapshotProvider interface {
	Stats() core.PoolStats
}

// SnapshotPoller periodically exports pool Stats() snapshots and per-level
// monitor Progress() snapshots into Prometheus gauges. It is the scrape-side
// rendition of an observer polling the framework on a timer.
type SnapshotPoller struct {
	interval time.Duration

	poolsMu sync.RWMutex
	pools   map[string]PoolSnapshotProvider

	monitorsMu sync.RWMutex
	monitors   map[string]*core.Monitor

	poolQueued  *prom.GaugeVec
	poolActive  *prom.GaugeVec
	poolWorkers *prom.GaugeVec
	poolRunning *prom.GaugeVec

	monitorWorkDone  *prom.GaugeVec
	monitorTotalWork *prom.GaugeVec
	monitorElapsed   *prom.GaugeVec
	monitorState     *prom.GaugeVec

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a snapshot poller and registers its collectors.
func NewSnapshotPoller(reg prom.Registerer, interval time.Duration) (*SnapshotPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if interval <= 0 {
		interval = time.Second
	}

	poolQueued := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "taskpool",
		Name:      "pool_queued",
		Help:      "Queued tasks per pool.",
	}, []string{"pool"})
	poolActive := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "taskpool",
		Name:      "pool_active",
		Help:      "Active tasks per pool.",
	}, []string{"pool"})
	poolWorkers := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "taskpool",
		Name:      "pool_workers",
		Help:      "Worker count per pool.",
	}, []string{"pool"})
	poolRunning := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "taskpool",
		Name:      "pool_running",
		Help:      "Pool accepting work (1=running, 0=shut down).",
	}, []string{"pool"})

	monitorWorkDone := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "taskpool",
		Name:      "monitor_work_done",
		Help:      "Work done per monitor level.",
	}, []string{"monitor", "level"})
	monitorTotalWork := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "taskpool",
		Name:      "monitor_total_work",
		Help:      "Total work target per monitor level.",
	}, []string{"monitor", "level"})
	monitorElapsed := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "taskpool",
		Name:      "monitor_elapsed_seconds",
		Help:      "Elapsed seconds per monitor level, 0 while unstarted.",
	}, []string{"monitor", "level"})
	monitorState := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: "taskpool",
		Name:      "monitor_state",
		Help:      "Mirrored task state per monitor (0=ready 1=running 2=succeeded 3=cancelled 4=failed).",
	}, []string{"monitor"})

	var err error
	if poolQueued, err = registerCollector(reg, poolQueued); err != nil {
		return nil, err
	}
	if poolActive, err = registerCollector(reg, poolActive); err != nil {
		return nil, err
	}
	if poolWorkers, err = registerCollector(reg, poolWorkers); err != nil {
		return nil, err
	}
	if poolRunning, err = registerCollector(reg, poolRunning); err != nil {
		return nil, err
	}
	if monitorWorkDone, err = registerCollector(reg, monitorWorkDone); err != nil {
		return nil, err
	}
	if monitorTotalWork, err = registerCollector(reg, monitorTotalWork); err != nil {
		return nil, err
	}
	if monitorElapsed, err = registerCollector(reg, monitorElapsed); err != nil {
		return nil, err
	}
	if monitorState, err = registerCollector(reg, monitorState); err != nil {
		return nil, err
	}

	return &SnapshotPoller{
		interval:         interval,
		pools:            make(map[string]PoolSnapshotProvider),
		monitors:         make(map[string]*core.Monitor),
		poolQueued:       poolQueued,
		poolActive:       poolActive,
		poolWorkers:      poolWorkers,
		poolRunning:      poolRunning,
		monitorWorkDone:  monitorWorkDone,
		monitorTotalWork: monitorTotalWork,
		monitorElapsed:   monitorElapsed,
		monitorState:     monitorState,
	}, nil
}

// AddPool adds or replaces a pool snapshot provider by name.
func (p *SnapshotPoller) AddPool(name string, provider PoolSnapshotProvider) {
	if p == nil || provider == nil {
		return
	}
	name = normalizeLabel(name, "pool")
	p.poolsMu.Lock()
	p.pools[name] = provider
	p.poolsMu.Unlock()
}

// AddMonitor adds or replaces a monitor by name. Every level of the monitor
// is exported.
func (p *SnapshotPoller) AddMonitor(name string, monitor *core.Monitor) {
	if p == nil || monitor == nil {
		return
	}
	name = normalizeLabel(name, "monitor")
	p.monitorsMu.Lock()
	p.monitors[name] = monitor
	p.monitorsMu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if p.running {
		p.stateMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	p.stateMu.Unlock()

	go p.loop(pollCtx)
}

// Stop stops periodic polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	if p == nil {
		return
	}

	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel := p.cancel
	done := p.done
	p.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	p.stateMu.Lock()
	p.running = false
	p.cancel = nil
	p.done = nil
	p.stateMu.Unlock()
}

func (p *SnapshotPoller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.collectOnce()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.collectOnce()
		}
	}
}

func (p *SnapshotPoller) collectOnce() {
	p.poolsMu.RLock()
	for name, provider := range p.pools {
		stats := provider.Stats()
		p.poolQueued.WithLabelValues(name).Set(float64(stats.Queued))
		p.poolActive.WithLabelValues(name).Set(float64(stats.Active))
		p.poolWorkers.WithLabelValues(name).Set(float64(stats.Workers))
		if stats.Running {
			p.poolRunning.WithLabelValues(name).Set(1)
		} else {
			p.poolRunning.WithLabelValues(name).Set(0)
		}
	}
	p.poolsMu.RUnlock()

	p.monitorsMu.RLock()
	for name, monitor := range p.monitors {
		for i := 0; i < monitor.Size(); i++ {
			snapshot := monitor.Progress(i)
			level := strconv.Itoa(i)
			p.monitorWorkDone.WithLabelValues(name, level).Set(float64(snapshot.WorkDone))
			p.monitorTotalWork.WithLabelValues(name, level).Set(float64(snapshot.TotalWork))
			p.monitorElapsed.WithLabelValues(name, level).Set(snapshot.Elapsed.Seconds())
		}
		p.monitorState.WithLabelValues(name).Set(float64(monitor.State()))
	}
	p.monitorsMu.RUnlock()
}
