package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/armaan-gp-school/ossf-scada/internal/metrics"
	"github.com/armaan-gp-school/ossf-scada/internal/repo"
)

// Poller evaluates the whole registered fleet on a fixed interval. Devices
// are independent (each property touches only its own marker row), so
// per-device passes run concurrently up to Concurrency.
type Poller struct {
	Logger       *zap.Logger
	Devices      repo.DeviceStore
	Orchestrator *Orchestrator
	Interval     time.Duration
	Timeout      time.Duration
	Concurrency  int
}

func NewPoller(
	logger *zap.Logger,
	devices repo.DeviceStore,
	orch *Orchestrator,
	interval time.Duration,
	timeout time.Duration,
	concurrency int,
) *Poller {
	if concurrency < 1 {
		concurrency = 1
	}
	if interval < 0 {
		interval = 0
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Poller{
		Logger:       logger,
		Devices:      devices,
		Orchestrator: orch,
		Interval:     interval,
		Timeout:      timeout,
		Concurrency:  concurrency,
	}
}

// Run starts the loop. It does an immediate pass, then runs each tick.
// Stops when ctx is cancelled. Interval 0 disables the loop entirely
// (evaluation then only happens through the API).
func (p *Poller) Run(ctx context.Context) {
	if p.Interval == 0 {
		p.Logger.Info("poller_disabled")
		return
	}
	t := time.NewTicker(p.Interval)
	defer t.Stop()

	p.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			p.Logger.Info("poller_stopped")
			return
		case <-t.C:
			p.runOnce(ctx)
		}
	}
}

func (p *Poller) runOnce(ctx context.Context) {
	devs, err := p.Devices.ListDevices(ctx)
	if err != nil {
		p.Logger.Warn("poller_list_error", zap.Error(err))
		return
	}
	if len(devs) == 0 {
		return
	}

	sem := make(chan struct{}, p.Concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	totalAlerts := 0

	for _, dev := range devs {
		d := dev
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()

			cctx, cancel := context.WithTimeout(ctx, p.Timeout)
			defer cancel()

			res := p.Orchestrator.EvaluateDevice(cctx, d, true)

			mu.Lock()
			totalAlerts += res.AlertCount
			mu.Unlock()

			p.Logger.Debug("device_evaluated",
				zap.String("device_id", string(d.ID)),
				zap.Int("alerts", res.AlertCount),
			)
		}()
	}

	wg.Wait()
	metrics.ActiveAlerts.Set(float64(totalAlerts))
}
