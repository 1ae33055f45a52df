package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/armaan-gp-school/ossf-scada/internal/domain"
	"github.com/armaan-gp-school/ossf-scada/internal/notify"
	"github.com/armaan-gp-school/ossf-scada/internal/repo/memory"
)

// ---- fakes ----

type fakeSource struct {
	mu    sync.Mutex
	thing *domain.Thing
	err   error
}

func (f *fakeSource) GetThing(ctx context.Context, id string) (*domain.Thing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.thing
	return &cp, nil
}

func (f *fakeSource) setValue(propIdx int, v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.thing.Properties[propIdx].LastValue = v
}

type fakeNotifier struct {
	mu    sync.Mutex
	sends int
	res   notify.Result
	last  notify.SendOptions
}

func (f *fakeNotifier) SendAlert(ctx context.Context, override string, opts notify.SendOptions) notify.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends++
	f.last = opts
	return f.res
}

func newOrchestrator(src *fakeSource, nt *fakeNotifier) (*Orchestrator, *memory.Store) {
	store := memory.New()
	return &Orchestrator{
		Logger:     zap.NewNop(),
		Source:     src,
		Thresholds: store,
		Markers:    store,
		History:    store,
		Notifier:   nt,
	}, store
}

func floatThing(value any) *domain.Thing {
	return &domain.Thing{
		ID:   "D1",
		Name: "Lift station",
		Properties: []domain.Property{
			{ID: "p1", Name: "Voltage", Type: "FLOAT", LastValue: value},
		},
	}
}

var dev = domain.Device{ID: "D1", Name: "Lift station"}

// ---- tests ----

func TestEpisode_SuppressThenReset(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{thing: floatThing(4.0)}
	nt := &fakeNotifier{res: notify.Result{Success: true, Recipients: 1}}
	orch, store := newOrchestrator(src, nt)

	// onset: alert detected, send attempted, marker created
	res := orch.EvaluateDevice(ctx, dev, true)
	if res.AlertCount != 1 || !res.Alerts[0].InAlert {
		t.Fatalf("want alert, got %+v", res)
	}
	if nt.sends != 1 {
		t.Fatalf("want 1 send, got %d", nt.sends)
	}
	if has, _ := store.HasMarker(ctx, "D1", "p1"); !has {
		t.Fatal("marker should exist after successful send")
	}

	// same alert again: suppressed
	res = orch.EvaluateDevice(ctx, dev, true)
	if res.AlertCount != 1 {
		t.Fatalf("still in alert: %+v", res)
	}
	if nt.sends != 1 {
		t.Fatalf("duplicate send not suppressed: %d", nt.sends)
	}

	// value returns to range: marker cleared, no send
	src.setValue(0, 3.2)
	res = orch.EvaluateDevice(ctx, dev, true)
	if res.AlertCount != 0 || res.Alerts[0].InAlert {
		t.Fatalf("want cleared, got %+v", res)
	}
	if has, _ := store.HasMarker(ctx, "D1", "p1"); has {
		t.Fatal("marker should be cleared once back in range")
	}

	// new episode: notification fires again
	src.setValue(0, 4.0)
	orch.EvaluateDevice(ctx, dev, true)
	if nt.sends != 2 {
		t.Fatalf("new episode should notify again, got %d sends", nt.sends)
	}
}

func TestEpisode_FailedSendRetriesNextPass(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{thing: floatThing(4.0)}
	nt := &fakeNotifier{res: notify.Result{Success: false, Error: "relay down"}}
	orch, store := newOrchestrator(src, nt)

	orch.EvaluateDevice(ctx, dev, true)
	if nt.sends != 1 {
		t.Fatalf("want attempt, got %d", nt.sends)
	}
	if has, _ := store.HasMarker(ctx, "D1", "p1"); has {
		t.Fatal("failed send must not create a marker")
	}

	// transport recovers; the next pass retries and marks
	nt.res = notify.Result{Success: true, Recipients: 1}
	orch.EvaluateDevice(ctx, dev, true)
	if nt.sends != 2 {
		t.Fatalf("want retry, got %d", nt.sends)
	}
	if has, _ := store.HasMarker(ctx, "D1", "p1"); !has {
		t.Fatal("marker should exist after the retry succeeds")
	}
}

func TestFetchFailureYieldsEmptyResult(t *testing.T) {
	src := &fakeSource{err: errors.New("registry unreachable")}
	nt := &fakeNotifier{}
	orch, _ := newOrchestrator(src, nt)

	res := orch.EvaluateDevice(context.Background(), dev, true)
	if len(res.Alerts) != 0 || res.AlertCount != 0 {
		t.Fatalf("want empty result, got %+v", res)
	}
	if nt.sends != 0 {
		t.Fatal("no sends on fetch failure")
	}
}

func TestNonNumericPropertiesSkipped(t *testing.T) {
	src := &fakeSource{thing: &domain.Thing{
		ID: "D1",
		Properties: []domain.Property{
			{ID: "s1", Type: "STATUS", LastValue: "WAY OUT OF RANGE"},
			{ID: "p1", Type: "FLOAT", LastValue: 3.2},
		},
	}}
	nt := &fakeNotifier{}
	orch, store := newOrchestrator(src, nt)

	res := orch.EvaluateDevice(context.Background(), dev, true)
	if len(res.Alerts) != 1 || res.Alerts[0].PropertyID != "p1" {
		t.Fatalf("only numeric properties should appear: %+v", res)
	}
	if has, _ := store.HasMarker(context.Background(), "D1", "s1"); has {
		t.Fatal("no marker traffic for inert properties")
	}
}

func TestCustomThresholdOverridesDefaults(t *testing.T) {
	ctx := context.Background()
	// 3.2 is inside the FLOAT defaults but outside [10, 20]
	src := &fakeSource{thing: floatThing(3.2)}
	nt := &fakeNotifier{res: notify.Result{Success: true}}
	orch, store := newOrchestrator(src, nt)
	if err := store.SetThreshold(ctx, "D1", "p1", domain.ThresholdRange{Min: 10, Max: 20}); err != nil {
		t.Fatal(err)
	}

	res := orch.EvaluateDevice(ctx, dev, true)
	if res.AlertCount != 1 {
		t.Fatalf("custom threshold should fire: %+v", res)
	}
	if nt.last.PropertyName != "Voltage" || nt.last.DeviceName != "Lift station" {
		t.Fatalf("send options: %+v", nt.last)
	}
}

func TestReadOnlyPassTouchesNothing(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{thing: floatThing(4.0)}
	nt := &fakeNotifier{res: notify.Result{Success: true}}
	orch, store := newOrchestrator(src, nt)

	res := orch.EvaluateDevice(ctx, dev, false)
	if res.AlertCount != 1 {
		t.Fatalf("alert should still be reported: %+v", res)
	}
	if nt.sends != 0 {
		t.Fatal("read-only pass must not send")
	}
	if has, _ := store.HasMarker(ctx, "D1", "p1"); has {
		t.Fatal("read-only pass must not create markers")
	}
}

func TestHistoryRecordsAttempts(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{thing: floatThing(4.0)}
	nt := &fakeNotifier{res: notify.Result{Success: false, Error: "boom"}}
	orch, store := newOrchestrator(src, nt)

	orch.EvaluateDevice(ctx, dev, true)
	nt.res = notify.Result{Success: true, Recipients: 2}
	orch.EvaluateDevice(ctx, dev, true)

	evs, err := store.RecentEvents(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 2 {
		t.Fatalf("want 2 history rows, got %d", len(evs))
	}
	// newest first
	if !evs[0].Success || evs[0].Recipients != 2 || evs[0].Value != "4" {
		t.Fatalf("unexpected success row: %+v", evs[0])
	}
	if evs[1].Success || evs[1].Error != "boom" {
		t.Fatalf("unexpected failure row: %+v", evs[1])
	}
}
