package devwatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pilebones/go-udev/netlink"
)

func drmEvent(action netlink.KObjAction, devname string) netlink.UEvent {
	env := map[string]string{"SUBSYSTEM": "drm", "ACTION": string(action)}
	if devname != "" {
		env["DEVNAME"] = devname
	}
	return netlink.UEvent{Action: action, KObj: "/devices/pci0000:00/0000:00:02.0/drm/" + devname, Env: env}
}

func TestMatcherSelectsDRMAddRemove(t *testing.T) {
	m := matcher()
	if err := m.Compile(); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !m.Evaluate(drmEvent(netlink.ADD, "dri/renderD128")) {
		t.Fatal("expected drm add to match")
	}
	if !m.Evaluate(drmEvent(netlink.REMOVE, "dri/card1")) {
		t.Fatal("expected drm remove to match")
	}
	if m.Evaluate(drmEvent(netlink.CHANGE, "dri/card0")) {
		t.Fatal("expected drm change to be ignored")
	}
	block := netlink.UEvent{Action: netlink.ADD, Env: map[string]string{"SUBSYSTEM": "block", "DEVNAME": "sr0"}}
	if m.Evaluate(block) {
		t.Fatal("expected block events to be ignored")
	}
}

func TestEventFrom(t *testing.T) {
	event, ok := eventFrom(drmEvent(netlink.ADD, "dri/renderD129"))
	if !ok || event.Device != "/dev/dri/renderD129" || event.Action != "add" {
		t.Fatalf("unexpected event %+v ok=%v", event, ok)
	}
	if _, ok := eventFrom(drmEvent(netlink.ADD, "")); ok {
		t.Fatal("connector events without DEVNAME must be dropped")
	}
}

type recorder struct {
	mu      sync.Mutex
	batches [][]Event
	fired   chan struct{}
}

func (r *recorder) handle(_ context.Context, events []Event) {
	r.mu.Lock()
	r.batches = append(r.batches, events)
	r.mu.Unlock()
	r.fired <- struct{}{}
}

func TestLoopDebouncesBursts(t *testing.T) {
	rec := &recorder{fired: make(chan struct{}, 4)}
	m := New(nil, 200*time.Millisecond, rec.handle)

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.loop(context.Background(), quit, queue, errs)
	}()

	queue <- drmEvent(netlink.ADD, "dri/card1")
	queue <- drmEvent(netlink.ADD, "")
	queue <- drmEvent(netlink.ADD, "dri/renderD129")
	errs <- context.DeadlineExceeded

	select {
	case <-rec.fired:
	case <-time.After(5 * time.Second):
		t.Fatal("handler never fired")
	}

	queue <- drmEvent(netlink.REMOVE, "dri/renderD129")
	select {
	case <-rec.fired:
	case <-time.After(5 * time.Second):
		t.Fatal("second batch never fired")
	}
	close(quit)
	<-done

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(rec.batches))
	}
	first := rec.batches[0]
	if len(first) != 2 || first[0].Device != "/dev/dri/card1" || first[1].Device != "/dev/dri/renderD129" {
		t.Fatalf("unexpected first batch %+v", first)
	}
	if second := rec.batches[1]; len(second) != 1 || second[0].Action != "remove" {
		t.Fatalf("unexpected second batch %+v", second)
	}
}

func TestLoopStopsOnContext(t *testing.T) {
	m := New(nil, time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.loop(ctx, make(chan struct{}), make(chan netlink.UEvent), make(chan error))
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop on context cancellation")
	}
}

func TestStopWithoutStartIsSafe(t *testing.T) {
	m := New(nil, 0, nil)
	if m.debounce != DefaultDebounce {
		t.Fatalf("expected default debounce, got %v", m.debounce)
	}
	m.Stop()
	if m.Running() {
		t.Fatal("expected monitor stopped")
	}
}
