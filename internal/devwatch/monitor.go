package devwatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pilebones/go-udev/netlink"

	"hwscan/internal/logging"
)

// DefaultDebounce is used when New is given a non-positive debounce.
const DefaultDebounce = 750 * time.Millisecond

// Event is one matched uevent.
type Event struct {
	Action string
	Device string
}

// Handler receives a batch of events in arrival order.
type Handler func(ctx context.Context, events []Event)

// Monitor watches the drm subsystem.
type Monitor struct {
	logger   *slog.Logger
	debounce time.Duration
	onChange Handler

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	done    chan struct{}
	running bool
}

// New returns a stopped Monitor.
func New(logger *slog.Logger, debounce time.Duration, onChange Handler) *Monitor {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Monitor{
		logger:   logging.NewComponentLogger(logger, "devwatch"),
		debounce: debounce,
		onChange: onChange,
	}
}

// Start connects to the udev netlink socket and begins delivering events.
// Starting a running monitor is a no-op.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	rules := matcher()
	if err := rules.Compile(); err != nil {
		return fmt.Errorf("compile drm matcher: %w", err)
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return fmt.Errorf("connect udev netlink socket: %w", err)
	}

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, rules)

	m.conn = conn
	m.quit = make(chan struct{})
	m.done = make(chan struct{})
	m.running = true

	quit, done := m.quit, m.done
	go func() {
		defer close(done)
		defer close(monitorQuit)
		m.loop(ctx, quit, queue, errs)
	}()

	m.logger.Info("drm monitor started",
		logging.String(logging.FieldEventType, "devwatch_started"),
		logging.Duration("debounce", m.debounce),
	)
	return nil
}

// Stop shuts the monitor down and waits for an in-flight handler to return.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	close(m.quit)
	done := m.done
	conn := m.conn
	m.conn, m.quit, m.done = nil, nil, nil
	m.running = false
	m.mu.Unlock()

	<-done
	if conn != nil {
		_ = conn.Close()
	}
	m.logger.Info("drm monitor stopped", logging.String(logging.FieldEventType, "devwatch_stopped"))
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) loop(ctx context.Context, quit <-chan struct{}, queue <-chan netlink.UEvent, errs <-chan error) {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending []Event
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-quit:
			return
		case uevent := <-queue:
			event, ok := eventFrom(uevent)
			if !ok {
				continue
			}
			m.logger.Debug("drm uevent",
				logging.String("action", event.Action),
				logging.String(logging.FieldDevice, event.Device),
			)
			pending = append(pending, event)
			if timer == nil {
				timer = time.NewTimer(m.debounce)
			} else {
				timer.Reset(m.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			batch := pending
			pending = nil
			if m.onChange != nil {
				m.onChange(ctx, batch)
			}
		case err := <-errs:
			logging.WarnWithContext(m.logger, "netlink monitor error", "devwatch_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"),
				logging.String(logging.FieldImpact, "hotplug rescans may be missed"),
			)
		}
	}
}

// matcher selects drm add and remove uevents.
func matcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "drm",
		},
	})
	return rules
}

// eventFrom keeps uevents that name a device node. Connector events of the
// drm subsystem carry no DEVNAME and are dropped.
func eventFrom(uevent netlink.UEvent) (Event, bool) {
	devname := uevent.Env["DEVNAME"]
	if devname == "" {
		return Event{}, false
	}
	if devname[0] != '/' {
		devname = "/dev/" + devname
	}
	return Event{Action: string(uevent.Action), Device: devname}, true
}
