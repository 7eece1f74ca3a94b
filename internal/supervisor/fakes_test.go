package supervisor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/a2dpsink/internal/model"
)

// harness wires a Supervisor to in-memory fakes that append to one shared
// event log, so tests can assert the exact order of platform calls.
type harness struct {
	events   []string
	registry *fakeRegistry
	factory  *fakeFactory
	reporter *fakeReporter
	sup      *Supervisor
	ctx      context.Context
	cancel   context.CancelFunc
}

func (h *harness) record(format string, args ...any) {
	h.events = append(h.events, fmt.Sprintf(format, args...))
}

// count returns how many events equal name.
func (h *harness) count(name string) int {
	n := 0
	for _, e := range h.events {
		if e == name {
			n++
		}
	}
	return n
}

func newHarness(t *testing.T, target string, polls [][]model.Device, creates ...createResult) *harness {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := &harness{ctx: ctx, cancel: cancel}
	h.registry = &fakeRegistry{h: h, polls: polls}
	h.factory = &fakeFactory{h: h, results: creates}
	h.reporter = &fakeReporter{}
	// By default the link drops as soon as it is reported connected.
	h.reporter.onConnected = func(model.Device) {
		h.factory.last.fire(model.StateClosed)
	}

	sup, err := New(Options{DeviceName: target, Selector: "sink-uuid"}, h.registry, h.factory, h.reporter, nil)
	require.NoError(t, err)
	sup.SetSleeper(func(ctx context.Context, d time.Duration) error {
		h.record("sleep %s", d)
		return ctx.Err()
	})
	h.sup = sup
	return h
}

// run executes the supervisor until the fakes cancel it.
func (h *harness) run(t *testing.T) {
	t.Helper()
	err := h.sup.Run(h.ctx)
	require.ErrorIs(t, err, context.Canceled)
}

type fakeRegistry struct {
	h        *harness
	polls    [][]model.Device
	err      error
	calls    int
	selector string
}

// FindAll returns the next scripted poll. Once the script is exhausted it
// cancels the run and reports no devices.
func (r *fakeRegistry) FindAll(ctx context.Context, selector string) ([]model.Device, error) {
	r.calls++
	r.selector = selector
	r.h.record("scan")
	if r.err != nil {
		return nil, r.err
	}
	if r.calls > len(r.polls) {
		r.h.cancel()
		return nil, nil
	}
	return r.polls[r.calls-1], nil
}

type createResult struct {
	conn *fakeConnection
	err  error
}

type fakeFactory struct {
	h       *harness
	results []createResult
	calls   int
	ids     []string
	last    *fakeConnection
}

func (f *fakeFactory) Create(ctx context.Context, deviceID string) (Connection, error) {
	f.calls++
	f.ids = append(f.ids, deviceID)
	f.h.record("create %s", deviceID)
	if f.calls > len(f.results) {
		return nil, errors.New("unexpected create")
	}
	res := f.results[f.calls-1]
	if res.err != nil {
		return nil, res.err
	}
	if res.conn == nil {
		return nil, nil
	}
	res.conn.h = f.h
	f.last = res.conn
	return res.conn, nil
}

type fakeConnection struct {
	h        *harness
	startErr error
	openErr  error
	result   model.OpenResult

	state        model.ConnectionState
	listeners    map[int]func(model.ConnectionState)
	nextID       int
	subscribed   int
	unsubscribed int
	closes       int
}

func (c *fakeConnection) Start(ctx context.Context) error {
	c.h.record("start")
	return c.startErr
}

func (c *fakeConnection) Open(ctx context.Context) (model.OpenResult, error) {
	c.h.record("open")
	if c.openErr != nil {
		return model.OpenResult{Status: model.OpenUnknownFailure}, c.openErr
	}
	if c.result.Succeeded() {
		c.state = model.StateOpen
	}
	return c.result, nil
}

func (c *fakeConnection) State() model.ConnectionState {
	return c.state
}

func (c *fakeConnection) OnStateChanged(fn func(model.ConnectionState)) func() {
	c.subscribed++
	c.h.record("subscribe")
	if c.listeners == nil {
		c.listeners = make(map[int]func(model.ConnectionState))
	}
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.unsubscribed++
		c.h.record("unsubscribe")
		delete(c.listeners, id)
	}
}

func (c *fakeConnection) Close() error {
	c.closes++
	c.h.record("close")
	return nil
}

func (c *fakeConnection) fire(state model.ConnectionState) {
	c.state = state
	for _, fn := range c.listeners {
		fn(state)
	}
}

type fakeReporter struct {
	scans        int
	ticks        int
	found        []model.Device
	connecting   int
	connected    int
	disconnected int
	failures     []error

	onConnected func(model.Device)
}

func (r *fakeReporter) ScanStarted() { r.scans++ }

func (r *fakeReporter) ScanTick() { r.ticks++ }

func (r *fakeReporter) DeviceFound(d model.Device) { r.found = append(r.found, d) }

func (r *fakeReporter) Connecting(model.Device) { r.connecting++ }

func (r *fakeReporter) Failed(_ model.Device, err error) {
	r.failures = append(r.failures, err)
}

func (r *fakeReporter) Connected(d model.Device) {
	r.connected++
	if r.onConnected != nil {
		r.onConnected(d)
	}
}

func (r *fakeReporter) Disconnected(model.Device, time.Time) {
	r.disconnected++
}
