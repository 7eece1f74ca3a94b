package console

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/a2dpsink/internal/model"
)

// styles holds the lipgloss styles for each kind of line.
type styles struct {
	muted   lipgloss.Style
	device  lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{muted: plain, device: plain, success: plain, failure: plain}
	}

	r := lipgloss.NewRenderer(w)
	return styles{
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		device:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		success: r.NewStyle().Foreground(lipgloss.Color("10")),
		failure: r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Console writes supervisor progress to w. A scan prints a header followed
// by one dot per empty poll on the same line.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	logger  *slog.Logger
	styles  styles
	midLine bool
	now     func() time.Time
}

// New creates a Console writing to w.
func New(w io.Writer, color bool, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{
		w:      w,
		logger: logger,
		styles: newStyles(w, color),
		now:    time.Now,
	}
}

// ScanStarted prints the scan header without a trailing newline.
func (c *Console) ScanStarted() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.breakLine()
	fmt.Fprint(c.w, "Scanning for devices")
	c.midLine = true
	c.logger.Debug("scan started")
}

// ScanTick prints a progress dot for an empty poll.
func (c *Console) ScanTick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprint(c.w, c.styles.muted.Render("."))
	c.midLine = true
}

// DeviceFound reports the matched device and its identifier.
func (c *Console) DeviceFound(device model.Device) {
	c.println("Device %s found. %s",
		c.styles.device.Render(device.Name),
		c.styles.muted.Render("[Id: "+device.ID+"]"))
}

// Connecting reports the start of a connection attempt.
func (c *Console) Connecting(device model.Device) {
	c.println("Connecting to device...")
}

// Connected reports an open connection.
func (c *Console) Connected(device model.Device) {
	c.println("%s", c.styles.success.Render("Successfully connected."))
}

// Disconnected reports that an open connection closed.
func (c *Console) Disconnected(device model.Device, openedAt time.Time) {
	c.println("Connection to %s closed %s",
		c.styles.device.Render(device.Name),
		c.styles.muted.Render("(opened "+humanize.RelTime(openedAt, c.now(), "ago", "from now")+")"))
}

// Failed reports a failed connection attempt.
func (c *Console) Failed(device model.Device, err error) {
	c.println("%s", c.styles.failure.Render("Failed to connect: "+err.Error()))
}

// println writes one full line, ending any in-progress scan line first.
func (c *Console) println(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.breakLine()
	fmt.Fprintf(c.w, format+"\n", args...)
}

func (c *Console) breakLine() {
	if c.midLine {
		fmt.Fprintln(c.w)
		c.midLine = false
	}
}
