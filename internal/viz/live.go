package viz

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/galileo/internal/acquire"
	"github.com/san-kum/galileo/internal/monitoring"
	"github.com/san-kum/galileo/internal/session"
	"github.com/san-kum/galileo/internal/storage"
)

const (
	defaultRefresh = 50 * time.Millisecond
	defaultYRange  = 90.0
	defaultWidth   = 100
	defaultHeight  = 15
	bufferCapacity = 1 << 14
)

type TickMsg time.Time

// Options wires the view to its collaborators. Zero values select the real
// serial port and the defaults of the live section of the config.
type Options struct {
	Open        acquire.Opener
	PortOptions acquire.PortOptions
	ListPorts   func() ([]acquire.PortInfo, error)
	Store       *storage.Store
	WriteMAT    bool
	Port        string
	Refresh     time.Duration
	YRange      float64
	RawEcho     bool
	PlotHeight  int
}

// Model is the presentation loop. It owns the buffer; the worker only ever
// reaches it through the samples channel.
type Model struct {
	opts      Options
	ctx       context.Context
	buf       *session.Buffer
	worker    *acquire.Worker
	samples   <-chan acquire.Reading
	epoch     uint64
	ports     []acquire.PortInfo
	selected  int
	autoScale bool
	rawEcho   bool
	status    string
	failed    bool
	width     int
	height    int
}

func NewModel(ctx context.Context, opts Options) Model {
	if opts.ListPorts == nil {
		opts.ListPorts = acquire.ListPorts
	}
	if opts.Refresh <= 0 {
		opts.Refresh = defaultRefresh
	}
	if opts.YRange <= 0 {
		opts.YRange = defaultYRange
	}
	if opts.PlotHeight <= 0 {
		opts.PlotHeight = defaultHeight
	}

	m := Model{
		opts:      opts,
		ctx:       ctx,
		buf:       session.NewBuffer(bufferCapacity),
		autoScale: true,
		rawEcho:   opts.RawEcho,
		width:     defaultWidth,
		height:    opts.PlotHeight,
	}
	m.refreshPorts()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Refresh, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.disconnect()
			return m, tea.Quit
		case "c":
			m.connect()
		case "d":
			m.disconnect()
		case "x":
			m.clear()
		case "a":
			m.autoScale = !m.autoScale
		case "s":
			m.save()
		case "r":
			m.refreshPorts()
		case "tab":
			if len(m.ports) > 0 {
				m.selected = (m.selected + 1) % len(m.ports)
			}
		case "v":
			m.rawEcho = !m.rawEcho
			if m.worker != nil {
				m.worker.SetRawEcho(m.rawEcho)
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width - 12
		if m.width < 20 {
			m.width = 20
		}
	case TickMsg:
		m.drain()
		return m, m.tick()
	}
	return m, nil
}

// drain moves every queued sample into the buffer and notices when the
// worker has gone away on its own.
func (m *Model) drain() {
	if m.samples == nil {
		return
	}
	for {
		select {
		case r, ok := <-m.samples:
			if !ok {
				m.workerExited()
				return
			}
			m.accept(r)
		default:
			return
		}
	}
}

// accept appends r unless it was timed against an epoch older than the
// last clear.
func (m *Model) accept(r acquire.Reading) {
	if r.Epoch < m.epoch {
		return
	}
	m.buf.Append(r.Sample)
}

func (m *Model) workerExited() {
	w := m.worker
	m.worker, m.samples = nil, nil
	if w == nil {
		return
	}
	if err := w.Err(); err != nil {
		m.setError(fmt.Sprintf("Connection to %s lost: %v", w.Path(), err))
		return
	}
	m.setStatus(fmt.Sprintf("%s closed the connection", w.Path()))
}

func (m *Model) connect() {
	port, ok := m.selectedPort()
	if !ok {
		m.setError("No serial port selected")
		return
	}
	m.disconnect()

	w := acquire.NewWorker(m.opts.Open, port, m.opts.PortOptions)
	w.SetRawEcho(m.rawEcho)
	if err := w.Start(m.ctx); err != nil {
		m.setError(fmt.Sprintf("Error opening serial port: %v", err))
		return
	}

	m.buf.Reset()
	m.autoScale = true
	m.worker, m.samples, m.epoch = w, w.Samples(), 0
	m.setStatus(fmt.Sprintf("Connected to %s", port))
}

func (m *Model) disconnect() {
	if m.worker == nil {
		return
	}
	w := m.worker
	w.Stop()
	// the channel is closed now; keep what was read before the stop
	for r := range m.samples {
		m.accept(r)
	}
	m.worker, m.samples = nil, nil
	m.setStatus(fmt.Sprintf("Disconnected from %s", w.Path()))
}

func (m *Model) clear() {
	if m.worker != nil {
		m.epoch = m.worker.ResetEpoch()
	}
	m.buf.Reset()
	m.setStatus("Cleared")
}

func (m *Model) save() {
	if m.opts.Store == nil {
		m.setError("No data directory configured")
		return
	}
	if m.buf.Len() == 0 {
		m.setError("Nothing to save")
		return
	}
	paths, err := m.opts.Store.Save(m.buf.Samples(), m.opts.WriteMAT)
	if err != nil {
		monitoring.Logf("save failed: %v", err)
		m.setError(fmt.Sprintf("Save failed: %v", err))
		return
	}
	m.setStatus("Saved " + strings.Join(paths, ", "))
}

func (m *Model) refreshPorts() {
	current, _ := m.selectedPort()
	if current == "" {
		current = m.opts.Port
	}

	ports, err := m.opts.ListPorts()
	if err != nil {
		m.setError(fmt.Sprintf("Listing ports: %v", err))
		return
	}
	m.ports = ports
	m.selected = 0
	for i, p := range ports {
		if p.Name == current {
			m.selected = i
		}
	}
	m.setStatus(fmt.Sprintf("%d port(s) found", len(ports)))
}

func (m *Model) selectedPort() (string, bool) {
	if m.selected < 0 || m.selected >= len(m.ports) {
		return "", false
	}
	return m.ports[m.selected].Name, true
}

func (m *Model) setStatus(s string) { m.status, m.failed = s, false }
func (m *Model) setError(s string)  { m.status, m.failed = s, true }

// Buffer exposes the session buffer to the caller once the program exits.
func (m Model) Buffer() *session.Buffer { return m.buf }

// Connected reports whether a worker is attached.
func (m Model) Connected() bool { return m.worker != nil }

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("FROM GALILEO GALILEI TO ARDUINO") + "\n\n")
	s.WriteString(m.portsView() + "\n\n")
	s.WriteString(panelStyle.Render(m.plot()) + "\n")

	state := disconnectedStyle.Render("DISCONNECTED")
	if m.worker != nil {
		state = connectedStyle.Render("CONNECTED " + m.worker.Path())
	}
	s.WriteString(labelStyle.Render("State") + state + "\n")

	n := m.buf.Len()
	s.WriteString(labelStyle.Render("Samples") + valueStyle.Render(fmt.Sprintf("%d", n)) + "\n")
	if last, ok := m.buf.Last(); ok {
		s.WriteString(labelStyle.Render("Last") + valueStyle.Render(fmt.Sprintf("%.2fs  %.2f°", last.Time, last.Angle)) + "\n")
	}
	scale := "auto"
	if !m.autoScale {
		scale = fmt.Sprintf("±%g°", m.opts.YRange)
	}
	s.WriteString(labelStyle.Render("Scale") + valueStyle.Render(scale) + "\n")

	if m.status != "" {
		style := portStyle
		if m.failed {
			style = errorStyle
		}
		s.WriteString(labelStyle.Render("Status") + style.Render(m.status) + "\n")
	}

	s.WriteString(helpStyle.Render("c connect • d disconnect • x clear • a auto-scale • s save • r refresh • tab port • v raw • q quit"))
	return s.String()
}

func (m Model) portsView() string {
	if len(m.ports) == 0 {
		return portStyle.Render("No serial ports found (r to refresh)")
	}
	labels := make([]string, len(m.ports))
	for i, p := range m.ports {
		if i == m.selected {
			labels[i] = selectedStyle.Render(" " + p.Label() + " ")
		} else {
			labels[i] = portStyle.Render(" " + p.Label() + " ")
		}
	}
	return labelStyle.Render("Ports") + strings.Join(labels, " ")
}

func (m Model) plot() string {
	angles := m.buf.Angles()
	if len(angles) < 2 {
		return graphStyle.Render("waiting for data...")
	}

	opts := []asciigraph.Option{
		asciigraph.Height(m.height),
		asciigraph.Width(m.width),
		asciigraph.Precision(1),
	}
	last, _ := m.buf.Last()
	caption := fmt.Sprintf("Angle (°) over %.1fs", last.Time)
	if !m.autoScale {
		r := m.opts.YRange
		for i, a := range angles {
			angles[i] = math.Max(-r, math.Min(r, a))
		}
		opts = append(opts, asciigraph.LowerBound(-r), asciigraph.UpperBound(r))
	}
	opts = append(opts, asciigraph.Caption(caption))

	return graphStyle.Render(asciigraph.Plot(angles, opts...))
}

// Run starts the live view and blocks until the user quits. Log output goes
// to logPath while the terminal is taken over.
func Run(ctx context.Context, opts Options, logPath string) (*session.Buffer, error) {
	if logPath != "" {
		f, err := tea.LogToFile(logPath, "galileo")
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
	}

	final, err := tea.NewProgram(NewModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, err
	}
	m := final.(Model)
	m.disconnect()
	return m.buf, nil
}
