package viz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/galileo/internal/acquire"
	"github.com/san-kum/galileo/internal/monitoring"
	"github.com/san-kum/galileo/internal/session"
	"github.com/san-kum/galileo/internal/storage"
)

func init() { monitoring.SetLogger(nil) }

func onePort() ([]acquire.PortInfo, error) {
	return []acquire.PortInfo{{Name: "/dev/ttyACM0", Description: "Arduino Uno"}}, nil
}

func scriptOpener(lines ...string) acquire.Opener {
	return func(string, acquire.PortOptions) (acquire.Porter, error) {
		return io.NopCloser(strings.NewReader(strings.Join(lines, "\r\n") + "\r\n")), nil
	}
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func tick(m Model) Model {
	next, cmd := m.Update(TickMsg(time.Now()))
	if cmd == nil {
		panic("tick must schedule the next tick")
	}
	return next.(Model)
}

// tickUntil ticks until cond holds or a second has passed.
func tickUntil(t *testing.T, m Model, cond func(Model) bool) Model {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		m = tick(m)
		if cond(m) {
			return m
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met; status %q, %d samples", m.status, m.buf.Len())
	return m
}

func TestTickDrainsSamples(t *testing.T) {
	m := NewModel(context.Background(), Options{
		ListPorts: onePort,
		Open: scriptOpener(
			"Time: 1000 ms, Angle: 1.5",
			"Time: 1020 ms, Angle: 2.5",
			"garbage",
			"Time: 1020 ms, Angle: 9",
			"Time: 1040 ms, Angle: -1",
		),
	})

	m = press(m, "c")
	require.True(t, m.Connected(), m.status)

	m = tickUntil(t, m, func(m Model) bool { return !m.Connected() })

	assert.Equal(t, []session.Sample{
		{Time: 0, Angle: 1.5},
		{Time: 0.02, Angle: 2.5},
		{Time: 0.04, Angle: -1},
	}, m.Buffer().Samples())
	assert.Contains(t, m.status, "closed the connection")
}

func TestConnectFailureIsReported(t *testing.T) {
	m := NewModel(context.Background(), Options{
		ListPorts: onePort,
		Open: func(string, acquire.PortOptions) (acquire.Porter, error) {
			return nil, errors.New("device busy")
		},
	})

	m = press(m, "c")

	assert.False(t, m.Connected())
	assert.True(t, m.failed)
	assert.Contains(t, m.status, "device busy")
}

func TestConnectWithoutPorts(t *testing.T) {
	m := NewModel(context.Background(), Options{
		ListPorts: func() ([]acquire.PortInfo, error) { return nil, nil },
	})

	m = press(m, "c")

	assert.False(t, m.Connected())
	assert.Equal(t, "No serial port selected", m.status)
	assert.Contains(t, m.View(), "No serial ports found")
}

func TestClearRestartsTimeBase(t *testing.T) {
	pr, pw := io.Pipe()
	m := NewModel(context.Background(), Options{
		ListPorts: onePort,
		Open: func(string, acquire.PortOptions) (acquire.Porter, error) {
			return pr, nil
		},
	})
	m = press(m, "c")
	require.True(t, m.Connected())

	go io.WriteString(pw, "Time: 5000 ms, Angle: 10\nTime: 5100 ms, Angle: 11\n")
	m = tickUntil(t, m, func(m Model) bool { return m.buf.Len() == 2 })

	m = press(m, "x")
	assert.Equal(t, 0, m.buf.Len())

	go io.WriteString(pw, "Time: 9000 ms, Angle: 3\n")
	m = tickUntil(t, m, func(m Model) bool { return m.buf.Len() == 1 })
	last, _ := m.buf.Last()
	assert.Equal(t, session.Sample{Time: 0, Angle: 3}, last)

	pw.Close()
	m = press(m, "d")
	assert.False(t, m.Connected())
}

// streamingPort prints a new firmware line on every read, 10 ms of device
// time apart, until closed.
type streamingPort struct {
	ms     atomic.Int64
	closed atomic.Bool
}

func (p *streamingPort) Read(b []byte) (int, error) {
	if p.closed.Load() {
		return 0, io.EOF
	}
	time.Sleep(20 * time.Microsecond)
	ms := p.ms.Add(10)
	return copy(b, fmt.Sprintf("Time: %d ms, Angle: %d.5\r\n", ms, ms%90)), nil
}

func (p *streamingPort) Close() error {
	p.closed.Store(true)
	return nil
}

func TestClearWhileStreamingStartsAtTimeZero(t *testing.T) {
	port := &streamingPort{}
	port.ms.Store(40000)
	m := NewModel(context.Background(), Options{
		ListPorts: onePort,
		Open: func(string, acquire.PortOptions) (acquire.Porter, error) {
			return port, nil
		},
	})
	m = press(m, "c")
	require.True(t, m.Connected())
	defer func() { press(m, "d") }()

	for i := 0; i < 300; i++ {
		m = press(m, "x")
		time.Sleep(100 * time.Microsecond)
		m = tickUntil(t, m, func(m Model) bool { return m.buf.Len() > 0 })
		first := m.buf.Samples()[0]
		require.Equal(t, 0.0, first.Time, "clear %d: first sample %+v", i, first)
	}
}

func TestSaveWritesDataset(t *testing.T) {
	dir := t.TempDir()
	m := NewModel(context.Background(), Options{
		ListPorts: onePort,
		Open:      scriptOpener("Time: 0 ms, Angle: 1", "Time: 10 ms, Angle: 2"),
		Store:     storage.New(dir),
	})

	m = press(m, "s")
	assert.True(t, m.failed, "saving an empty buffer should fail")

	m = press(m, "c")
	m = tickUntil(t, m, func(m Model) bool { return !m.Connected() })
	m = press(m, "s")
	require.False(t, m.failed, m.status)

	files, err := filepath.Glob(filepath.Join(dir, "galileo_*.csv"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, "Time,Angle\n0,1\n0.01,2\n", string(data))
}

func TestKeysToggleViewState(t *testing.T) {
	m := NewModel(context.Background(), Options{
		ListPorts: func() ([]acquire.PortInfo, error) {
			return []acquire.PortInfo{{Name: "COM3"}, {Name: "COM4"}}, nil
		},
		Port:   "COM4",
		YRange: 45,
	})
	assert.Equal(t, 1, m.selected, "preferred port should be preselected")

	m = press(m, "tab")
	assert.Equal(t, 0, m.selected)

	m = press(m, "a")
	assert.False(t, m.autoScale)
	assert.Contains(t, m.View(), "±45°")

	m = press(m, "v")
	assert.True(t, m.rawEcho)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.NotNil(t, cmd)
	assert.False(t, next.(Model).Connected())
}

func TestConnectReenablesAutoScale(t *testing.T) {
	m := NewModel(context.Background(), Options{
		ListPorts: onePort,
		Open:      scriptOpener("Time: 0 ms, Angle: 1"),
	})
	m = press(m, "a")
	require.False(t, m.autoScale)

	m = press(m, "c")
	assert.True(t, m.autoScale)
	press(m, "d")
}
