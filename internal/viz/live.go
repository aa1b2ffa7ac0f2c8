package viz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/verletsim/internal/metrics"
	"github.com/san-kum/verletsim/internal/scene"
	"github.com/san-kum/verletsim/internal/sim"
	"github.com/san-kum/verletsim/internal/verlet"
)

const (
	width           = 72
	height          = 30
	historyCapacity = 600

	// canvas offset inside the rendered view, from canvasStyle padding
	padLeft = 2
	padTop  = 1
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Builder rebuilds a scene from scratch; reset calls it again.
type Builder func() (scene.Scene, error)

// Model is the bubbletea live view of a running scene.
type Model struct {
	build    Builder
	scene    scene.Scene
	canvas   *Canvas
	view     Viewport
	theme    Theme
	running  bool
	showHelp bool
	err      error

	energy   []float64
	broken   []float64
	history  []sim.Frame
	playHead int
	stepTime time.Duration
	dragging bool
}

func NewModel(build Builder) (Model, error) {
	s, err := build()
	if err != nil {
		return Model{}, err
	}
	c := NewCanvas(width, height)
	return Model{
		build:    build,
		scene:    s,
		canvas:   c,
		view:     NewViewport(c, s.Extent()),
		theme:    Themes[0],
		running:  true,
		energy:   make([]float64, 0, historyCapacity),
		history:  make([]sim.Frame, 0, historyCapacity),
		playHead: -1,
	}, nil
}

func (m Model) Scene() scene.Scene { return m.scene }
func (m Model) Running() bool      { return m.running }
func (m Model) Err() error         { return m.err }

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.step()
			}
		case "r":
			m.reset()
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "t":
			m.theme = NextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case TickMsg:
		if m.running && m.err == nil {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

// CellToWorld maps a terminal cell of the rendered view to world space.
func (m Model) CellToWorld(x, y int) verlet.Vec2 {
	col, row := x-padLeft, y-padTop
	return m.view.ToWorld(col*2+1, row*4+2)
}

func (m *Model) mouse(msg tea.MouseMsg) {
	if m.showHelp || m.playHead != -1 {
		return
	}
	p := m.CellToWorld(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.dragging = m.scene.Grab(p)
			if !m.dragging {
				m.scene.Drag(p)
			}
		case tea.MouseButtonRight:
			if sp, ok := m.scene.(scene.Spawner); ok {
				if err := sp.Spawn(p.X, p.Y); err != nil && !errors.Is(err, verlet.ErrCapacityExceeded) {
					m.err = err
				}
			}
		}
	case tea.MouseActionMotion:
		m.scene.Drag(p)
	case tea.MouseActionRelease:
		if m.dragging {
			m.scene.Release()
			m.dragging = false
		}
	}
}

func (m *Model) step() {
	start := time.Now()
	if err := m.scene.Step(); err != nil {
		m.err = err
		m.running = false
		return
	}
	m.stepTime = time.Since(start)

	m.energy = appendCapped(m.energy, metrics.Kinetic(m.scene.World()))
	if l := m.scene.Links(); l != nil {
		m.broken = appendCapped(m.broken, float64(l.BrokenCount()))
	}
	m.history = append(m.history, sim.Snapshot(m.scene))
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func appendCapped(xs []float64, v float64) []float64 {
	xs = append(xs, v)
	if len(xs) > historyCapacity {
		xs = xs[1:]
	}
	return xs
}

// scrub moves the replay head; stepping past the newest frame resumes live.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead = max(m.playHead+dir, 0)
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

func (m *Model) reset() {
	s, err := m.build()
	if err != nil {
		m.err = err
		return
	}
	m.scene = s
	m.err = nil
	m.dragging = false
	m.energy = m.energy[:0]
	m.broken = m.broken[:0]
	m.history = m.history[:0]
	m.playHead = -1
}

func (m *Model) draw() {
	m.canvas.Clear()
	if m.playHead >= 0 && m.playHead < len(m.history) {
		for _, p := range m.history[m.playHead].Particles {
			x, y := m.view.ToScreen(p.Position)
			m.canvas.DrawCircle(x, y, m.view.Length(p.Radius))
		}
		return
	}
	DrawLinks(m.canvas, m.view, m.scene.World(), m.scene.Links())
	DrawWorld(m.canvas, m.view, m.scene.World())
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return SparkLow.Render("ERROR: " + m.err.Error())
	case m.playHead != -1:
		back := len(m.history) - 1 - m.playHead
		return StatusPaused.Render(fmt.Sprintf("REPLAY (-%d ticks)", back))
	case !m.running:
		return StatusPaused.Render("PAUSED")
	}
	return StatusRunning.Render("RUNNING")
}

func (m Model) View() string {
	m.draw()
	particles := lipgloss.NewStyle().Foreground(m.theme.Particle)
	canvasView := canvasStyle.Render(particles.Render(m.canvas.String()))

	w := m.scene.World()
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scene.Name())) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Tick", fmt.Sprintf("%d", m.scene.Tick()))
	row("Particles", fmt.Sprintf("%d/%d", w.Len(), w.Cap()))
	s.WriteString(ProgressBar(float64(w.Len())/float64(max(w.Cap(), 1)), 24) + "\n")
	row("Step", fmt.Sprintf("%.2fms", float64(m.stepTime.Microseconds())/1000))
	row("Degenerate", fmt.Sprintf("%d", w.DegenerateContacts()))

	if l := m.scene.Links(); l != nil {
		row("Broken", fmt.Sprintf("%d/%d", l.BrokenCount(), l.Len()))
		s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Warning).Render(Sparkline(m.broken, 24)) + "\n")
	}
	if st, ok := m.scene.(*scene.Stress); ok {
		row("Rejected", fmt.Sprintf("%d", st.Rejected()))
		if g := st.Grid(); g != nil {
			row("Dropped", fmt.Sprintf("%d", g.TotalDropped()))
		}
	}
	row("Theme", m.theme.Name)

	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause N:Step R:Reset\n[ ]:Replay T:Theme Q:Quit\nDrag:Grab  Right:Spawn"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))

	if m.showHelp {
		return lipgloss.NewStyle().Foreground(m.theme.Accent).Render(helpText) + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD AND MOUSE          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  N        - Single step while paused ║
║  R        - Rebuild the scene        ║
║  [ ]      - Replay recent ticks      ║
║  T        - Cycle themes             ║
║  Drag     - Grab a particle          ║
║  Right    - Spawn (rope, stress)     ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// RunLive opens the live view full screen with mouse support.
func RunLive(build Builder) error {
	m, err := NewModel(build)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
