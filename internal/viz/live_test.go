package viz

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/scene"
)

func ropeBuilder() (scene.Scene, error) {
	return scene.New("rope", config.GetPreset("rope", "default"))
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := NewModel(ropeBuilder)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelTicks(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 5; i++ {
		m = send(m, TickMsg(time.Now()))
	}
	if m.Scene().Tick() != 5 {
		t.Errorf("tick = %d, want 5", m.Scene().Tick())
	}
	if len(m.history) != 5 || len(m.energy) != 5 {
		t.Errorf("history = %d, energy = %d", len(m.history), len(m.energy))
	}
}

func TestModelPauseAndStep(t *testing.T) {
	m := newTestModel(t)
	m = send(m, key(" "))
	if m.Running() {
		t.Fatal("space did not pause")
	}
	m = send(m, TickMsg(time.Now()))
	if m.Scene().Tick() != 0 {
		t.Error("paused model advanced on tick")
	}
	m = send(m, key("n"))
	if m.Scene().Tick() != 1 {
		t.Errorf("single step: tick = %d", m.Scene().Tick())
	}
}

func TestModelReset(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 3; i++ {
		m = send(m, TickMsg(time.Now()))
	}
	m = send(m, key("r"))
	if m.Scene().Tick() != 0 || len(m.history) != 0 {
		t.Errorf("after reset: tick = %d, history = %d", m.Scene().Tick(), len(m.history))
	}
}

func TestModelReplay(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 4; i++ {
		m = send(m, TickMsg(time.Now()))
	}
	m = send(m, key("["))
	if m.playHead != 2 || m.Running() {
		t.Fatalf("playHead = %d, running = %v", m.playHead, m.Running())
	}
	m = send(m, key("]"))
	m = send(m, key("]"))
	if m.playHead != -1 {
		t.Errorf("stepping past the newest frame should return live, playHead = %d", m.playHead)
	}
}

func TestModelMouseGrab(t *testing.T) {
	m := newTestModel(t)

	// cell (37, 17) lands on the second rope particle at (0, -1)
	p := m.CellToWorld(37, 17)
	if d := p.Sub(m.Scene().World().Particle(1).Position).Len(); d > 0.4 {
		t.Fatalf("cell maps %v from particle 1", d)
	}

	m = send(m, tea.MouseMsg{X: 37, Y: 17, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.dragging {
		t.Fatal("press on a particle did not grab it")
	}
	m = send(m, tea.MouseMsg{X: 50, Y: 17, Action: tea.MouseActionMotion})
	m = send(m, TickMsg(time.Now()))
	target := m.CellToWorld(50, 17)
	if d := m.Scene().World().Particle(1).Position.Sub(target).Len(); d > 1e-9 {
		t.Errorf("held particle is %v from the pointer", d)
	}
	m = send(m, tea.MouseMsg{X: 50, Y: 17, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if m.dragging {
		t.Error("release did not drop the particle")
	}
}

func TestModelStepError(t *testing.T) {
	boom := errors.New("boom")
	m, err := NewModel(func() (scene.Scene, error) {
		s, err := ropeBuilder()
		return failing{Scene: s, err: boom}, err
	})
	if err != nil {
		t.Fatal(err)
	}
	m = send(m, TickMsg(time.Now()))
	if !errors.Is(m.Err(), boom) || m.Running() {
		t.Errorf("err = %v, running = %v", m.Err(), m.Running())
	}
	if !strings.Contains(m.View(), "boom") {
		t.Error("view does not show the error")
	}
}

type failing struct {
	scene.Scene
	err error
}

func (f failing) Step() error { return f.err }

func TestModelView(t *testing.T) {
	m := newTestModel(t)
	m = send(m, TickMsg(time.Now()))
	m = send(m, TickMsg(time.Now()))
	v := m.View()
	for _, want := range []string{"ROPE", "RUNNING", "Kinetic energy", "Particles"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
	m = send(m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD AND MOUSE") {
		t.Error("help overlay missing")
	}
}

func TestAppMenu(t *testing.T) {
	var a tea.Model = NewApp()
	a, _ = a.Update(tea.KeyMsg{Type: tea.KeyDown})
	a, _ = a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app := a.(App)
	if app.state != statePresets || app.scene != "rope" {
		t.Fatalf("state = %v, scene = %q", app.state, app.scene)
	}
	a, _ = a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = a.(App)
	if app.state != stateLive || app.live.Scene().Name() != "rope" {
		t.Fatalf("state = %v", app.state)
	}
	a, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if a.(App).state != stateScenes {
		t.Error("esc did not return to the menu")
	}
}
