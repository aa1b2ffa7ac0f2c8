package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/scene"
)

type menuState int

const (
	stateScenes menuState = iota
	statePresets
	stateLive
)

var sceneInfo = map[string]string{
	"cloth":    "Pinned sheet with a wandering ball",
	"rope":     "Chain hanging from the origin",
	"softbody": "Breakable lattice in a box",
	"stress":   "Fountain of particles, grid or naive",
}

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).MarginBottom(1)
	menuItemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	menuSelStyle   = lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("#00ff88")).Bold(true)
	menuDescStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// App picks a scene and preset, then hands over to the live Model.
type App struct {
	state   menuState
	scenes  []string
	presets []string
	cursor  int
	scene   string
	live    Model
	err     error
}

func NewApp() App {
	return App{scenes: scene.Names()}
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state == stateLive {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			a.state = stateScenes
			a.cursor = 0
			return a, nil
		}
		m, cmd := a.live.Update(msg)
		a.live = m.(Model)
		return a, cmd
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	items := a.items()
	switch k.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		a.cursor = max(a.cursor-1, 0)
	case "down", "j":
		a.cursor = min(a.cursor+1, len(items)-1)
	case "esc", "backspace":
		if a.state == statePresets {
			a.state = stateScenes
			a.cursor = 0
		}
	case "enter":
		return a.choose(items[a.cursor])
	}
	return a, nil
}

func (a App) items() []string {
	if a.state == statePresets {
		return a.presets
	}
	return a.scenes
}

func (a App) choose(item string) (tea.Model, tea.Cmd) {
	if a.state == stateScenes {
		a.scene = item
		a.presets = config.ListPresets(item)
		a.state = statePresets
		a.cursor = 0
		return a, nil
	}

	name, preset := a.scene, item
	m, err := NewModel(func() (scene.Scene, error) {
		cfg := config.GetPreset(name, preset)
		if cfg == nil {
			return nil, fmt.Errorf("preset %q not found for %s", preset, name)
		}
		return scene.New(name, cfg)
	})
	if err != nil {
		a.err = err
		return a, nil
	}
	a.live = m
	a.state = stateLive
	a.err = nil
	return a, m.Init()
}

func (a App) View() string {
	if a.state == stateLive {
		return a.live.View() + "\n" + helpStyle.Render("Esc: back to menu")
	}

	var b strings.Builder
	title := "VERLETSIM"
	if a.state == statePresets {
		title = "VERLETSIM / " + strings.ToUpper(a.scene)
	}
	b.WriteString(menuTitleStyle.Render(title) + "\n")

	for i, item := range a.items() {
		line := item
		if desc, ok := sceneInfo[item]; ok && a.state == stateScenes {
			line = fmt.Sprintf("%-10s %s", item, menuDescStyle.Render(desc))
		}
		if i == a.cursor {
			b.WriteString(menuSelStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString(menuItemStyle.Render(line) + "\n")
		}
	}
	if a.err != nil {
		b.WriteString("\n" + SparkLow.Render(a.err.Error()) + "\n")
	}
	b.WriteString(helpStyle.Render("↑/↓: move  Enter: select  Esc: back  Q: quit"))
	return b.String()
}

// RunInteractive starts the scene menu.
func RunInteractive() error {
	_, err := tea.NewProgram(NewApp(), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
