package gui

import (
	"errors"
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/metrics"
	"github.com/san-kum/verletsim/internal/scene"
	"github.com/san-kum/verletsim/internal/verlet"
)

const (
	screenWidth  = 1280
	screenHeight = 720
	maxTelemetry = 300
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
	ColWarn    = rl.NewColor(255, 68, 68, 255)
)

type App struct {
	Scene     scene.Scene
	Config    *config.Config
	Scenes    []string
	Selected  int
	InMenu    bool
	Running   bool
	ShowGrid  bool
	Telemetry []float64
	StepTime  time.Duration
	Err       error
	Font      rl.Font

	view view
	quit bool
}

func initWindow() {
	rl.InitWindow(screenWidth, screenHeight, "verletsim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// NewApp starts in the scene menu when cfg is nil, otherwise it builds the
// scene cfg names straight away.
func NewApp(cfg *config.Config) (*App, error) {
	a := &App{
		Scenes:    scene.Names(),
		InMenu:    cfg == nil,
		Telemetry: make([]float64, 0, maxTelemetry),
		Font:      rl.GetFontDefault(),
	}
	if cfg != nil {
		if err := a.load(cfg); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Run opens a window on cfg's scene and blocks until it is closed.
func Run(cfg *config.Config) error {
	initWindow()
	defer rl.CloseWindow()
	a, err := NewApp(cfg)
	if err != nil {
		return err
	}
	a.RunLoop()
	return a.Err
}

// RunInteractive opens a window on the scene menu.
func RunInteractive() error {
	initWindow()
	defer rl.CloseWindow()
	a, err := NewApp(nil)
	if err != nil {
		return err
	}
	a.RunLoop()
	return a.Err
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) load(cfg *config.Config) error {
	s, err := scene.New(cfg.Scene, cfg)
	if err != nil {
		return err
	}
	a.Scene = s
	a.Config = cfg
	a.view = newView(screenWidth, screenHeight, s.Extent())
	a.Telemetry = a.Telemetry[:0]
	a.Running = true
	a.InMenu = false
	a.Err = nil
	return nil
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
		return
	}

	if a.InMenu {
		a.updateMenu()
		return
	}

	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = true
		a.Running = false
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyG) {
		a.ShowGrid = !a.ShowGrid
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := a.load(a.Config); err != nil {
			a.Err = err
		}
		return
	}

	a.updateMouse()

	if a.Running || rl.IsKeyPressed(rl.KeyN) {
		a.step()
	}
}

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.Selected = (a.Selected + 1) % len(a.Scenes)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.Selected = (a.Selected + len(a.Scenes) - 1) % len(a.Scenes)
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		cfg := config.DefaultConfig()
		cfg.Scene = a.Scenes[a.Selected]
		if err := a.load(cfg); err != nil {
			a.Err = err
		}
	}
}

// updateMouse maps the left button onto grab/drag/release. A click that
// misses every particle spawns one in scenes that accept it.
func (a *App) updateMouse() {
	p := a.view.toWorld(rl.GetMousePosition())

	switch {
	case rl.IsMouseButtonPressed(rl.MouseLeftButton):
		if a.Scene.Grab(p) {
			return
		}
		if sp, ok := a.Scene.(scene.Spawner); ok {
			if err := sp.Spawn(p.X, p.Y); err != nil && !errors.Is(err, verlet.ErrCapacityExceeded) {
				a.Err = err
			}
			return
		}
		a.Scene.Drag(p)
	case rl.IsMouseButtonDown(rl.MouseLeftButton):
		a.Scene.Drag(p)
	case rl.IsMouseButtonReleased(rl.MouseLeftButton):
		a.Scene.Release()
	}
}

func (a *App) step() {
	start := time.Now()
	if err := a.Scene.Step(); err != nil {
		a.Err = err
		a.Running = false
		return
	}
	a.StepTime = time.Since(start)

	a.Telemetry = append(a.Telemetry, metrics.Kinetic(a.Scene.World()))
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.InMenu {
		a.drawMenu()
	} else {
		a.drawScene()
		a.drawHUD()
	}

	rl.EndDrawing()
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) drawHUD() {
	a.drawText("verletsim", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.Scene.Name()), 170, 34, 16, ColText)

	status, col := "RUNNING", ColSelect
	if !a.Running {
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, 1150, 30, 16, col)

	w := a.Scene.World()
	y := 80
	line := func(format string, args ...any) {
		a.drawText(fmt.Sprintf(format, args...), 30, y, 14, ColText)
		y += 20
	}
	line("tick       %d", a.Scene.Tick())
	line("particles  %d/%d", w.Len(), w.Cap())
	line("step       %.2fms", float64(a.StepTime.Microseconds())/1000)
	if l := a.Scene.Links(); l != nil {
		line("broken     %d/%d", l.BrokenCount(), l.Len())
	}
	if st, ok := a.Scene.(*scene.Stress); ok {
		line("rejected   %d", st.Rejected())
	}

	a.drawTelemetry()

	if a.Err != nil {
		a.drawText(a.Err.Error(), 30, 640, 14, ColWarn)
	}
	a.drawText("[SPACE] PAUSE  [N] STEP  [R] RESET  [G] GRID  [ESC] MENU  [Q] QUIT", 640, 680, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, 680, 14, ColTextDim)
}

func (a *App) drawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, 560
	width, height := 300, 60

	lo, hi := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		lo, hi = min(lo, v), max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, v := range a.Telemetry {
		px := float32(rectX) + float32(i)/float32(len(a.Telemetry))*float32(width)
		py := float32(rectY+height) - float32((v-lo)/(hi-lo))*float32(height)
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("KE: %.3f", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func (a *App) drawMenu() {
	a.drawText("verletsim", 50, 50, 40, ColSelect)
	a.drawText("Select Scene", 50, 100, 16, ColTextDim)

	y := 160
	for i, name := range a.Scenes {
		if i == a.Selected {
			a.drawText("> "+name, 50, y, 20, ColSelect)
		} else {
			a.drawText("  "+name, 50, y, 20, ColText)
		}
		y += 28
	}
	if a.Err != nil {
		a.drawText(a.Err.Error(), 50, y+20, 14, ColWarn)
	}

	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 850, 680, 14, ColTextDim)
}
