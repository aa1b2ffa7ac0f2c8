package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/verlet"
)

var ErrUnknownScene = errors.New("scene: unknown scene")

// Scene owns a World and the per-tick recipe that drives it.
type Scene interface {
	Name() string
	World() *verlet.World
	// Links returns nil for scenes without breakable links.
	Links() *verlet.Links
	Step() error
	Tick() int
	// Extent is the half-width of the region worth drawing, centred on the origin.
	Extent() float64

	Grab(point verlet.Vec2) bool
	Drag(point verlet.Vec2)
	Release()
}

// Spawner is implemented by scenes that accept new particles at runtime.
type Spawner interface {
	Spawn(x, y float64) error
}

type Constructor func(cfg *config.Config) (Scene, error)

var registry = map[string]Constructor{
	"cloth":    constructor(NewCloth),
	"rope":     constructor(NewRope),
	"softbody": constructor(NewSoftBody),
	"stress":   constructor(NewStress),
}

func constructor[S Scene](fn func(*config.Config) (S, error)) Constructor {
	return func(cfg *config.Config) (Scene, error) {
		s, err := fn(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// New builds the named scene. cfg is validated first.
func New(name string, cfg *config.Config) (Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScene, name)
	}
	return fn(cfg)
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type pin struct {
	idx int
	at  verlet.Vec2
}

// base carries the state every scene shares: the arena, timing and the
// particle currently held by the pointer.
type base struct {
	name    string
	world   *verlet.World
	links   *verlet.Links
	dt      float64
	gravity float64
	tick    int
	extent  float64

	held  int
	mouse verlet.Vec2
}

func newBase(name string, cfg *config.Config, capacity int) base {
	return base{
		name:    name,
		world:   verlet.NewWorld(capacity, verlet.WithCollisionScale(cfg.CollisionScale)),
		dt:      cfg.Dt,
		gravity: cfg.Gravity,
		held:    -1,
	}
}

func (b *base) Name() string           { return b.name }
func (b *base) World() *verlet.World   { return b.world }
func (b *base) Links() *verlet.Links   { return b.links }
func (b *base) Tick() int              { return b.tick }
func (b *base) Extent() float64        { return b.extent }
func (b *base) Drag(point verlet.Vec2) { b.mouse = point }
func (b *base) Release()               { b.held = -1 }

// Grab holds the first particle under point until Release.
func (b *base) Grab(point verlet.Vec2) bool {
	idx, ok := b.world.ParticleAt(point)
	if !ok {
		return false
	}
	b.held = idx
	b.mouse = point
	return true
}

// Held returns the index of the grabbed particle.
func (b *base) Held() (int, bool) { return b.held, b.held >= 0 }

func (b *base) pinHeld() error {
	if b.held < 0 {
		return nil
	}
	return b.world.ConstrainDistanceFromPoint(b.held, b.mouse, 0)
}

func (b *base) applyPins(pins []pin) error {
	for _, p := range pins {
		if err := b.world.ConstrainDistanceFromPoint(p.idx, p.at, 0); err != nil {
			return err
		}
	}
	return nil
}
