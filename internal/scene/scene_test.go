package scene_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/scene"
	"github.com/san-kum/verletsim/internal/verlet"
)

func configFor(name string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Scene = name
	return cfg
}

func stepN(s scene.Scene, n int) {
	for i := 0; i < n; i++ {
		Expect(s.Step()).To(Succeed())
	}
}

var _ = Describe("Registry", func() {
	It("lists every scene in order", func() {
		Expect(scene.Names()).To(Equal([]string{"cloth", "rope", "softbody", "stress"}))
	})

	It("builds each registered scene from defaults", func() {
		for _, name := range scene.Names() {
			s, err := scene.New(name, configFor(name))
			Expect(err).NotTo(HaveOccurred(), name)
			Expect(s.Name()).To(Equal(name))
			Expect(s.Extent()).To(BeNumerically(">", 0))
		}
	})

	It("rejects unknown scenes", func() {
		_, err := scene.New("fluid", configFor("cloth"))
		Expect(err).To(MatchError(scene.ErrUnknownScene))
	})

	It("rejects invalid configs before building", func() {
		cfg := configFor("cloth")
		cfg.Dt = 0
		_, err := scene.New("cloth", cfg)
		Expect(err).To(MatchError(config.ErrInvalidValue))
	})
})

var _ = Describe("Cloth", func() {
	var c *scene.Cloth

	BeforeEach(func() {
		var err error
		c, err = scene.NewCloth(configFor("cloth"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("spawns the lattice plus the ball", func() {
		Expect(c.World().Len()).To(Equal(14*14 + 1))
		Expect(c.Ball()).To(Equal(14 * 14))
		Expect(c.Links()).To(BeNil())
	})

	It("keeps the top row pinned and everything inside the bound", func() {
		top := make(map[int]verlet.Vec2)
		for x := 0; x < 14; x++ {
			idx := x*14 + 13
			top[idx] = c.World().Particle(idx).Position
		}

		stepN(c, 120)

		Expect(c.Tick()).To(Equal(120))
		for idx, at := range top {
			Expect(c.World().Particle(idx).Position).To(Equal(at))
		}
		for _, p := range c.World().Particles() {
			Expect(p.Position.Len()).To(BeNumerically("<=", 15+1e-9))
		}
	})

	It("moves a grabbed particle onto the pointer", func() {
		Expect(c.Grab(verlet.V(40, 40))).To(BeFalse())

		at := c.World().Particle(0).Position
		Expect(c.Grab(at)).To(BeTrue())
		c.Drag(verlet.V(-3, -8))
		stepN(c, 1)
		Expect(c.World().Particle(0).Position).To(Equal(verlet.V(-3, -8)))

		c.Release()
		c.Drag(verlet.V(2, -12))
		stepN(c, 1)
		Expect(c.World().Particle(c.Ball()).Position).To(Equal(verlet.V(2, -12)))
	})

	It("is deterministic", func() {
		other, err := scene.NewCloth(configFor("cloth"))
		Expect(err).NotTo(HaveOccurred())

		stepN(c, 50)
		stepN(other, 50)
		Expect(other.World().Particles()).To(Equal(c.World().Particles()))
	})
})

var _ = Describe("Rope", func() {
	var r *scene.Rope

	BeforeEach(func() {
		cfg := configFor("rope")
		cfg.Rope.Capacity = 12
		var err error
		r, err = scene.NewRope(cfg)
		Expect(err).NotTo(HaveOccurred())
	})

	It("hangs from the origin", func() {
		stepN(r, 120)

		Expect(r.World().Particle(0).Position).To(Equal(verlet.V(0, 0)))
		ps := r.World().Particles()
		for i := 0; i < len(ps)-1; i++ {
			d := ps[i+1].Position.Sub(ps[i].Position).Len()
			Expect(d).To(BeNumerically("<", 1.2), "link %d", i)
		}
	})

	It("extends the chain until the world is full", func() {
		Expect(r.Spawn(3, -3)).To(Succeed())
		Expect(r.Spawn(3, -4)).To(Succeed())
		Expect(r.Spawn(3, -5)).To(MatchError(verlet.ErrCapacityExceeded))
		Expect(r.World().Len()).To(Equal(12))

		stepN(r, 10)
		Expect(r.World().Particle(0).Position).To(Equal(verlet.V(0, 0)))
	})
})

var _ = Describe("SoftBody", func() {
	var b *scene.SoftBody

	BeforeEach(func() {
		var err error
		b, err = scene.NewSoftBody(configFor("softbody"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("builds a linked lattice", func() {
		Expect(b.World().Len()).To(Equal(20*20 + 1))
		Expect(b.Links().Len()).To(Equal(scene.ClothLinkCount(20, 20)))
		Expect(b.Links().BrokenCount()).To(BeZero())
	})

	It("tears when dragged hard and never heals", func() {
		corner := b.World().Particle(20*20 - 1).Position
		Expect(corner.Sub(verlet.V(-4.5, -4.5)).Len()).To(BeNumerically("<", 1e-9))
		Expect(b.Grab(corner)).To(BeTrue())
		b.Drag(verlet.V(-9, 9))

		previous := 0
		for i := 0; i < 30; i++ {
			stepN(b, 1)
			broken := b.Links().BrokenCount()
			Expect(broken).To(BeNumerically(">=", previous))
			previous = broken
		}
		Expect(previous).To(BeNumerically(">", 0))
	})

	It("keeps particles in the box", func() {
		stepN(b, 60)
		for _, p := range b.World().Particles() {
			Expect(math.Abs(p.Position.X)).To(BeNumerically("<=", 10))
			Expect(math.Abs(p.Position.Y)).To(BeNumerically("<=", 10))
		}
	})
})

var _ = Describe("SoftBody strand", func() {
	var b *scene.SoftBody

	BeforeEach(func() {
		var err error
		b, err = scene.NewSoftBody(config.GetPreset("softbody", "strand"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("chains the particles with breakable links", func() {
		Expect(b.World().Len()).To(Equal(24 + 1))
		Expect(b.Links().Len()).To(Equal(23))
		for i := 0; i < b.Links().Len(); i++ {
			lk := b.Links().Link(i)
			Expect(lk.B - lk.A).To(Equal(1))
		}
		Expect(b.World().Particle(23).Position).To(Equal(verlet.V(-6.5, 5)))
	})

	It("hangs from its first particle", func() {
		stepN(b, 60)
		Expect(b.World().Particle(0).Position).To(Equal(verlet.V(5, 5)))
		for _, p := range b.World().Particles() {
			Expect(math.Abs(p.Position.X)).To(BeNumerically("<=", 10))
			Expect(math.Abs(p.Position.Y)).To(BeNumerically("<=", 10))
		}
	})

	It("snaps when its free end is yanked", func() {
		Expect(b.Grab(verlet.V(-6.5, 5))).To(BeTrue())
		b.Drag(verlet.V(-9, -9))
		stepN(b, 10)
		Expect(b.Links().BrokenCount()).To(BeNumerically(">", 0))
	})
})

var _ = Describe("Stress", func() {
	DescribeTable("fills the box",
		func(broadphase string) {
			cfg := configFor("stress")
			cfg.Stress.Broadphase = broadphase
			s, err := scene.NewStress(cfg)
			Expect(err).NotTo(HaveOccurred())

			stepN(s, 400)

			Expect(s.World().Len()).To(Equal(200))
			for _, p := range s.World().Particles() {
				Expect(p.Position.IsValid()).To(BeTrue())
				Expect(math.Abs(p.Position.X)).To(BeNumerically("<=", 20))
				Expect(math.Abs(p.Position.Y)).To(BeNumerically("<=", 20))
			}
			if g := s.Grid(); g != nil {
				Expect(g.TotalDropped()).To(BeZero())
			}
		},
		Entry("with the grid", "grid"),
		Entry("naively", "naive"),
	)

	It("counts spawns refused at capacity", func() {
		cfg := configFor("stress")
		cfg.Stress.Capacity = 6
		s, err := scene.NewStress(cfg)
		Expect(err).NotTo(HaveOccurred())

		stepN(s, 40)

		Expect(s.Full()).To(BeTrue())
		Expect(s.World().Len()).To(Equal(6))
		Expect(s.Rejected()).To(Equal(14))
	})
})
