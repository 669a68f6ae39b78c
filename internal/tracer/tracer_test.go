package tracer_test

import (
	"context"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/chargefield/internal/electro"
	"github.com/san-kum/chargefield/internal/tracer"
)

const uC = 1e-6

func dist(a, b r3.Vec) float64 { return r3.Norm(r3.Sub(a, b)) }

var _ = Describe("Trace", func() {
	var (
		single *electro.ChargeSet
		dipole *electro.ChargeSet
		params tracer.Params
	)

	BeforeEach(func() {
		single = electro.MustChargeSet(electro.ChargeSpec{Q: uC})
		dipole = electro.MustChargeSet(
			electro.ChargeSpec{X: -1, Q: uC},
			electro.ChargeSpec{X: 1, Q: -uC},
		)
		params = tracer.DefaultParams()
	})

	Context("around a single positive charge", func() {
		It("runs radially outward until it leaves the domain", func() {
			line, err := tracer.Trace(single, r3.Vec{X: 0.2}, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(line.Reason).To(Equal(electro.OutOfBounds))
			Expect(line.Steps).To(BeNumerically(">", 10))
			Expect(line.Points).To(HaveLen(line.Steps + 1))

			prev := 0.0
			for _, p := range line.Points {
				Expect(p.Y).To(BeZero())
				Expect(p.Z).To(BeZero())
				Expect(p.X).To(BeNumerically(">", prev))
				Expect(params.Bounds.Contains(p)).To(BeTrue())
				prev = p.X
			}
		})

		It("stops at the step budget", func() {
			params.MaxSteps = 10
			line, err := tracer.Trace(single, r3.Vec{X: 0.2}, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(line.Reason).To(Equal(electro.MaxSteps))
			Expect(line.Steps).To(Equal(10))
			Expect(line.Points).To(HaveLen(11))
			Expect(line.Length).To(BeNumerically("~", 0.5, 1e-9))
		})

		It("runs backward into the charge", func() {
			params.Direction = electro.Backward
			line, err := tracer.Trace(single, r3.Vec{Y: 1}, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(line.Reason).To(Equal(electro.Absorbed))
			last := line.Points[len(line.Points)-1]
			Expect(r3.Norm(last)).To(BeNumerically("<=", params.CaptureRadius))
		})

		It("leaves its own origin charge even when seeded inside the capture radius", func() {
			params.Origin = 0
			line, err := tracer.Trace(single, r3.Vec{X: 0.01}, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(line.Reason).To(Equal(electro.OutOfBounds))
		})

		It("is absorbed at once by a foreign charge", func() {
			line, err := tracer.Trace(single, r3.Vec{X: 0.01}, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(line.Reason).To(Equal(electro.Absorbed))
			Expect(line.Steps).To(BeZero())
			Expect(line.Points).To(HaveLen(1))
		})

		It("supports adaptive stepping", func() {
			params.Adaptive = true
			line, err := tracer.Trace(single, r3.Vec{X: 0.2}, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(line.Reason).To(Equal(electro.OutOfBounds))
			for _, p := range line.Points {
				Expect(p.Y).To(BeZero())
				Expect(p.Z).To(BeZero())
			}
		})
	})

	It("follows the dipole axis into the negative charge", func() {
		params.Origin = 0
		line, err := tracer.Trace(dipole, r3.Vec{X: -0.8}, params)
		Expect(err).NotTo(HaveOccurred())
		Expect(line.Reason).To(Equal(electro.Absorbed))
		last := line.Points[len(line.Points)-1]
		Expect(dist(last, r3.Vec{X: 1})).To(BeNumerically("<=", params.CaptureRadius))
		Expect(line.Length).To(BeNumerically("~", 1.75, 0.06))
	})

	It("stagnates at a field null", func() {
		like := electro.MustChargeSet(
			electro.ChargeSpec{X: -1, Q: uC},
			electro.ChargeSpec{X: 1, Q: uC},
		)
		line, err := tracer.Trace(like, r3.Vec{}, params)
		Expect(err).NotTo(HaveOccurred())
		Expect(line.Reason).To(Equal(electro.Stagnation))
		Expect(line.Points).To(HaveLen(1))
	})

	It("stops instead of repeating a point when stages cancel across a null", func() {
		like := electro.MustChargeSet(
			electro.ChargeSpec{X: -1, Q: uC},
			electro.ChargeSpec{X: 1, Q: uC},
		)
		params.Origin = 0
		line, err := tracer.Trace(like, r3.Vec{X: -0.8}, params)
		Expect(err).NotTo(HaveOccurred())
		Expect(line.Reason).To(Equal(electro.Stagnation))
		Expect(line.Steps).To(BeNumerically("<", params.MaxSteps))
		Expect(line.Points).To(HaveLen(line.Steps + 1))
		for i := 1; i < len(line.Points); i++ {
			Expect(line.Points[i]).NotTo(Equal(line.Points[i-1]), "point %d", i)
		}
		last := line.Points[len(line.Points)-1]
		Expect(r3.Norm(last)).To(BeNumerically("<", params.StepSize))
	})

	It("keeps adaptive steps within tolerance", func() {
		// q_a cos(theta_a) + q_b cos(theta_b) is constant along a line
		flux := func(p r3.Vec) float64 {
			a, b := r3.Sub(p, r3.Vec{X: -1}), r3.Sub(p, r3.Vec{X: 1})
			return a.X/r3.Norm(a) - b.X/r3.Norm(b)
		}
		params.Origin = 0
		params.Adaptive = true
		params.Tolerance = 1e-9
		params.MaxSteps = 5000
		seed := r3.Vec{X: -0.9, Y: 0.1732}
		line, err := tracer.Trace(dipole, seed, params)
		Expect(err).NotTo(HaveOccurred())
		Expect(line.Reason).To(Equal(electro.Absorbed))

		want := flux(seed)
		for i, p := range line.Points {
			Expect(flux(p)).To(BeNumerically("~", want, 1e-4), "point %d", i)
		}
	})

	It("reports a seed outside the domain", func() {
		line, err := tracer.Trace(single, r3.Vec{X: 10}, params)
		Expect(err).NotTo(HaveOccurred())
		Expect(line.Reason).To(Equal(electro.OutOfBounds))
		Expect(line.Steps).To(BeZero())
	})

	Context("with bad input", func() {
		It("rejects a seed on a charge", func() {
			_, err := tracer.Trace(single, r3.Vec{}, params)
			Expect(err).To(MatchError(electro.ErrSingularField))
		})

		It("rejects a zero step", func() {
			params.StepSize = 0
			_, err := tracer.Trace(single, r3.Vec{X: 1}, params)
			Expect(err).To(MatchError(electro.ErrInvalidParams))
		})

		It("rejects an unknown origin", func() {
			params.Origin = 7
			_, err := tracer.Trace(single, r3.Vec{X: 1}, params)
			Expect(err).To(MatchError(electro.ErrChargeIndex))
		})

		It("rejects an unknown integrator", func() {
			params.Integrator = "leapfrog"
			_, err := tracer.Trace(single, r3.Vec{X: 1}, params)
			Expect(err).To(MatchError(electro.ErrInvalidParams))
		})
	})
})

var _ = Describe("Seeds", func() {
	It("places seeds around positive charges only", func() {
		dipole := electro.MustChargeSet(
			electro.ChargeSpec{X: -1, Q: uC},
			electro.ChargeSpec{X: 1, Q: -uC},
		)
		seeds := tracer.SphereSeeds(dipole, 8, 0.2)
		Expect(seeds).To(HaveLen(8))
		for _, s := range seeds {
			Expect(s.Origin).To(Equal(0))
			Expect(s.Direction).To(Equal(electro.Forward))
			Expect(dist(s.Point, r3.Vec{X: -1})).To(BeNumerically("~", 0.2, 1e-12))
		}
	})

	It("seeds negative charges backward when nothing is positive", func() {
		neg := electro.MustChargeSet(electro.ChargeSpec{Q: -uC})
		seeds := tracer.SphereSeeds(neg, 4, 0.2)
		Expect(seeds).To(HaveLen(4))
		Expect(seeds[0].Direction).To(Equal(electro.Backward))
	})

	It("draws random seeds inside the bounds", func() {
		b := electro.Cube(2)
		seeds := tracer.RandomSeeds(rand.New(rand.NewSource(1)), 50, b)
		Expect(seeds).To(HaveLen(50))
		for _, s := range seeds {
			Expect(b.Contains(s.Point)).To(BeTrue())
			Expect(s.Origin).To(Equal(-1))
		}
	})
})

var _ = Describe("Batches", func() {
	var (
		cs    *electro.ChargeSet
		seeds []tracer.Seed
	)

	BeforeEach(func() {
		cs = electro.MustChargeSet(
			electro.ChargeSpec{X: -1, Q: uC},
			electro.ChargeSpec{X: 1, Q: -uC},
		)
		seeds = tracer.SphereSeeds(cs, 12, 0.2)
	})

	It("traces in parallel in seed order", func() {
		params := tracer.DefaultParams()
		all, err := tracer.TraceAll(context.Background(), cs, seeds, params)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(len(seeds)))

		i := 0
		for line, err := range tracer.Lines(cs, seeds, params) {
			Expect(err).NotTo(HaveOccurred())
			Expect(line.Seed).To(Equal(all[i].Seed))
			Expect(line.Points).To(Equal(all[i].Points))
			Expect(line.Reason).To(Equal(all[i].Reason))
			i++
		}
		Expect(i).To(Equal(len(seeds)))

		counts := tracer.Summary(all)
		total := 0
		for _, n := range counts {
			total += n
		}
		Expect(total).To(Equal(len(seeds)))
	})

	It("stops lazily when the consumer breaks", func() {
		n := 0
		for range tracer.Lines(cs, seeds, tracer.DefaultParams()) {
			n++
			if n == 2 {
				break
			}
		}
		Expect(n).To(Equal(2))
	})

	It("honours cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := tracer.TraceAll(ctx, cs, seeds, tracer.DefaultParams())
		Expect(err).To(MatchError(context.Canceled))
	})
})
