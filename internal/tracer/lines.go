package tracer

import (
	"context"
	"iter"

	"github.com/san-kum/chargefield/internal/electro"
)

func (s Seed) params(base Params) Params {
	p := base
	p.Origin = s.Origin
	if s.Direction != 0 {
		p.Direction = s.Direction
	}
	return p
}

// Lines traces the seeds lazily, one line per iteration, in seed order.
// Seed origin and direction override those in p. Iteration stops early when
// the consumer breaks.
func Lines(cs *electro.ChargeSet, seeds []Seed, p Params) iter.Seq2[electro.FieldLine, error] {
	return func(yield func(electro.FieldLine, error) bool) {
		for _, s := range seeds {
			line, err := Trace(cs, s.Point, s.params(p))
			if !yield(line, err) {
				return
			}
		}
	}
}

// TraceAll traces every seed concurrently. The result is in seed order. The
// first error, by seed order, is returned along with no lines.
func TraceAll(ctx context.Context, cs *electro.ChargeSet, seeds []Seed, p Params) ([]electro.FieldLine, error) {
	lines := make([]electro.FieldLine, len(seeds))
	errs := make([]error, len(seeds))

	electro.ParallelFor(len(seeds), 2, func(start, end int) {
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				continue
			}
			lines[i], errs[i] = Trace(cs, seeds[i].Point, seeds[i].params(p))
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return lines, nil
}

// Summary counts lines by termination reason.
func Summary(lines []electro.FieldLine) map[electro.Termination]int {
	out := make(map[electro.Termination]int)
	for _, l := range lines {
		out[l.Reason]++
	}
	return out
}
