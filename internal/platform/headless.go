package platform

import (
	"context"
	"time"

	"github.com/kjkrol/goko/pkg/frame"
)

// Headless drives the frame callbacks from a ticker instead of a window.
// Useful for simulations, benchmarks and demos without a display.
type Headless struct {
	driver *frame.Driver
	rate   time.Duration
	step   time.Duration
	clamp  time.Duration
}

func NewHeadless(driver *frame.Driver, rate, fixedTimestep time.Duration) *Headless {
	if rate <= 0 {
		rate = time.Second / 60
	}
	if fixedTimestep <= 0 {
		fixedTimestep = time.Second / 120
	}
	return &Headless{
		driver: driver,
		rate:   rate,
		step:   fixedTimestep,
		clamp:  250 * time.Millisecond,
	}
}

// Run blocks, delivering frames until the context is cancelled.
func (h *Headless) Run(ctx context.Context) {
	ticker := time.NewTicker(h.rate)
	defer ticker.Stop()

	last := time.Now()
	var accumulator time.Duration
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if dt > h.clamp {
				dt = h.clamp
			}
			h.driver.PreUpdate(dt)
			h.driver.Update(dt)
			accumulator += dt
			for accumulator >= h.step {
				h.driver.FixedUpdate(h.step)
				accumulator -= h.step
			}
		}
	}
}
