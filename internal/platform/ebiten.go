// Package platform adapts external frame sources to the frame driver: the
// ebiten render loop for windowed builds and a ticker for headless runs.
// Both deliver phase callbacks at their own rate; the driver's guards decide
// whether each one is dispatched or shed.
package platform

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/kjkrol/gokg/geom"
	"github.com/kjkrol/goko/pkg/frame"
	"github.com/kjkrol/goko/pkg/input"
)

// mousePointerID is the touch id used for the primary mouse button, so
// desktop builds exercise the same router path as touch devices.
const mousePointerID int64 = 0

type GameConfig struct {
	Width         int
	Height        int
	FixedTimestep time.Duration
	MaxFrameTime  time.Duration
}

// Game implements ebiten.Game. Every rendered frame it captures raw input,
// invokes the pre-update and update callbacks, and drains the fixed-timestep
// accumulator into fixed-update callbacks.
type Game struct {
	driver *frame.Driver
	router *input.Router
	cfg    GameConfig
	draw   func(screen *ebiten.Image)

	lastTime    time.Time
	accumulator time.Duration
	touchIDs    []ebiten.TouchID
	releasedIDs []ebiten.TouchID
	justPressed []ebiten.TouchID
}

func NewGame(driver *frame.Driver, router *input.Router, cfg GameConfig, draw func(*ebiten.Image)) *Game {
	if cfg.FixedTimestep <= 0 {
		cfg.FixedTimestep = time.Second / 120
	}
	if cfg.MaxFrameTime <= 0 {
		cfg.MaxFrameTime = 250 * time.Millisecond
	}
	return &Game{
		driver:   driver,
		router:   router,
		cfg:      cfg,
		draw:     draw,
		lastTime: time.Now(),
	}
}

func (g *Game) Update() error {
	g.captureInput()

	now := time.Now()
	dt := now.Sub(g.lastTime)
	g.lastTime = now
	// Clamp catch-up after stalls so we never simulate a long gap at once.
	if dt > g.cfg.MaxFrameTime {
		dt = g.cfg.MaxFrameTime
	}

	g.driver.PreUpdate(dt)
	g.driver.Update(dt)

	g.accumulator += dt
	for g.accumulator >= g.cfg.FixedTimestep {
		g.driver.FixedUpdate(g.cfg.FixedTimestep)
		g.accumulator -= g.cfg.FixedTimestep
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.draw != nil {
		g.draw(screen)
	}
}

func (g *Game) Layout(int, int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// captureInput pushes this tick's raw touch and mouse events into the
// router. Touch ids are offset by one to keep id 0 for the mouse pointer.
func (g *Game) captureInput() {
	g.justPressed = inpututil.AppendJustPressedTouchIDs(g.justPressed[:0])
	pressed := make(map[ebiten.TouchID]bool, len(g.justPressed))
	for _, id := range g.justPressed {
		pressed[id] = true
	}

	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	for _, id := range g.touchIDs {
		x, y := ebiten.TouchPosition(id)
		phase := input.Moved
		if pressed[id] {
			phase = input.Began
		}
		g.router.Push(input.Touch{
			ID:    int64(id) + 1,
			Phase: phase,
			Pos:   geom.NewVec(float64(x), float64(y)),
		})
	}

	g.releasedIDs = inpututil.AppendJustReleasedTouchIDs(g.releasedIDs[:0])
	for _, id := range g.releasedIDs {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		g.router.Push(input.Touch{
			ID:    int64(id) + 1,
			Phase: input.Ended,
			Pos:   geom.NewVec(float64(x), float64(y)),
		})
	}

	x, y := ebiten.CursorPosition()
	pos := geom.NewVec(float64(x), float64(y))
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.router.Push(input.Touch{ID: mousePointerID, Phase: input.Began, Pos: pos})
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.router.Push(input.Touch{ID: mousePointerID, Phase: input.Ended, Pos: pos})
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		g.router.Push(input.Touch{ID: mousePointerID, Phase: input.Moved, Pos: pos})
	}
}
