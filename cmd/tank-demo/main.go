// Command tank-demo is a small touch-controlled tank built on the goko
// runtime: a virtual joystick drives a rigidbody tank, a fire button spawns
// projectiles that despawn on contact.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/kjkrol/gokg/geom"
	"github.com/kjkrol/goko/internal/config"
	"github.com/kjkrol/goko/internal/physics"
	"github.com/kjkrol/goko/internal/platform"
	"github.com/kjkrol/goko/pkg/asset"
	"github.com/kjkrol/goko/pkg/frame"
	"github.com/kjkrol/goko/pkg/input"
	"github.com/kjkrol/goko/pkg/phys"
	"github.com/kjkrol/goko/pkg/scene"
	"go.uber.org/zap"
)

const (
	screenW = 800
	screenH = 600

	joystickX = 120.0
	joystickY = 480.0
	joystickR = 90.0

	fireX = 700.0
	fireY = 480.0
	fireR = 60.0
)

func main() {
	cfgPath := flag.String("config", "", "path to TOML config (defaults apply when empty)")
	assetDir := flag.String("assets", "cmd/tank-demo/assets", "asset directory")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	logger, err := cfg.BuildLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, *assetDir, logger); err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
}

func run(cfg *config.Config, assetDir string, logger *zap.Logger) error {
	// The joystick overlay is framework-required imagery: refuse to start
	// half-initialized rather than render without it.
	joystickImg, err := loadImage(filepath.Join(assetDir, "joystick.png"))
	if err != nil {
		return fmt.Errorf("mandatory UI asset: %w", err)
	}

	sc := scene.New(logger.Named("scene"))
	router := input.NewRouter(cfg.Input.BufferSize, logger.Named("input"))
	loop := frame.NewLoop(cfg.Engine.LoopBuffer, logger.Named("loop"))
	driver := frame.NewDriver(loop, sc, router, logger.Named("driver"))

	world := physics.New(geom.NewVec(0.0, 0.0), logger.Named("physics"))
	registry := phys.NewRegistry()
	world.SetListener(phys.NewDispatcher(registry, driver, logger.Named("contacts")))
	driver.SetStepper(world)
	sc.SetWorld(world)

	router.AddTarget("joystick", squareAround(joystickX, joystickY, joystickR))
	router.AddTarget("fire", squareAround(fireX, fireY, fireR))

	factories := asset.NewRegistry()
	factories.Register("collider", colliderFactory(world, registry))
	factories.Register("rigidbody", func(map[string]any) (scene.Component, error) {
		return phys.NewRigidbody(world), nil
	})

	arenaTpl, err := asset.Load(filepath.Join(assetDir, "arena.yaml"))
	if err != nil {
		return err
	}
	tankTpl, err := asset.Load(filepath.Join(assetDir, "tank.yaml"))
	if err != nil {
		return err
	}
	projectileTpl, err := asset.Load(filepath.Join(assetDir, "projectile.yaml"))
	if err != nil {
		return err
	}

	if _, err := arenaTpl.Instantiate(sc, factories); err != nil {
		return err
	}
	tank, err := tankTpl.Instantiate(sc, factories)
	if err != nil {
		return err
	}

	fire := func(from *scene.Object) {
		obj, err := projectileTpl.Instantiate(sc, factories)
		if err != nil {
			logger.Warn("projectile spawn failed", zap.Error(err))
			return
		}
		pos := from.Transform().WorldPosition()
		muzzle := geom.NewVec(pos[0], pos[1]-30)
		obj.Transform().SetPosition(pos)
		if c, ok := scene.Get[*phys.Collider](obj); ok {
			world.SetBodyPosition(c.Handle(), muzzle)
		}
		if rb, ok := scene.Get[*phys.Rigidbody](obj); ok {
			rb.SetVelocity(geom.NewVec(0.0, -300.0))
		}
		obj.Add(&Projectile{ttl: 2 * time.Second})
	}
	if err := tank.Add(&TankController{
		router:    router,
		joyCenter: geom.NewVec(joystickX, joystickY),
		speed:     140,
		fire:      fire,
	}); err != nil {
		return err
	}

	camera := sc.NewObject("camera")
	follow := &CameraFollow{target: tank}
	if err := camera.Add(follow); err != nil {
		return err
	}
	sc.SetCamera(follow)

	view := &viewState{}
	viewRoot := sc.NewObject("view-root")
	if err := viewRoot.Add(&viewPublisher{view: view}); err != nil {
		return err
	}

	loop.Start()
	defer loop.Stop()

	game := platform.NewGame(driver, router, platform.GameConfig{
		Width:         screenW,
		Height:        screenH,
		FixedTimestep: cfg.Engine.FixedTimestep,
		MaxFrameTime:  cfg.Engine.MaxFrameTime,
	}, func(screen *ebiten.Image) {
		drawFrame(screen, view, joystickImg)
	})

	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("goko tank demo")
	ebiten.SetTPS(cfg.Engine.TPS)
	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}

func loadImage(path string) (*ebiten.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

func squareAround(x, y, r float64) geom.AABB[float64] {
	return geom.NewAABB(geom.NewVec(x-r, y-r), geom.NewVec(x+r, y+r))
}

// viewState is the draw-side snapshot; the publisher rebuilds it on the loop
// goroutine every update, the render thread only reads under the lock.
type viewState struct {
	mu      sync.Mutex
	sprites []sprite
}

type sprite struct {
	x, y, r float64
	clr     color.RGBA
}

type viewPublisher struct {
	scene.Base

	view *viewState
}

func (v *viewPublisher) Update(time.Duration) {
	sprites := make([]sprite, 0, 16)
	for _, o := range v.Object().Scene().Objects() {
		p := o.Transform().WorldPosition()
		switch o.Tag {
		case "tank":
			sprites = append(sprites, sprite{x: p[0], y: p[1], r: 18, clr: color.RGBA{60, 160, 60, 255}})
		case "projectile":
			sprites = append(sprites, sprite{x: p[0], y: p[1], r: 4, clr: color.RGBA{230, 220, 80, 255}})
		case "wall":
			sprites = append(sprites, sprite{x: p[0], y: p[1], r: 10, clr: color.RGBA{120, 120, 120, 255}})
		}
	}
	v.view.mu.Lock()
	v.view.sprites = sprites
	v.view.mu.Unlock()
}

func drawFrame(screen *ebiten.Image, view *viewState, joystick *ebiten.Image) {
	screen.Fill(color.RGBA{24, 26, 30, 255})

	view.mu.Lock()
	sprites := view.sprites
	view.mu.Unlock()
	for _, s := range sprites {
		vector.DrawFilledCircle(screen, float32(s.x), float32(s.y), float32(s.r), s.clr, true)
	}

	op := &ebiten.DrawImageOptions{}
	w, h := joystick.Bounds().Dx(), joystick.Bounds().Dy()
	op.GeoM.Scale(2*joystickR/float64(w), 2*joystickR/float64(h))
	op.GeoM.Translate(joystickX-joystickR, joystickY-joystickR)
	op.ColorScale.ScaleAlpha(0.35)
	screen.DrawImage(joystick, op)

	vector.DrawFilledCircle(screen, fireX, fireY, fireR, color.RGBA{180, 60, 60, 90}, true)
}
