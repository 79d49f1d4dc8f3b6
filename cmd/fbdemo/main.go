// Command fbdemo presents an animated CPU-rendered gradient with framebuf.
//
// Usage:
//
//	fbdemo -platform gogpu            # gogpu window, wgpu HAL backend
//	fbdemo -platform ebiten           # Ebitengine window
//	fbdemo -platform headless -frames 120 -output frame.png
//
// Arrow keys or WASD move the gradient; a left click moves its origin to
// the cursor, a right click resets it.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/framebuf"
	"github.com/gogpu/framebuf/gpu"
	"github.com/gogpu/framebuf/integration/ebitenwindow"
	"github.com/gogpu/framebuf/integration/gogpuwindow"
	"github.com/gogpu/framebuf/internal/sim"
	"github.com/gogpu/framebuf/software"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type config struct {
	platform string
	backend  string
	width    int
	height   int
	title    string
	frames   int
	step     time.Duration
	output   string
	spirv    bool
	verbose  bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.platform, "platform", "gogpu", "gogpu, ebiten or headless")
	flag.StringVar(&cfg.backend, "backend", "software", "headless backend: software, gpu or auto")
	flag.IntVar(&cfg.width, "width", 640, "frame width")
	flag.IntVar(&cfg.height, "height", 360, "frame height")
	flag.StringVar(&cfg.title, "title", "framebuf demo", "window title")
	flag.IntVar(&cfg.frames, "frames", 60, "frames to present in headless mode")
	flag.DurationVar(&cfg.step, "step", time.Second/60, "simulated frame interval in headless mode")
	flag.StringVar(&cfg.output, "output", "", "write the last headless frame to this PNG file")
	flag.BoolVar(&cfg.spirv, "spirv", false, "compile the blit shader to SPIR-V (gpu backend)")
	flag.BoolVar(&cfg.verbose, "v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	framebuf.SetLogger(logger)

	stats := framebuf.NewFrameStats(0)
	if err := run(cfg, stats); err != nil {
		logger.Error("fbdemo failed", "err", err)
		os.Exit(1)
	}
	printSummary(stats.Snapshot())
}

func run(cfg config, stats *framebuf.FrameStats) error {
	demo := sim.NewDemo(stats)
	var gpuOpts []gpu.Option
	if cfg.spirv {
		gpuOpts = append(gpuOpts, gpu.WithSPIRV(true))
	}

	switch cfg.platform {
	case "gogpu":
		return gogpuwindow.Runner{
			Title:      cfg.title,
			Width:      cfg.width,
			Height:     cfg.height,
			Producer:   demo.Produce,
			Stats:      stats,
			GPUOptions: gpuOpts,
		}.Run()
	case "ebiten":
		return ebitenwindow.Runner{
			Title:    cfg.title,
			Width:    cfg.width,
			Height:   cfg.height,
			Producer: demo.Produce,
			Stats:    stats,
		}.Run()
	case "headless":
		return runHeadless(cfg, demo, stats, gpuOpts)
	default:
		return fmt.Errorf("unknown platform %q", cfg.platform)
	}
}

// stepClock advances by a fixed step on every reading, so headless runs
// report the same frame times on any machine.
type stepClock struct {
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func runHeadless(cfg config, demo *sim.Demo, stats *framebuf.FrameStats, gpuOpts []gpu.Option) error {
	backend, err := openHeadlessBackend(cfg.backend, gpuOpts)
	if err != nil {
		return err
	}
	p, err := framebuf.Initialize(backend, framebuf.FormatBGRA8, cfg.width, cfg.height,
		framebuf.WithStats(stats),
		framebuf.WithLabel("headless"),
		framebuf.WithClock(&stepClock{now: time.Now(), step: cfg.step}))
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	surface, save, release, err := headlessSurface(backend, cfg.width, cfg.height)
	if err != nil {
		return err
	}
	defer release()

	loop := framebuf.NewLoop(demo.Produce, nil)
	for i := 0; i < cfg.frames; i++ {
		if _, err := loop.Frame(p, surface, cfg.width, cfg.height); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}

	if cfg.output == "" {
		return nil
	}
	if save == nil {
		return fmt.Errorf("-output needs the software backend, got %q", cfg.backend)
	}
	if err := save(cfg.output); err != nil {
		return err
	}
	framebuf.Logger().Info("frame written", "path", cfg.output)
	return nil
}

// newGPUBackend opens a standalone GPU backend. Tests replace it.
var newGPUBackend = func(opts ...gpu.Option) (framebuf.Backend, error) {
	b, err := gpu.NewStandaloneBackend(opts...)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func openHeadlessBackend(name string, gpuOpts []gpu.Option) (framebuf.Backend, error) {
	switch name {
	case "auto":
		return openFirst(framebuf.AvailableBackends(), gpuOpts)
	case gpu.BackendName:
		return newGPUBackend(gpuOpts...)
	default:
		return framebuf.NewBackendByName(name)
	}
}

// openFirst opens the first of names that succeeds, in order. The gpu
// backend is opened directly so it gets gpuOpts; the registry factory
// would build it with defaults.
func openFirst(names []string, gpuOpts []gpu.Option) (framebuf.Backend, error) {
	errs := []error{framebuf.ErrNoBackendAvailable}
	for _, name := range names {
		var (
			b   framebuf.Backend
			err error
		)
		if name == gpu.BackendName {
			b, err = newGPUBackend(gpuOpts...)
		} else {
			b, err = framebuf.NewBackendByName(name)
		}
		if err == nil {
			framebuf.Logger().Info("backend selected", "backend", name)
			return b, nil
		}
		framebuf.Logger().Warn("backend unavailable, trying next", "backend", name, "err", err)
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}
	return nil, errors.Join(errs...)
}

// headlessSurface returns a surface matching backend, a PNG writer when
// the backend's output can be read back, and a release func.
func headlessSurface(backend framebuf.Backend, w, h int) (framebuf.Surface, func(string) error, func(), error) {
	switch b := backend.(type) {
	case *software.Backend:
		s := software.NewImageSurface(w, h)
		return s, s.SavePNG, func() {}, nil
	case *gpu.Backend:
		t, err := gpu.NewOffscreenTarget(b, framebuf.FormatBGRA8, w, h)
		if err != nil {
			return nil, nil, nil, err
		}
		return t, nil, t.Close, nil
	default:
		return nil, nil, nil, errors.New("no headless surface for this backend")
	}
}

func printSummary(s framebuf.StatsSnapshot) {
	p := message.NewPrinter(language.English)
	p.Fprintf(os.Stderr, "presented %d frames, mean %.2f ms (%.1f fps), min %.2f ms, max %.2f ms\n",
		s.Frames, ms(s.Mean), s.FPS, ms(s.Min), ms(s.Max))
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
