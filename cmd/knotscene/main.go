package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"knotscene/internal/config"
	"knotscene/internal/graphics"
	"knotscene/internal/graphics/backend"
	"knotscene/internal/graphics/renderer"
	"knotscene/internal/input"
	"knotscene/internal/lifecycle"
	"knotscene/internal/loop"
	"knotscene/internal/profiling"
	"knotscene/internal/surface"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
)

func init() {
	// GLFW and the GL context must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	var (
		configPath = flag.String("config", "", "TOML file applied over the defaults")
		width      = flag.Int("width", 0, "window width in pixels (overrides config)")
		height     = flag.Int("height", 0, "window height in pixels (overrides config)")
		fps        = flag.Int("fps", -1, "frame cap, 0 for unlimited (overrides config)")
		logLevel   = flag.String("log-level", "", "debug, info, warn or error (overrides config)")
	)
	flag.Parse()

	cfg, level, err := loadConfig(*configPath, *width, *height, *fps, *logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("knotscene exited", "err", err)
		closer.Exit(1)
	}
	closer.Close()
}

// loadConfig applies flag overrides on top of the config file and returns
// the validated config with its parsed log level.
func loadConfig(path string, width, height, fps int, logLevel string) (config.Config, slog.Level, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, slog.LevelInfo, err
	}
	if width > 0 {
		cfg.Window.Width = width
	}
	if height > 0 {
		cfg.Window.Height = height
	}
	if fps >= 0 {
		cfg.Loop.FPSLimit = fps
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, slog.LevelInfo, err
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	return cfg, level, err
}

func run(cfg config.Config, logger *slog.Logger) error {
	config.SetFPSLimit(cfg.Loop.FPSLimit)

	// Closed after the window and GLFW are torn down.
	done := make(chan struct{})
	defer close(done)

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	im := input.NewInputManager()
	graphics.BindDefaultKeys(im)

	win, err := graphics.NewWindow(cfg.Window, im)
	if err != nil {
		return err
	}
	defer win.Destroy()

	rec := profiling.New()
	rec.SetEnabled(false)

	sched := loop.NewFrameScheduler()
	coord, err := lifecycle.New(lifecycle.Deps{
		Surface:   win,
		Resize:    win,
		Pointer:   win,
		Keys:      im,
		Scheduler: sched,
		NewBackend: func(s surface.Surface) (renderer.Backend, error) {
			return backend.New(s, backend.WithLogger(logger), backend.WithProfiler(rec))
		},
		Scene:    cfg.Scene,
		Loop:     cfg.Loop,
		Logger:   logger,
		Profiler: rec,
	})
	if err != nil {
		return err
	}
	if err := coord.Mount(); err != nil {
		return err
	}

	// A signal asks the pump to stop and waits until teardown finishes.
	closer.Bind(func() {
		select {
		case <-done:
			return
		default:
		}
		logger.Info("shutdown requested")
		win.RequestClose()
		<-done
	})

	pumpErr := pump(win, sched, im, rec, logger)
	return errors.Join(pumpErr, coord.Unmount())
}

// pump drives the host scheduler until the window closes or a frame fails.
func pump(win *graphics.Window, sched *loop.FrameScheduler, im *input.InputManager, rec *profiling.Recorder, logger *slog.Logger) error {
	limiter := loop.NewLimiter()
	for !win.ShouldClose() {
		glfw.PollEvents()

		if err := sched.Tick(); err != nil {
			if errors.Is(err, renderer.ErrFrame) {
				return err
			}
			logger.Warn("tick failed", "err", err)
		}
		win.SwapBuffers()

		if im.JustPressed(input.ActionToggleProfiling) {
			on := rec.Toggle()
			logger.Info("profiling overlay", "enabled", on, "last_frame", rec.LastTopN(5))
		}
		im.PostUpdate()

		limiter.Wait(config.GetFPSLimit())
	}
	return nil
}
