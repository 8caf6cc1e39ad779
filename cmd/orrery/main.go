// orrery - Procedural Planets in the Terminal
// Render noise-shaded planets and a boiling star on a CPU rasterizer, live
// in the terminal or headless to PNG.
//
// Controls:
//
//	1-6         - Pick shader (rocky, gasgiant, ocean, ice, volcanic, star)
//	Left/Right  - Orbit camera
//	Up/Down     - Zoom in/out
//	f/F         - Star noise frequency up/down
//	s/S         - Star animation speed up/down
//	o/O         - Star octaves up/down
//	d/D         - Star displacement up/down
//	l/L         - Star flare up/down
//	r           - Reset star tuning
//	x           - Toggle wireframe overlay
//	?           - Toggle caption
//	q/Esc       - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/taigrr/orrery/pkg/config"
	"github.com/taigrr/orrery/pkg/render"
	"github.com/taigrr/orrery/pkg/shader"
	"golang.org/x/term"
)

var (
	configPath = flag.String("config", "", "Path to YAML config (hot reloaded in the viewer)")
	shaderName = flag.String("shader", "star", "Shader: "+strings.Join(shader.Names(), ", "))
	modelName  = flag.String("model", config.ModelSphere, "Model: sphere, octahedron, or a .glb/.gltf path")
	segments   = flag.Int("segments", 64, "Sphere segments around the equator")
	rings      = flag.Int("rings", 64, "Sphere rings from pole to pole")
	width      = flag.Int("width", 1024, "Headless output width in pixels")
	height     = flag.Int("height", 768, "Headless output height in pixels")
	outPath    = flag.String("out", "", "Render headless to this PNG path instead of the terminal")
	frames     = flag.Int("frames", 1, "Headless frames to render (numbered when > 1)")
	workers    = flag.Int("workers", 0, "Render workers (0 = all CPUs, 1 = serial)")
	targetFPS  = flag.Int("fps", 60, "Target FPS")
	bgColor    = flag.String("bg", "0,0,0", "Background color (R,G,B)")
	stars      = flag.Int("stars", 500, "Background star count")
	caption    = flag.Bool("caption", true, "Draw the shader caption")
	verbose    = flag.Bool("v", false, "Verbose logging")
	logPath    = flag.String("log", "", "Log file for the interactive viewer")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "orrery - Procedural Planets in the Terminal\n\n")
		fmt.Fprintf(os.Stderr, "Usage: orrery [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  1-6         - Pick shader\n")
		fmt.Fprintf(os.Stderr, "  Left/Right  - Orbit camera\n")
		fmt.Fprintf(os.Stderr, "  Up/Down     - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  f/F s/S     - Star frequency, speed\n")
		fmt.Fprintf(os.Stderr, "  o/O d/D l/L - Star octaves, displacement, flare\n")
		fmt.Fprintf(os.Stderr, "  r           - Reset star tuning\n")
		fmt.Fprintf(os.Stderr, "  x           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle caption\n")
		fmt.Fprintf(os.Stderr, "  q/Esc       - Quit\n")
	}
	flag.Parse()

	if flag.NArg() > 0 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(*outPath == "")
	if err != nil {
		return err
	}
	defer closeLog()

	if *outPath != "" {
		return runHeadless(cfg, *outPath, *frames)
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("stdout is not a terminal (use -out to render to PNG)")
	}
	return runInteractive(cfg, *configPath)
}

// loadConfig reads -config over the defaults, then applies the flags the
// user set explicitly.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return config.Config{}, err
		}
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "shader":
			cfg.Shader = *shaderName
		case "model":
			cfg.Model = *modelName
		case "segments":
			cfg.Segments = *segments
		case "rings":
			cfg.Rings = *rings
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "workers":
			cfg.Workers = *workers
		case "fps":
			cfg.FPS = *targetFPS
		case "bg":
			cfg.Background = *bgColor
		case "stars":
			cfg.Stars = *stars
		case "caption":
			cfg.Caption = *caption
		}
	})
}

// setupLogging installs the process logger. The viewer owns the terminal,
// so it only logs when -log names a file.
func setupLogging(interactive bool) (func(), error) {
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	closeLog := func() {}
	if interactive {
		w = io.Discard
		if *logPath != "" {
			f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("open log: %w", err)
			}
			w = f
			closeLog = func() { f.Close() }
		}
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	render.SetLogger(logger)
	return closeLog, nil
}

// workerCount resolves the configured worker count; 0 means every CPU.
func workerCount(n int) int {
	if n == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}
