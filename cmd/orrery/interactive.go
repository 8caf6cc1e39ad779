package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/orrery/pkg/config"
	"github.com/taigrr/orrery/pkg/render"
)

// runInteractive shows the scene in the terminal until the user quits.
// With a config path the file is watched and reloads apply live.
func runInteractive(cfg config.Config, cfgPath string) error {
	term := uv.DefaultTerminal()

	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	fb, err := render.NewFramebuffer(render.TerminalSize(cols, rows))
	if err != nil {
		return err
	}
	scene, err := NewScene(cfg, fb)
	if err != nil {
		return err
	}

	// Context for clean shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var (
		reloads    <-chan config.Config
		reloadErrs <-chan error
	)
	if cfgPath != "" {
		reloads, reloadErrs, err = config.Watch(ctx, cfgPath)
		if err != nil {
			return err
		}
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	ticker := time.NewTicker(time.Second / time.Duration(cfg.FPS))
	defer ticker.Stop()

	events := term.Events()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				if err := resize(term, scene, ev.Width, ev.Height); err != nil {
					return err
				}
			case uv.KeyPressEvent:
				if scene.HandleKey(ev.String()) {
					return nil
				}
			}

		case c, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			scene.Apply(c)
			if c.Shader != cfg.Shader {
				// Only follow the file's shader when it changed, so a
				// reload keeps a choice made with the number keys.
				if err := scene.SelectShader(c.Shader); err != nil {
					slog.Warn("config reload", "err", err)
				}
			}
			cfg = c
			slog.Info("config reloaded", "path", cfgPath)

		case err, ok := <-reloadErrs:
			if !ok {
				reloadErrs = nil
				continue
			}
			slog.Warn("config reload failed", "err", err)

		case <-ticker.C:
			scene.Step()
			scene.Frame()
			term.Draw(scene.Renderer.Framebuffer())
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}

// resize matches the framebuffer and camera aspect to a new terminal size.
func resize(term *uv.Terminal, scene *Scene, cols, rows int) error {
	term.Erase()
	term.Resize(cols, rows)

	fb, err := render.NewFramebuffer(render.TerminalSize(cols, rows))
	if err != nil {
		// A zero sized terminal; keep drawing into the old buffer.
		slog.Debug("resize skipped", "cols", cols, "rows", rows, "err", err)
		return nil
	}
	scene.Renderer.SetFramebuffer(fb)
	scene.Camera.SetAspectRatio(float32(fb.Width) / float32(fb.Height))
	return nil
}
