package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/taigrr/orrery/pkg/config"
	"github.com/taigrr/orrery/pkg/render"
)

// runHeadless renders n frames at the configured size and writes them as
// PNG files. More than one frame numbers the files after out.
func runHeadless(cfg config.Config, out string, n int) error {
	if n < 1 {
		return fmt.Errorf("frames %d < 1", n)
	}

	fb, err := render.NewFramebuffer(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	scene, err := NewScene(cfg, fb)
	if err != nil {
		return err
	}

	bar := progressbar.Default(int64(n), "rendering")
	defer bar.Close()

	for i := range n {
		scene.Step()
		scene.Frame()

		path := framePath(out, i, n)
		if err := fb.SavePNG(path); err != nil {
			return err
		}
		st := scene.Renderer.Stats
		slog.Debug("frame written",
			"path", path,
			"triangles", st.Triangles,
			"rasterized", st.Rasterized,
			"fragments", st.Fragments,
			"non_finite", st.NonFinite)
		bar.Add(1)
	}
	return nil
}

// framePath returns out for single frames, otherwise out with a zero padded
// frame number before the extension: planet.png -> planet_0003.png.
func framePath(out string, i, n int) string {
	if n == 1 {
		return out
	}
	ext := filepath.Ext(out)
	return fmt.Sprintf("%s_%04d%s", strings.TrimSuffix(out, ext), i, ext)
}
