package render

import (
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/shader"
)

// bandsPerWorker oversubscribes row bands so uneven bands balance out.
const bandsPerWorker = 4

// drawParallel renders in two stages. Triangles are prepared concurrently
// into an ordered slice. Then horizontal bands of rows are rasterized
// concurrently, each band walking the triangles in index order. A pixel
// belongs to exactly one band, so the depth test sees the same sequence of
// fragments as the serial path.
func (r *Renderer) drawParallel(mesh MeshRenderer, mvp math3d.Mat4, s shader.Shader, u shader.Uniforms) Stats {
	n := mesh.TriangleCount()
	if cap(r.tris) < n {
		r.tris = make([]preparedTriangle, n)
	}
	tris := r.tris[:n]
	workers := r.Workers

	// Stage 1: vertex work
	chunk := (n + workers - 1) / workers
	prepStats := make([]Stats, workers)
	var g errgroup.Group
	g.SetLimit(workers)
	for w := range workers {
		lo, hi := w*chunk, min((w+1)*chunk, n)
		if lo >= hi {
			break
		}
		g.Go(func() error {
			st := &prepStats[w]
			for i := lo; i < hi; i++ {
				r.prepare(&tris[i], mesh, i, mvp, s, u)
				st.count(&tris[i])
			}
			return nil
		})
	}
	// Workers never return errors.
	_ = g.Wait()

	// Stage 2: pixel work
	height := r.fb.Height
	bands := min(workers*bandsPerWorker, height)
	rows := (height + bands - 1) / bands
	bandStats := make([]Stats, bands)
	var rg errgroup.Group
	rg.SetLimit(workers)
	for b := range bands {
		rowMin, rowMax := b*rows, min((b+1)*rows, height)-1
		if rowMin > rowMax {
			break
		}
		rg.Go(func() error {
			st := &bandStats[b]
			for i := range tris {
				t := &tris[i]
				if t.outcome != triVisible || t.maxY < rowMin || t.minY > rowMax {
					continue
				}
				r.rasterize(t, s, u, rowMin, rowMax, st)
			}
			return nil
		})
	}
	_ = rg.Wait()

	var total Stats
	for _, st := range prepStats {
		total.add(st)
	}
	for _, st := range bandStats {
		total.add(st)
	}
	return total
}
