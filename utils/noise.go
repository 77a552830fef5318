package utils

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alitto/pond/v2"

	"github.com/voxelsplace/voxedit/voxel"
)

const noiseColors = 63

// generateNoiseGrid fills roughly percentage% of a size^3 grid with colors
// drawn from a small random palette. The rest stays transparent.
func generateNoiseGrid(size int, percentage float64, r *rand.Rand) (*voxel.Grid, error) {
	g, err := voxel.New(size, size, size)
	if err != nil {
		return nil, err
	}
	percentage = min(max(percentage, 0), 100)
	total := g.Len()
	want := min(int(float64(total)*(percentage/100.0)+0.5), total)

	palette := make([]voxel.Color, noiseColors)
	for i := range palette {
		palette[i] = voxel.RGBA(uint8(r.IntN(256)), uint8(r.IntN(256)), uint8(r.IntN(256)), 0xff)
	}

	// partial Fisher-Yates over linear indices
	idx := make([]int, total)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < want; i++ {
		j := i + r.IntN(total-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	s := g.Size()
	for _, i := range idx[:want] {
		p := s.Point(i)
		g.Set(p.X, p.Y, p.Z, voxel.Paint(palette[r.IntN(len(palette))]))
	}
	return g, nil
}

// RunGenerateNoise writes amount models named 0.voxm..(amount-1).voxm to
// outDir, each a size^3 grid with the given fill percentage.
func RunGenerateNoise(ctx context.Context, percentage float64, amount, size int, outDir string, opts voxel.EncodeOptions, workers int) error {
	if amount < 0 {
		amount = 0
	}
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	pool := pond.NewPool(max(workers, 1))
	defer pool.StopAndWait()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	baseSeed := uint64(time.Now().UnixNano())
	for i := 0; i < amount; i++ {
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			// per-file seed on a Weyl sequence
			const weyl = uint64(0x9e3779b97f4a7c15)
			r := rand.New(rand.NewPCG(baseSeed, (uint64(i)+1)*weyl))
			path := filepath.Join(outDir, fmt.Sprintf("%d.voxm", i))
			err := func() error {
				g, err := generateNoiseGrid(size, percentage, r)
				if err != nil {
					return err
				}
				return voxel.SaveFile(ctx, path, g, opts)
			}()
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("save %s: %w", path, err))
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return err
	}
	fmt.Printf("%d noise models written to %s\n", amount, outDir)
	return nil
}
