package utils

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alitto/pond/v2"

	"github.com/voxelsplace/voxedit/api"
	"github.com/voxelsplace/voxedit/voxel"
)

func RunVOXM2GLB(ctx context.Context, inPath, outPath, generator string) error {
	data, err := voxel.ReadFile(ctx, inPath)
	if err != nil {
		return err
	}
	glb, err := api.ModelToGLB(data, generator)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}
	if err := voxel.WriteFile(ctx, outPath, glb); err != nil {
		return err
	}
	fmt.Printf(".glb saved (%d bytes)\n", len(glb))
	return nil
}

// RunBatch2GLB converts every input to outDir/<name>.glb on a pool of
// workers. All inputs are attempted; failures are joined into the result.
func RunBatch2GLB(ctx context.Context, outDir string, inPaths []string, workers int, generator string) error {
	if len(inPaths) == 0 {
		return fmt.Errorf("no input models")
	}
	pool := pond.NewPool(max(workers, 1))
	defer pool.StopAndWait()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, in := range inPaths {
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + ".glb"
			if err := convertQuiet(ctx, in, filepath.Join(outDir, name), generator); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return err
	}
	fmt.Printf("%d models exported to %s\n", len(inPaths), outDir)
	return nil
}

func convertQuiet(ctx context.Context, inPath, outPath, generator string) error {
	data, err := voxel.ReadFile(ctx, inPath)
	if err != nil {
		return err
	}
	glb, err := api.ModelToGLB(data, generator)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}
	return voxel.WriteFile(ctx, outPath, glb)
}
