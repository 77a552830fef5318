package utils

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/voxelsplace/voxedit/api"
	"github.com/voxelsplace/voxedit/config"
	"github.com/voxelsplace/voxedit/editor"
	"github.com/voxelsplace/voxedit/voxel"
)

// RunNewModel writes an empty w*h*d model.
func RunNewModel(ctx context.Context, w, h, d int, outPath string, opts voxel.EncodeOptions) error {
	data, err := api.NewModel(w, h, d, opts)
	if err != nil {
		return err
	}
	if err := voxel.WriteFile(ctx, outPath, data); err != nil {
		return err
	}
	fmt.Printf(".voxm saved (%d bytes)\n", len(data))
	return nil
}

func RunInfo(ctx context.Context, inPath string) (api.ModelInfo, error) {
	data, err := voxel.ReadFile(ctx, inPath)
	if err != nil {
		return api.ModelInfo{}, err
	}
	info, err := api.Info(data)
	if err != nil {
		return api.ModelInfo{}, fmt.Errorf("%s: %w", inPath, err)
	}
	return info, nil
}

// RunEditModel loads inPath into an editing session, applies the JSON edit
// script at scriptPath and saves the result to outPath.
func RunEditModel(ctx context.Context, inPath, scriptPath, outPath string, cfg config.Config, logger *log.Logger) error {
	raw, err := os.ReadFile(scriptPath)
	if err != nil {
		return err
	}
	script, err := api.ParseScript(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", scriptPath, err)
	}
	s := editor.New(voxel.NewDefault(), cfg, nil, logger)
	defer s.Close()
	if err := s.Load(ctx, inPath); err != nil {
		return err
	}
	err = s.Edit(func(g *voxel.Grid) error {
		return script.Apply(g, cfg.ClearPolicy())
	})
	if err != nil {
		return fmt.Errorf("failed to edit %s: %w", inPath, err)
	}
	if err := s.Save(ctx, outPath); err != nil {
		return err
	}
	size := s.Size()
	fmt.Printf(".voxm updated (%dx%dx%d, %d ops)\n", size.W, size.H, size.D, len(script.Ops))
	return nil
}

func RunRecompress(ctx context.Context, inPath, outPath string, opts voxel.EncodeOptions) error {
	data, err := voxel.ReadFile(ctx, inPath)
	if err != nil {
		return err
	}
	out, err := api.Recompress(data, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}
	if err := voxel.WriteFile(ctx, outPath, out); err != nil {
		return err
	}
	fmt.Printf("%s: %d -> %d bytes (%s)\n", outPath, len(data), len(out), opts.Compression)
	return nil
}
