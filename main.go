//go:build !(js && wasm)

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/voxelsplace/voxedit/config"
	"github.com/voxelsplace/voxedit/utils"
	"github.com/voxelsplace/voxedit/voxel"
)

func usage() {
	fmt.Println("Usage: voxtool [-config editor.yaml] <command> [args]")
	fmt.Println("Commands:")
	fmt.Println("  new W H D output.voxm                         (create an empty model)")
	fmt.Println("  info input.voxm                               (print header and surface stats)")
	fmt.Println("  edit input.voxm script.json output.voxm       (apply a JSON edit script)")
	fmt.Println("  voxm2glb input.voxm output.glb                (export the visible surface as .glb)")
	fmt.Println("  batch2glb output_dir input1.voxm [input2.voxm ...]")
	fmt.Println("  recompress input.voxm output.voxm none|zlib|zstd")
	fmt.Println("  gennoise <percentage> <amount> <size> <output_dir>  (generate random size^3 models)")
}

func main() {
	configPath := flag.String("config", "", "path to editor.yaml")
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	logger := log.New(os.Stderr, "[voxtool] ", log.LstdFlags)
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger, args); err != nil {
		stop()
		logger.Fatalf("%s: %v", args[0], err)
	}
	fmt.Println("Operation completed!")
}

func run(ctx context.Context, cfg config.Config, logger *log.Logger, args []string) error {
	need := func(n int) {
		if len(args) != n {
			usage()
			os.Exit(1)
		}
	}
	opts := cfg.EncodeOptions()

	switch args[0] {
	case "new":
		need(5)
		var w, h, d int
		for i, dst := range []*int{&w, &h, &d} {
			if _, err := fmt.Sscan(args[1+i], dst); err != nil {
				return err
			}
		}
		return utils.RunNewModel(ctx, w, h, d, args[4], opts)
	case "info":
		need(2)
		info, err := utils.RunInfo(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Println(info)
		for i, c := range info.Palette {
			fmt.Printf("  %3d %s\n", i, c)
		}
		return nil
	case "edit":
		need(4)
		return utils.RunEditModel(ctx, args[1], args[2], args[3], cfg, logger)
	case "voxm2glb":
		need(3)
		return utils.RunVOXM2GLB(ctx, args[1], args[2], cfg.Export.Generator)
	case "batch2glb":
		if len(args) < 3 {
			usage()
			os.Exit(1)
		}
		if err := os.MkdirAll(args[1], 0o755); err != nil {
			return err
		}
		return utils.RunBatch2GLB(ctx, args[1], args[2:], cfg.BatchWorkers, cfg.Export.Generator)
	case "recompress":
		need(4)
		comp, err := voxel.ParseCompression(args[3])
		if err != nil {
			return err
		}
		return utils.RunRecompress(ctx, args[1], args[2], voxel.EncodeOptions{Compression: comp})
	case "gennoise":
		need(5)
		var perc float64
		var amt, size int
		if _, err := fmt.Sscan(args[1], &perc); err != nil {
			return err
		}
		if _, err := fmt.Sscan(args[2], &amt); err != nil {
			return err
		}
		if _, err := fmt.Sscan(args[3], &size); err != nil {
			return err
		}
		return utils.RunGenerateNoise(ctx, perc, amt, size, args[4], opts, cfg.BatchWorkers)
	}
	usage()
	os.Exit(1)
	return nil
}
