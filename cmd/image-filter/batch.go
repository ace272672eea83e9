package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/menta2k/image-filter/internal/utils"
)

var (
	batchFlags     filterFlags
	batchInput     string
	batchOutput    string
	batchRecursive bool
	batchFailFast  bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Filter every image in a directory with the same settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := batchFlags.apply(cmd, cfg); err != nil {
			return err
		}
		if cmd.Flags().Changed("output") {
			cfg.Output.Dir = batchOutput
		}
		return runBatch(cmd)
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchInput, "input", "i", "", "input directory")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "output directory (default from config)")
	batchCmd.Flags().BoolVarP(&batchRecursive, "recursive", "r", false, "descend into sub-directories")
	batchCmd.Flags().BoolVar(&batchFailFast, "fail-fast", false, "stop at the first image that fails")
	bindFilterFlags(batchCmd, &batchFlags)

	batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command) error {
	ctx := cmd.Context()

	if !utils.DirExists(batchInput) {
		return fmt.Errorf("input directory %s does not exist", batchInput)
	}
	files, err := utils.ListImageFiles(batchInput, batchRecursive, cfg.Output.Dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		glog.Warningf("no images found in %s", batchInput)
		return nil
	}
	if err := utils.EnsureDir(cfg.Output.Dir); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := newFilter(ctx)
	if err != nil {
		return err
	}
	opts := cfg.EncodeOptions()

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Filtering"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)

	var failed int
	for _, in := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		out := utils.GenerateOutputFilename(in, cfg.Output.Dir, cfg.Output.Prefix, cfg.Output.Suffix, opts.Format)
		if err := f.ProcessImageFile(ctx, in, out, cfg.Filter, opts); err != nil {
			if ctx.Err() != nil {
				return err
			}
			failed++
			glog.Errorf("%s: %v", in, err)
			if batchFailFast {
				return err
			}
		} else {
			glog.V(1).Infof("wrote %s", out)
		}
		bar.Add(1)
	}
	bar.Finish()
	fmt.Fprintln(os.Stderr)

	glog.Infof("processed %d images, %d failed", len(files)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(files))
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
