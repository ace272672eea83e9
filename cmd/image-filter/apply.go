package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/menta2k/image-filter/internal/utils"
	"github.com/menta2k/image-filter/pkg/processing"
	"github.com/menta2k/image-filter/pkg/types"
)

var (
	applyFlags  filterFlags
	applyInput  string
	applyOutput string
	applyDebug  bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Filter a single image from a file or URL",
	Example: `  image-filter apply -i portrait.jpg --style warm --blush 40
  image-filter apply -i https://example.com/p.png -o out/p.webp --slim 30 --lossless`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyFlags.apply(cmd, cfg); err != nil {
			return err
		}
		return runApply(cmd)
	},
}

func init() {
	applyCmd.Flags().StringVarP(&applyInput, "input", "i", "", "input image path or URL")
	applyCmd.Flags().StringVarP(&applyOutput, "output", "o", "", "output path (default: <output.dir>/<name><suffix>.<format>)")
	applyCmd.Flags().BoolVar(&applyDebug, "debug", false, "also write an overlay showing the cosmetic regions and slimming band")
	bindFilterFlags(applyCmd, &applyFlags)

	applyCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command) error {
	ctx := cmd.Context()
	f, err := newFilter(ctx)
	if err != nil {
		return err
	}

	opts := cfg.EncodeOptions()
	output := applyOutput
	if output == "" {
		output = utils.GenerateOutputFilename(sourceName(applyInput), cfg.Output.Dir, cfg.Output.Prefix, cfg.Output.Suffix, opts.Format)
	} else if !cmd.Flags().Changed("format") {
		if format := processing.FormatFromPath(output); format != "" {
			opts.Format = format
		}
	}

	img, err := f.LoadImage(applyInput)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", applyInput, err)
	}
	glog.V(1).Infof("loaded %s (%dx%d)", applyInput, img.Bounds().Dx(), img.Bounds().Dy())

	buf, err := f.Apply(ctx, img, cfg.Filter)
	if err != nil {
		return err
	}
	data, err := f.Encode(buf, opts)
	if err != nil {
		return err
	}

	if err := utils.EnsureDir(filepath.Dir(output)); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := writeFile(output, data); err != nil {
		return err
	}
	glog.Infof("wrote %s (%s)", output, utils.FormatFileSize(int64(len(data))))

	if DB != nil {
		id, err := DB.Save(ctx, getName(applyInput), opts.Format, buf.Width(), buf.Height(), data)
		if err != nil {
			return err
		}
		glog.Infof("stored %s as id %d", output, id)
	}

	if applyDebug {
		p := processing.NewProcessor()
		dbgPath := strings.TrimSuffix(output, filepath.Ext(output)) + "_regions.png"
		overlay := p.CreateRegionOverlay(buf.Image())
		if err := p.SaveImage(overlay, dbgPath, types.EncodeOptions{Format: "png", Quality: 100}); err != nil {
			glog.Warningf("debug overlay save failed: %v", err)
		} else {
			glog.Infof("wrote %s", dbgPath)
		}
	}
	return nil
}

// sourceName returns a local-looking name for a path or URL so output
// names can be derived from either.
func sourceName(source string) string {
	if i := strings.IndexAny(source, "?#"); i >= 0 {
		source = source[:i]
	}
	return source[strings.LastIndex(source, "/")+1:]
}

func getName(source string) string {
	base := sourceName(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
