package main

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/ironsheep/panopatch/internal/config"
	"github.com/ironsheep/panopatch/internal/imaging"
	"github.com/ironsheep/panopatch/internal/patch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var generateCmd = &cobra.Command{
	Use:   "generate [job.yaml]",
	Short: "Generate pinhole patches from a panorama",
	Long: `Generate calibrated pinhole patches from an equirectangular panorama.

The run is described by an optional YAML job file; flags override its values.
Views are given as id:lon:lat[:roll] in degrees, longitude growing to the
right and latitude upward.

Patches are written as <panorama-stem>_<id><ext> and their paths printed one
per line. Patches that fail individually are reported on stderr and make the
command exit non-zero after the others are written.

Examples:
  panopatch generate job.yaml
  panopatch generate --panorama pano.jpg -o out/ --layout grid --fov 60 --overlap 25
  panopatch generate job.yaml --footprint coverage.png --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	f := generateCmd.Flags()
	f.String("panorama", "", "equirectangular panorama to cut")
	f.StringP("output", "o", "", "output directory")
	f.Int("width", 0, "patch width in pixels (default 1024)")
	f.Int("height", 0, "patch height in pixels (default: width)")
	f.Float64("fov", 0, "vertical field of view in degrees (default 45, or 90 for cube)")
	f.String("projection", "", "tangent or perspective (default tangent)")
	f.String("layout", "", "cube, grid or views (default: views when given, else cube)")
	f.Float64("overlap", 0, "grid overlap in percent (default 20)")
	f.StringArray("view", nil, "view as id:lon:lat[:roll] (repeatable)")
	f.String("ext", "", "output extension (default: the panorama's)")
	f.Int("jpeg-quality", 0, "JPEG quality 1-100 (default 95)")
	f.Int("workers", 0, "concurrent patches (default: one per CPU)")
	f.String("footprint", "", "also write an overlay of patch outlines to this file")
	f.String("footprint-color", "", "outline color as hex, e.g. #FF0000 (default: a color per patch)")
	f.Float64("graticule", 0, "draw a labelled graticule at this spacing in degrees on the footprint")
	f.Bool("dry-run", false, "plan and draw the footprint without writing patches")

	for _, name := range []string{"panorama", "output", "width", "height", "fov", "projection", "layout",
		"overlap", "view", "ext", "jpeg-quality", "workers", "footprint", "footprint-color", "graticule", "dry-run"} {
		viper.BindPFlag("generate."+name, f.Lookup(name))
	}
}

// parseView parses "id:lon:lat" or "id:lon:lat:roll".
func parseView(s string) (config.ViewConfig, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 && len(parts) != 4 {
		return config.ViewConfig{}, fmt.Errorf("view %q must be id:lon:lat[:roll]", s)
	}
	id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return config.ViewConfig{}, fmt.Errorf("invalid id in view %q: %v", s, err)
	}
	vals := make([]float64, 3)
	for i, p := range parts[1:] {
		if vals[i], err = strconv.ParseFloat(strings.TrimSpace(p), 64); err != nil {
			return config.ViewConfig{}, fmt.Errorf("invalid angle in view %q: %v", s, err)
		}
	}
	return config.ViewConfig{ID: id, Lon: vals[0], Lat: vals[1], Roll: vals[2]}, nil
}

// buildJob loads the job file, if any, and applies flag and environment
// overrides under the given viper prefix.
func buildJob(prefix string, args []string) (*config.Job, error) {
	job := &config.Job{}
	if len(args) == 1 {
		loaded, err := config.Read(args[0])
		if err != nil {
			return nil, err
		}
		job = loaded
	}

	set := func(key string) bool { return viper.IsSet(prefix + "." + key) }
	if set("panorama") {
		job.Panorama = viper.GetString(prefix + ".panorama")
	}
	if set("output") {
		job.Output.Dir = viper.GetString(prefix + ".output")
	}
	if set("width") {
		job.Patch.Width = viper.GetInt(prefix + ".width")
	}
	if set("height") {
		job.Patch.Height = viper.GetInt(prefix + ".height")
	}
	if set("fov") {
		job.Patch.FovDeg = viper.GetFloat64(prefix + ".fov")
	}
	if set("projection") {
		job.Patch.Projection = viper.GetString(prefix + ".projection")
	}
	if set("layout") {
		job.Layout = viper.GetString(prefix + ".layout")
	}
	if set("overlap") {
		job.Grid.OverlapPercent = viper.GetFloat64(prefix + ".overlap")
	}
	if set("view") {
		job.Views = nil
		for _, s := range viper.GetStringSlice(prefix + ".view") {
			v, err := parseView(s)
			if err != nil {
				return nil, err
			}
			job.Views = append(job.Views, v)
		}
	}
	if set("ext") {
		job.Output.Ext = viper.GetString(prefix + ".ext")
	}
	if set("jpeg-quality") {
		job.Output.JPEGQuality = viper.GetInt(prefix + ".jpeg-quality")
	}
	if set("workers") {
		job.Workers = viper.GetInt(prefix + ".workers")
	}

	if err := job.Normalize(); err != nil {
		return nil, err
	}
	return job, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	job, err := buildJob("generate", args)
	if err != nil {
		return err
	}
	cache := imaging.NewImageCache()

	if out := viper.GetString("generate.footprint"); out != "" {
		var lineColor color.RGBA
		if hex := viper.GetString("generate.footprint-color"); hex != "" {
			if lineColor, err = imaging.ParseHexColor(hex); err != nil {
				return fmt.Errorf("--footprint-color: %w", err)
			}
		}
		overlay, err := job.Footprint(cache, lineColor, viper.GetFloat64("generate.graticule"))
		if err != nil {
			return err
		}
		if err := imaging.SaveBitmap(overlay, out, job.Output.JPEGQuality); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Footprint written to", out)
	}
	if viper.GetBool("generate.dry-run") {
		ids, _, err := job.Rotations()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d patches planned\n", len(ids))
		return nil
	}
	return runJob(cmd, job, cache)
}

// runJob runs job until it finishes or the process is interrupted, printing
// each written path.
func runJob(cmd *cobra.Command, job *config.Job, cache *imaging.ImageCache) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := job.Run(ctx, cache)
	if res != nil {
		printResult(cmd, res)
	}
	if err != nil {
		return err
	}
	if len(res.Failures) > 0 {
		return fmt.Errorf("%d of %d patches failed", len(res.Failures), len(res.Failures)+len(res.Paths))
	}
	return nil
}

func printResult(cmd *cobra.Command, res *patch.Result) {
	for _, p := range res.Paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	for _, f := range res.Failures {
		fmt.Fprintln(cmd.ErrOrStderr(), "failed:", f)
	}
}
