package main

import (
	"github.com/ironsheep/panopatch/internal/config"
	"github.com/ironsheep/panopatch/internal/imaging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cubemapCmd = &cobra.Command{
	Use:   "cubemap <panorama>",
	Short: "Write the six cube faces of a panorama",
	Long: `Write the six 90 degree faces of a panorama as square pinhole images,
in the order front, right, back, left, up, down (ids 0-5).`,
	Args: cobra.ExactArgs(1),
	RunE: runCubemap,
}

func init() {
	rootCmd.AddCommand(cubemapCmd)

	f := cubemapCmd.Flags()
	f.StringP("output", "o", "", "output directory (required)")
	f.Int("size", 1024, "face edge length in pixels")
	f.String("projection", "", "tangent or perspective (default tangent)")
	f.String("ext", "", "output extension (default: the panorama's)")
	f.Int("jpeg-quality", 0, "JPEG quality 1-100 (default 95)")
	f.Int("workers", 0, "concurrent faces (default: one per CPU)")

	for _, name := range []string{"output", "size", "projection", "ext", "jpeg-quality", "workers"} {
		viper.BindPFlag("cubemap."+name, f.Lookup(name))
	}
}

func cubemapJob(panorama string) (*config.Job, error) {
	size := viper.GetInt("cubemap.size")
	job := &config.Job{
		Panorama: panorama,
		Layout:   config.LayoutCube,
		Patch: config.PatchConfig{
			Width:      size,
			Height:     size,
			FovDeg:     90,
			Projection: viper.GetString("cubemap.projection"),
		},
		Output: config.OutputConfig{
			Dir:         viper.GetString("cubemap.output"),
			Ext:         viper.GetString("cubemap.ext"),
			JPEGQuality: viper.GetInt("cubemap.jpeg-quality"),
		},
		Workers: viper.GetInt("cubemap.workers"),
	}
	if err := job.Normalize(); err != nil {
		return nil, err
	}
	return job, nil
}

func runCubemap(cmd *cobra.Command, args []string) error {
	job, err := cubemapJob(args[0])
	if err != nil {
		return err
	}
	return runJob(cmd, job, imaging.NewImageCache())
}
