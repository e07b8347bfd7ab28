package main

import (
	"fmt"
	"math"

	"github.com/ironsheep/panopatch/internal/sphere"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var thresholdCmd = &cobra.Command{
	Use:   "threshold",
	Short: "Convert an error threshold between image, camera and sphere planes",
	Long: `Convert an error bound for an image of the given size between pixels
(image), the normalized plane of the implied pinhole camera (camera) and radians
on the unit sphere (sphere). Sphere results are also printed in degrees.`,
	Args: cobra.NoArgs,
	RunE: runThreshold,
}

func init() {
	rootCmd.AddCommand(thresholdCmd)

	thresholdCmd.Flags().Int("width", 0, "image width in pixels (required)")
	thresholdCmd.Flags().Int("height", 0, "image height in pixels (required)")
	thresholdCmd.Flags().Float64("value", 0, "error bound to convert")
	thresholdCmd.Flags().String("from", "image", "plane of --value (image|camera|sphere)")
	thresholdCmd.Flags().String("to", "camera", "plane to convert to (image|camera|sphere)")

	viper.BindPFlag("threshold.width", thresholdCmd.Flags().Lookup("width"))
	viper.BindPFlag("threshold.height", thresholdCmd.Flags().Lookup("height"))
	viper.BindPFlag("threshold.value", thresholdCmd.Flags().Lookup("value"))
	viper.BindPFlag("threshold.from", thresholdCmd.Flags().Lookup("from"))
	viper.BindPFlag("threshold.to", thresholdCmd.Flags().Lookup("to"))
}

func runThreshold(cmd *cobra.Command, args []string) error {
	from, err := sphere.ParsePlane(viper.GetString("threshold.from"))
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := sphere.ParsePlane(viper.GetString("threshold.to"))
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}
	v, err := sphere.ConvertError(viper.GetInt("threshold.width"), viper.GetInt("threshold.height"),
		viper.GetFloat64("threshold.value"), from, to)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if to == sphere.PlaneSphere {
		fmt.Fprintf(out, "%g rad (%g deg)\n", v, v*180/math.Pi)
		return nil
	}
	fmt.Fprintf(out, "%g\n", v)
	return nil
}
