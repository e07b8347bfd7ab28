package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ironsheep/panopatch/internal/patch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "panopatch",
	Short: "Cut calibrated pinhole patches out of equirectangular panoramas",
	Long: `panopatch resamples 360x180 degree equirectangular panoramas into
calibrated pinhole images that a structure-from-motion pipeline can treat like
ordinary photographs, and converts reprojection thresholds between pixels, the
camera plane and angles on the sphere.

Examples:
  # Six 1024px cube faces
  panopatch cubemap pano.jpg -o faces/

  # Patches described by a job file
  panopatch generate job.yaml

  # Explicit views, perspective projection
  panopatch generate --panorama pano.jpg -o out/ --fov 60 --projection perspective --view 1:0:0 --view 2:90:10:5

  # Pixel threshold as an angle on a 8192x4096 panorama
  panopatch threshold --width 8192 --height 4096 --value 4 --to sphere

  # MCP server on stdio
  panopatch serve`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.panopatch.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (info|debug)")

	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".panopatch")
	}

	// PANOPATCH_LOG_LEVEL, PANOPATCH_CUBEMAP_SIZE, ...
	viper.SetEnvPrefix("panopatch")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setupLogging sends logs to stderr; stdout carries results and the MCP
// protocol.
func setupLogging() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	patch.SetLogger(log.Printf)

	if strings.EqualFold(viper.GetString("log-level"), "debug") {
		patch.SetDebug(true)
		log.Printf("panopatch %s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}
}
