// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/spatial/config"
	"github.com/ik5/spatial/internal/log"
)

var (
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "spatialdemo",
	Short: "Positional audio demo",
	Long: `Loads every supported clip from the asset folder, spawns a listener at the
origin and a looping "footstep" sound 15 units to its right, then runs the
engine. With --out the mix is rendered to a WAV file instead of played.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runPlay,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./"+config.FileName+")")
	rootCmd.PersistentFlags().String("log-level", "", "override log_level from the config")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		c.LogLevel = lvl
	}
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	log.Debug(log.CatConfig, "config loaded",
		"sample_rate", c.SampleRate,
		"hrtf", c.HRTF,
		"max_aux_sends", c.MaxAuxSends,
		"reverb", c.Reverb,
		"asset_dir", c.AssetDir)

	cfg = c
	return nil
}
