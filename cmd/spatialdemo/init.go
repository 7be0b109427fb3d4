// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/spatial/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default " + config.FileName + " in the current directory",
	Long:  `Creates ` + config.FileName + ` with the default device, effect and asset settings.`,
	// init must work before any config exists
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE:              runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	path := config.FileName
	if cfgFile != "" {
		path = cfgFile
	}

	if err := config.WriteDefault(path); err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}
