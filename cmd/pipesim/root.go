// Command pipesim is a minimal local driver for the pipeline engine.
// It has no network surface and talks to exactly one in-process
// engine.Engine.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pipesim",
	Short: "Drive the 16-bit 5-stage pipeline engine from the command line",
	Long: `pipesim assembles, runs and disassembles programs for the cycle-accurate
16-bit 5-stage pipeline engine, purely as a local convenience for exercising
the engine outside a browser.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.pipesim.yaml)")
	cobra.OnInitialize(func() {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		}
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colorError.Sprint(err))
		os.Exit(1)
	}
}
