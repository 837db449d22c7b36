package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fruitdrop/internal/config"
)

var flagDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration that play, run and serve would use, after the
config file search, the preset and flag overrides.

Search order: --config, ~/.fruitdrop/configs/fruitdrop.yaml,
./configs/fruitdrop.yaml, then the built-in defaults.

Examples:
  fruitdrop config
  fruitdrop config --preset hard
  fruitdrop config --defaults > ~/.fruitdrop/configs/fruitdrop.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagDefaults, "defaults", false, "Print the built-in defaults instead")
}

func runConfig(_ *cobra.Command, _ []string) {
	if flagDefaults {
		os.Stdout.Write(config.DefaultYAML())
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		exitErr("loading config", err)
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		exitErr("encoding config", err)
	}
	fmt.Print(string(data))
}
