package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnolang/tquery/internal/config"
)

var forceInit bool

// initCmd: tquery init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new tquery configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfigurationFile(cfgFile, forceInit); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created: %s\n", cfgFile)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing configuration file")
}

func initConfigurationFile(configurationPath string, force bool) error {
	if configurationPath == "" {
		configurationPath = config.DefaultPath
	}

	if !force {
		_, err := os.Stat(configurationPath)
		if err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite it", configurationPath)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	return config.Write(configurationPath, config.Default())
}
