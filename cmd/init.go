package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/linkbase/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(".linkbase.yml"); err == nil {
			return fmt.Errorf(".linkbase.yml already exists; remove it first to reconfigure")
		}

		if _, err := config.RunWizard(); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
