package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-neat/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration a session would run with, after the config
file, --preset, --seed and --fps are applied. Useful as a starting point
for a custom --config file.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		sess, err := loadSession()
		if err != nil {
			return err
		}
		data, err := config.Marshal(sess.cfg)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}
