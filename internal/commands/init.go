package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/billsum/billsum/internal/config"
)

func newInitConfigCommand() *cobra.Command {
	var locale string
	var force bool

	cmd := &cobra.Command{
		Use:   "init-config <path>",
		Short: "Write a default billsum.yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInitConfig(cmd, args[0], locale, force)
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "en", "message locale: en or zh")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func runInitConfig(cmd *cobra.Command, path, locale string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	cfg := config.Default()
	cfg.Locale = locale
	if err := config.Save(path, cfg); err != nil {
		return err
	}

	// Load back so an unknown locale is rejected before anyone relies on the file.
	if _, err := config.Load(path); err != nil {
		os.Remove(path)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
