package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerview/internal/config"
)

func newInitCommand() *cobra.Command {
	var apiURL string
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default configuration and create the local cache directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, apiURL, force)
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", "", "backend base URL to record in the config")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration")

	return cmd
}

func runInit(out io.Writer, dir, apiURL string, force bool) error {
	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	cfg := config.Default()
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}

	if err := os.MkdirAll(filepath.Join(dir, cfg.Storage.Dir), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// The cache holds personal banking data.
	ignorePath := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(ignorePath); errors.Is(err, os.ErrNotExist) {
		gitignore := cfg.Storage.Dir + "/\n.env\n"
		if err := os.WriteFile(ignorePath, []byte(gitignore), 0o644); err != nil {
			return fmt.Errorf("writing .gitignore: %w", err)
		}
	}

	fmt.Fprintf(out, "Initialized ledgerview at %s (backend %s)\n", dir, cfg.API.BaseURL)
	return nil
}
