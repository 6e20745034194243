package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/msalah0e/ontomap/internal/config"
	"github.com/msalah0e/ontomap/internal/ui"
	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the ontomap config file",
	}
	cmd.AddCommand(configShowCmd(), configInitCmd(), configPathCmd())
	return cmd
}

func configPathOrDefault() string {
	if cfgPath != "" {
		return cfgPath
	}
	return config.Path()
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Run: func(cmd *cobra.Command, args []string) {
			shown := *cfg
			if shown.Service.APIKey != "" {
				shown.Service.APIKey = "********"
			}
			if err := toml.NewEncoder(os.Stdout).Encode(shown); err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}
		},
	}
}

func configInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file if none exists",
		Run: func(cmd *cobra.Command, args []string) {
			path := configPathOrDefault()
			if _, err := os.Stat(path); err == nil {
				ui.Warn.Printf("  %s %s already exists\n", ui.WarnIcon(), path)
				return
			}
			if err := config.EnsureExists(path); err != nil {
				ui.Bad.Printf("  Failed to write config: %v\n", err)
				os.Exit(1)
			}
			ui.Good.Printf("  %s Wrote %s\n", ui.StatusIcon(true), path)
		},
	}
}

func configPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(configPathOrDefault())
		},
	}
}
