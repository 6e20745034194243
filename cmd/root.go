package cmd

import (
	"log/slog"
	"os"

	"github.com/msalah0e/ontomap/internal/config"
	"github.com/msalah0e/ontomap/internal/logging"
	"github.com/msalah0e/ontomap/internal/ui"
	"github.com/spf13/cobra"
)

var version = "0.4.0"

var (
	cfgPath     string
	logLevel    string
	offlineMode bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ontomap",
	Short: "ontomap — ontology mapping graphs",
	Long: ui.Brand.Sprint(ui.Mark+" ontomap") + " — draw ontologies and the mappings between them\n" +
		ui.Subtle.Sprint("Load ontologies, fetch mapping counts in one batch, render or serve the graph"),
	Version: version + " " + ui.Mark,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		c, err := config.Load(cfgPath)
		if err != nil {
			ui.Bad.Printf("ontomap: %v\n", err)
			os.Exit(1)
		}
		if logLevel != "" {
			c.Log.Level = logLevel
		}
		l, err := logging.Setup(c.Log.Level, c.Log.Format)
		if err != nil {
			ui.Bad.Printf("ontomap: %v\n", err)
			os.Exit(1)
		}
		cfg, logger = c, l
	},
}

func init() {
	rootCmd.SetVersionTemplate("ontomap {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&offlineMode, "offline", false, "Answer mapping queries from the fixture instead of the service")

	rootCmd.AddCommand(
		viewCmd(),
		expandCmd(),
		serveCmd(),
		configCmd(),
		layoutsCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
