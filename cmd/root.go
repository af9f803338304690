// Package cmd provides the copiloto command line interface. Every command
// builds its dependencies explicitly from the loaded configuration; nothing
// is wired through package-level singletons beyond cobra's own command tree.
package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/transvia/copiloto/core/config"
)

var (
	configPath string
	logLevel   string
	outputJSON bool
)

var rootCmd = &cobra.Command{
	Use:   "copiloto",
	Short: "Copiloto TransVia - assistente de IA para o ERP logístico",
	Long: `Copiloto TransVia roteia perguntas para agentes especializados
(fiscal, financeiro, TMS, CRM, frota, contábil, estratégico e ajuda)
e fundamenta as respostas na base de legislação.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "copiloto.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output results as JSON")
}

// loadConfig loads the configuration file named by the --config flag. A
// missing file yields the built-in defaults with environment overrides.
func loadConfig() (*config.Config, error) {
	manager := config.NewManager(configPath)
	if err := manager.Load(); err != nil {
		return nil, err
	}
	return manager.Get(), nil
}

// newLogger builds the process logger from the logging section, honoring the
// --log-level flag when set.
func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}

	var slogLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: slogLevel}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
