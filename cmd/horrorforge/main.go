package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lamim/horrorforge/internal/api"
	"github.com/lamim/horrorforge/internal/config"
	"github.com/lamim/horrorforge/internal/logging"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	configPath string
	envFile    string
	verbose    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "horrorforge",
		Short: "Horrorforge - Horror Story Generator",
		Long: `Horrorforge turns a character name, a situation and a line count into
a short horror story written by a Gemini (or OpenAI-compatible) model.`,
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to environment file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newGenerateCmd())

	return rootCmd
}

// app is everything a command needs once configuration is loaded
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	provider api.Provider
	closer   io.Closer
}

func (rt *app) Close() {
	if rt.closer != nil {
		_ = rt.closer.Close()
	}
}

// bootstrap loads the env file, configuration, credential and logger, and
// builds the provider. A missing credential fails here, before any work starts.
func bootstrap(cmd *cobra.Command) (*app, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if cmd.Flags().Changed("env-file") {
				return nil, fmt.Errorf("failed to load env file: %w", err)
			}
		} else if verbose {
			fmt.Fprintf(os.Stderr, "Loaded env file: %s\n", envFile)
		}
	}

	cfg, secrets, err := config.Load(configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	apiKey, err := secrets.RequireAPIKey(cfg.Model.Provider)
	if err != nil {
		return nil, err
	}

	logLevel := logging.ParseLevel(cfg.Logging.Level)
	if verbose {
		logLevel = slog.LevelDebug
	}

	logger, closer, err := logging.Setup(logLevel, cfg.Logging.File)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	logger.Debug("Loaded API key", "provider", cfg.Model.Provider, "length", len(apiKey))

	provider, err := api.NewProvider(cfg.Model, apiKey, logger)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	return &app{cfg: cfg, logger: logger, provider: provider, closer: closer}, nil
}
