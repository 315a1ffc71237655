package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/NomelN/Ivoire-cine/cache"
	"github.com/NomelN/Ivoire-cine/config"
	"github.com/NomelN/Ivoire-cine/tmdb"
)

var (
	cfgFile    string
	cfg        *config.Config
	logger     zerolog.Logger
	responses  *cache.Cache
	tmdbClient *tmdb.Client
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ivoire-cine",
	Short: "Browse, search and filter movies from TMDB",
	Long: `ivoire-cine is a small web front-end for The Movie Database (TMDB).
It lists popular movies, searches by title, filters by genre, year and rating
and shows movie details, caching upstream responses in memory.

Running it without a subcommand starts the web server.`,
	PersistentPreRunE: initializeApp,
	RunE:              runServe,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(minifyCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads the configuration and creates the TMDB client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	if cfg.File != "" {
		logger.Debug().Str("file", cfg.File).Msg("Loaded configuration")
	}

	// Create TMDB client with its response cache
	responses = cache.New(cfg.Cache.TTL)
	tmdbClient, err = tmdb.NewClient(cfg.EffectiveAPIKey(), logger,
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithLanguage(cfg.TMDB.Language),
		tmdb.WithTimeout(cfg.TMDB.Timeout),
		tmdb.WithCache(responses),
	)
	if err != nil {
		return fmt.Errorf("failed to create TMDB client: %w", err)
	}

	return nil
}

// skipInitialization is used by commands that need neither config nor clients
func skipInitialization(cmd *cobra.Command, args []string) error {
	logger = setupLogger(config.LoggingConfig{Level: "info", Format: "console", Color: true})
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format, colours only on a real terminal
	fd := os.Stderr.Fd()
	terminal := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !terminal,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
