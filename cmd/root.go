package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/moviedeck/cache"
	"github.com/s0up4200/moviedeck/config"
	"github.com/s0up4200/moviedeck/ui"
)

var (
	cfgFile       string
	logLevel      string
	cfg           *config.Config
	logger        zerolog.Logger
	responseCache cache.Cache

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "moviedeck",
	Short: "Browse The Movie Database from the console",
	Long: `moviedeck searches The Movie Database (TMDB), lists upcoming movies page by
page, sorts them by title or popularity, and saves or loads a page as JSON.

Run without a subcommand for the interactive menu.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: closeApp,
	RunE:               runInteractive,
}

// SetVersion records build information for the version and update commands
func SetVersion(v, built string) {
	version = v
	buildTime = built
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")
}

// initializeApp loads .env and configuration and sets up logging
func initializeApp(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}

	logger = setupLogger(cfg.Logging)
	logger.Debug().Str("command", cmd.Name()).Msg("Configuration loaded")

	return nil
}

// initializeLogging sets up console logging for commands that need no configuration
func initializeLogging(cmd *cobra.Command, args []string) error {
	logger = setupLogger(config.LoggingConfig{Level: logLevel, Format: "console", Color: true})
	return nil
}

// closeApp releases resources opened by subcommands
func closeApp(cmd *cobra.Command, args []string) error {
	if responseCache == nil {
		return nil
	}
	err := responseCache.Close()
	responseCache = nil
	if err != nil {
		return fmt.Errorf("failed to close response cache: %w", err)
	}
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
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

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func runInteractive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	opts := []ui.Option{
		ui.WithFiles(cfg.Files.Load, cfg.Files.Save),
		ui.WithImageBaseURL(cfg.TMDB.ImageBaseURL),
		ui.WithOpener(ui.NewSystemOpener(logger)),
	}

	library, err := newLibraryClient()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to create Radarr client, continuing without library status")
	} else if library != nil {
		opts = append(opts, ui.WithLibrary(library))
		logger.Info().Msg("Radarr integration enabled")
	}

	// A blocked line read does not observe ctx, so leave on the first signal
	stop := context.AfterFunc(ctx, func() {
		fmt.Fprintln(os.Stderr)
		_ = closeApp(cmd, args)
		os.Exit(130)
	})
	defer stop()

	app := ui.NewApp(&lazySource{}, ui.NewInput(os.Stdin), os.Stdout, logger, opts...)
	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
