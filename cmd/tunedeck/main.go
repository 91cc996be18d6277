// Package main provides the tunedeck service entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"tunedeck/internal/app"
	"tunedeck/internal/core"
	httpserver "tunedeck/internal/http"
	"tunedeck/internal/remote"
	"tunedeck/internal/storage"
)

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tunedeck",
	Short: "tunedeck - music library and playback queue service",
	Long: `tunedeck manages a music library (favorites, playlists, listening history)
and a playback queue, backed by a local database and a remote media index.`,
	RunE: runTunedeck,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("storage-path", "./tunedeck.db", "library database path (empty for in-memory)")
	rootCmd.PersistentFlags().String("remote-base-url", "", "media index service base URL")
	rootCmd.PersistentFlags().String("remote-api-key", "", "media index service API key")
	rootCmd.PersistentFlags().Int("remote-timeout-secs", 15, "remote request timeout in seconds")
	rootCmd.PersistentFlags().String("server-host", "0.0.0.0", "HTTP server host")
	rootCmd.PersistentFlags().Int("server-port", 8080, "HTTP server port")
	rootCmd.PersistentFlags().Int("history-limit", 200, "maximum entries per history log")
	rootCmd.PersistentFlags().Int("media-index-size", 10000, "media index capacity")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	envFile := ".env"
	if cfgFile != "" {
		envFile = cfgFile
	}

	if err := gotenv.Load(envFile); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		}
	}

	viper.SetEnvPrefix("TUNEDECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	config = buildConfig()
	logger = buildLogger(config.Log.Level)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	cfg.Storage.Path = viper.GetString("storage-path")

	cfg.Remote.BaseURL = viper.GetString("remote-base-url")
	cfg.Remote.APIKey = viper.GetString("remote-api-key")
	if secs := viper.GetInt("remote-timeout-secs"); secs > 0 {
		cfg.Remote.Timeout = time.Duration(secs) * time.Second
	}

	cfg.Server.Host = viper.GetString("server-host")
	cfg.Server.Port = viper.GetInt("server-port")
	cfg.Log.Level = viper.GetString("log-level")

	if limit := viper.GetInt("history-limit"); limit > 0 {
		cfg.App.HistoryLimit = limit
	}
	if size := viper.GetInt("media-index-size"); size > 0 {
		cfg.App.MediaIndexSize = size
	}

	return cfg
}

func buildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func runTunedeck(_ *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if config.Remote.BaseURL == "" {
		return fmt.Errorf("remote base URL is required")
	}

	logger.Info("Starting tunedeck",
		zap.String("storage_path", config.Storage.Path),
		zap.String("remote_base_url", config.Remote.BaseURL))

	backend, err := createBackend()
	if err != nil {
		return err
	}

	remoteClient := remote.NewClient(&config.Remote, logger.Named("remote"))
	server := httpserver.NewServer(&config.Server, logger.Named("http"))

	session := app.NewSession(config, backend, remoteClient, nil, server, logger.Named("session"))
	session.Start(ctx)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Start(gCtx)
	})

	logger.Info("tunedeck started",
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)))

	err = g.Wait()

	if closeErr := session.Close(); closeErr != nil {
		logger.Warn("Failed to close session cleanly", zap.Error(closeErr))
	}

	if err != nil {
		logger.Error("tunedeck stopped with error", zap.Error(err))
		return err
	}

	logger.Info("tunedeck stopped gracefully")
	return nil
}

func createBackend() (storage.Backend, error) {
	if config.Storage.Path == "" {
		logger.Warn("No storage path configured, using in-memory storage")
		return storage.NewMemoryBackend(), nil
	}

	backend, err := storage.NewSQLiteBackend(config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return backend, nil
}
