package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/szmslab/quickzip/config"
	"github.com/szmslab/quickzip/internal/archive"
	"github.com/szmslab/quickzip/internal/auth"
	"github.com/szmslab/quickzip/internal/health"
	"github.com/szmslab/quickzip/internal/logging"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	configPath string
	logLevel   string
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:           "quickzip",
		Short:         "Build and extract ZIP archives",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if configPath != "" {
				os.Setenv(config.ConfigPathEnv, configPath)
			}
			if logLevel != "" {
				os.Setenv("QUICKZIP_LOG_LEVEL", logLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default $QUICKZIP_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newCompressCmd(), newExtractCmd(), newListCmd(), newServeCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the archive API over HTTP",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

func runServer() {
	fx.New(
		config.Module,
		logging.Module,
		archive.Module,
		health.Module,
		fx.Provide(NewEcho),
		fx.Invoke(RegisterRoutes),
		fx.Invoke(StartServer),
	).Run()
}

func NewEcho(logger *logging.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())
	e.Use(logging.RequestLoggingMiddleware(logger))
	return e
}

func RegisterRoutes(
	e *echo.Echo,
	cfg *config.Config,
	logger *logging.Logger,
	healthHandler *health.Handler,
	archiveHandler *archive.Handler,
) {
	api := e.Group("/api")
	api.Use(auth.TokenMiddleware(cfg.AccessToken, logger))

	api.GET("/health", healthHandler.Health)

	api.POST("/archives/compress", archiveHandler.Compress)
	api.POST("/archives/extract", archiveHandler.Extract)
	api.POST("/archives/list", archiveHandler.List)
}

func StartServer(lc fx.Lifecycle, e *echo.Echo, cfg *config.Config, logger *logging.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting server",
				zap.String("port", cfg.Port),
				zap.String("workspace_root", cfg.WorkspaceRoot))
			go func() {
				if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("Server failed to start", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}
