package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"purchasepredict/config"
	qhttp "purchasepredict/http"
	"purchasepredict/logging"
	"purchasepredict/ml"
)

func newServeCommand() *cobra.Command {
	var (
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := resolveConfigPath(cfgFile)
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("host") {
				cfg.Http.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Http.Port = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg, path)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides http.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides http.port)")
	return cmd
}

func runServer(ctx context.Context, cfg *config.Config, configPath string) error {
	logger, level, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	model, err := ml.LoadModel(cfg.Model.Type, cfg.Model.Path)
	if err != nil {
		var unavailable *ml.ModelUnavailableError
		if errors.As(err, &unavailable) {
			logger.Error("model unavailable, refusing to serve",
				zap.String("type", unavailable.ModelType),
				zap.String("path", unavailable.Path),
				zap.Error(unavailable.Err),
			)
		}
		return err
	}
	logger.Info("model loaded", zap.String("type", cfg.Model.Type), zap.String("path", cfg.Model.Path))

	predictor := ml.NewPredictor(model, ml.PredictorOptions{
		Transformer: ml.Transformer{ImputeAfterAbs: cfg.Transform.ImputeAfterAbs},
		Labels: ml.LabelMapper{
			Negative:          cfg.Labels.Negative,
			Positive:          cfg.Labels.Positive,
			LegacySingleLabel: cfg.Labels.LegacySingleLabel,
		},
		SerializePredict: cfg.Model.SerializePredict,
	})
	if cfg.Labels.LegacySingleLabel {
		logger.Warn("legacy_single_label is on: every prediction maps to the negative label")
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	handlers := qhttp.NewHandlers(predictor, logger, qhttp.NewMetrics(), cfg.Validation.Mode, cfg.Model.Type)
	router := qhttp.NewRouter(handlers, qhttp.RouterConfig{
		AllowedOrigins: cfg.Http.AllowedOrigins,
		MetricsPath:    metricsPath,
	})
	server := qhttp.NewServer(qhttp.ServerConfig{Addr: cfg.Addr(), Timeout: cfg.Http.Timeout}, router, logger)

	if configPath != "" {
		go func() {
			err := config.Watch(ctx, configPath, logger, func(next *config.Config) {
				if err := logging.SetLevel(level, next.Log.Level); err != nil {
					logger.Warn("keeping log level", zap.Error(err))
				}
			})
			if err != nil {
				logger.Warn("config watcher stopped", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	if err := server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}
	return <-errCh
}
