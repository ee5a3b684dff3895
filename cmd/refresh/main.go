package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/timmy/mygomeme/internal/config"
	"github.com/timmy/mygomeme/internal/logger"
	"github.com/timmy/mygomeme/internal/service"
	"github.com/timmy/mygomeme/internal/source/mygoapi"
	"github.com/timmy/mygomeme/internal/storage"
)

func main() {
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "mygomeme-refresh",
	})
	logger.SetDefaultLogger(appLogger)

	if err := newRefreshCmd().Execute(); err != nil {
		appLogger.WithError(err).Error("Refresh failed")
		os.Exit(1)
	}
}

func newRefreshCmd() *cobra.Command {
	var (
		configPath string
		output     string
		upload     bool
	)

	cmd := &cobra.Command{
		Use:           "refresh",
		Short:         "Fetch the meme listing and rewrite the static catalog asset",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if output == "" {
				output = cfg.Catalog.AssetPath
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var objectStorage storage.ObjectStorage
			if upload || cfg.Storage.Enabled {
				objectStorage, err = newStorage(ctx, &cfg.Storage)
				if err != nil {
					return err
				}
			}

			src := mygoapi.NewAdapter(&mygoapi.Config{
				ListingURL: cfg.Catalog.ListingURL,
				Timeout:    cfg.Catalog.FetchTimeout,
			})

			logger.With(logger.Fields{
				logger.FieldSource: src.GetSourceID(),
				"output":           output,
				"upload":           objectStorage != nil,
			}).Info(ctx, "Starting catalog refresh")

			stats, err := service.NewRefreshService(src, objectStorage, &service.RefreshConfig{
				AssetPath: output,
				ObjectKey: cfg.Storage.Key,
			}).Run(ctx)
			if err != nil {
				return err
			}

			logger.With(logger.Fields{
				"fetched": stats.Fetched,
				"saved":   stats.Saved,
			}).Info(ctx, "Catalog refresh completed")

			fmt.Printf("Saved %d memes to %s\n", stats.Saved, stats.AssetPath)
			if stats.PublicURL != "" {
				fmt.Printf("Published to %s\n", stats.PublicURL)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "Path to config file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Asset path (defaults to catalog.asset_path)")
	cmd.Flags().BoolVar(&upload, "upload", false, "Publish the asset to object storage")

	return cmd
}

func newStorage(ctx context.Context, cfg *config.StorageConfig) (storage.ObjectStorage, error) {
	objectStorage, err := storage.NewStorage(&storage.S3Config{
		Type:      storage.StorageType(cfg.Type),
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		PublicURL: cfg.PublicURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := objectStorage.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure storage bucket: %w", err)
	}
	return objectStorage, nil
}
