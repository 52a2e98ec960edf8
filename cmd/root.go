package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fooddash/fooddash/internal/archive"
	"github.com/fooddash/fooddash/internal/models"
	"github.com/fooddash/fooddash/internal/publisher"
	"github.com/fooddash/fooddash/internal/storage"
	"github.com/fooddash/fooddash/internal/store"
	"github.com/fooddash/fooddash/internal/storefront"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "fooddash",
	Short: "Runs a demo food-delivery order lifecycle backend",
	Long: `fooddash is a demo backend for a food-delivery storefront: it places
orders against a durable order store, walks each one through the fixed
fulfilment sequence on a per-order timer, and streams every status change to
the configured event output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		return run(cfg)
	},
}

func run(cfg *models.Config) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, cleanup, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	orderStore, err := store.New(ctx, st, cfg, logger)
	if err != nil {
		return err
	}
	defer orderStore.Close()

	dest, err := publisher.ForConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to create event output: %w", err)
	}
	defer dest.Close()
	publisher.Attach(orderStore, dest, logger)

	if err := storefront.New(cfg, orderStore, logger).Run(ctx); err != nil {
		return err
	}

	if cfg.ArchivePath != "" {
		exporter, err := archive.NewExporter(cfg)
		if err != nil {
			return err
		}
		if err := exporter.Export(orderStore.GetAllOrders()); err != nil {
			return fmt.Errorf("failed to archive orders: %w", err)
		}
		logger.Sugar().Infow("order history archived",
			"path", cfg.ArchivePath, "destination", cfg.ArchiveDestination)
	}
	return nil
}

func openStorage(ctx context.Context, cfg *models.Config) (storage.Store, func(), error) {
	switch cfg.StorageBackend {
	case "postgres":
		st, err := storage.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	case "file":
		st, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return st, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage backend: %s", cfg.StorageBackend)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./fooddash.yaml)")

	rootCmd.Flags().String("storage-backend", "file", "Durable storage backend (file or postgres)")
	rootCmd.Flags().String("data-dir", "data", "Directory for file-backed storage")
	rootCmd.Flags().String("postgres-dsn", "", "Postgres connection string")
	rootCmd.Flags().Duration("progress-interval", 10*time.Second, "Interval between auto-progression ticks")
	rootCmd.Flags().Bool("kafka-enabled", false, "Publish order events to Kafka")
	rootCmd.Flags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	rootCmd.Flags().String("output-path", "", "Directory for JSONL event output (if not using Kafka)")
	rootCmd.Flags().Int("demo-orders", 10, "Number of demo orders to place")
	rootCmd.Flags().Int("demo-restaurants", 5, "Number of demo restaurants")
	rootCmd.Flags().String("archive-path", "", "Parquet archive path (empty disables archiving)")
	rootCmd.Flags().String("archive-destination", "local", "Archive destination (local or s3)")

	viper.BindPFlag("storage_backend", rootCmd.Flags().Lookup("storage-backend"))
	viper.BindPFlag("data_dir", rootCmd.Flags().Lookup("data-dir"))
	viper.BindPFlag("postgres_dsn", rootCmd.Flags().Lookup("postgres-dsn"))
	viper.BindPFlag("progress_interval", rootCmd.Flags().Lookup("progress-interval"))
	viper.BindPFlag("kafka_enabled", rootCmd.Flags().Lookup("kafka-enabled"))
	viper.BindPFlag("kafka_broker_list", rootCmd.Flags().Lookup("kafka-broker-list"))
	viper.BindPFlag("output_path", rootCmd.Flags().Lookup("output-path"))
	viper.BindPFlag("demo_orders", rootCmd.Flags().Lookup("demo-orders"))
	viper.BindPFlag("demo_restaurants", rootCmd.Flags().Lookup("demo-restaurants"))
	viper.BindPFlag("archive_path", rootCmd.Flags().Lookup("archive-path"))
	viper.BindPFlag("archive_destination", rootCmd.Flags().Lookup("archive-destination"))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
