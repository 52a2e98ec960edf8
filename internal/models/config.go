package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
}

type Config struct {
	// Durable state
	StorageBackend string `mapstructure:"storage_backend"` // "file" or "postgres"
	DataDir        string `mapstructure:"data_dir"`
	PostgresDSN    string `mapstructure:"postgres_dsn"`
	CounterSeed    int64  `mapstructure:"counter_seed"`

	// Order lifecycle
	ProgressInterval time.Duration `mapstructure:"progress_interval"`
	DeliveryEstimate time.Duration `mapstructure:"delivery_estimate"`
	TaxRate          float64       `mapstructure:"tax_rate"`
	DeliveryFee      float64       `mapstructure:"delivery_fee"`

	// Event output
	KafkaEnabled    bool   `mapstructure:"kafka_enabled"`
	KafkaBrokerList string `mapstructure:"kafka_broker_list"`
	OutputPath      string `mapstructure:"output_path"`

	// Storefront demo
	DemoRestaurants       int           `mapstructure:"demo_restaurants"`
	DemoOrders            int           `mapstructure:"demo_orders"`
	OrderSpacing          time.Duration `mapstructure:"order_spacing"`
	TrackingPollInterval  time.Duration `mapstructure:"tracking_poll_interval"`
	DashboardPollInterval time.Duration `mapstructure:"dashboard_poll_interval"`

	// Order-history archive
	ArchivePath        string             `mapstructure:"archive_path"`
	ArchiveDestination string             `mapstructure:"archive_destination"` // "local" or "s3"
	CloudStorage       CloudStorageConfig `mapstructure:"cloud_storage"`
}

// LoadConfig initializes and reads the configuration using Viper.
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("fooddash")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	viper.SetDefault("storage_backend", "file")
	viper.SetDefault("data_dir", "data")
	viper.SetDefault("counter_seed", 1000)
	viper.SetDefault("progress_interval", "10s")
	viper.SetDefault("delivery_estimate", "45m")
	viper.SetDefault("tax_rate", 0.1)
	viper.SetDefault("delivery_fee", 150.0)
	viper.SetDefault("kafka_broker_list", "localhost:9092")
	viper.SetDefault("demo_restaurants", 5)
	viper.SetDefault("demo_orders", 10)
	viper.SetDefault("order_spacing", "2s")
	viper.SetDefault("tracking_poll_interval", "5s")
	viper.SetDefault("dashboard_poll_interval", "10s")
	viper.SetDefault("archive_destination", "local")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing default config file is fine; an explicit one must exist.
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}
