package config

import (
	"fmt"
	"os"
	"procurement-dashboard/internal/model"
	"procurement-dashboard/pkg/utils"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config defines refresh and server configuration.
type Config struct {
	Workbook  string            `yaml:"workbook"`
	OutputDir string            `yaml:"output_dir"`
	Files     model.OutputFiles `yaml:"files"`
	Backup    BackupConfig      `yaml:"backup"`
	DB        DBConfig          `yaml:"db"`
	Kafka     KafkaConfig       `yaml:"kafka"`
	Retry     model.RetryPolicy `yaml:"retry"`
	Server    ServerConfig      `yaml:"server"`
	Log       LogConfig         `yaml:"log"`
}

type BackupConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Prefix    string `yaml:"prefix"`
	GCSBucket string `yaml:"gcs_bucket"` // empty disables mirroring
	GCSPrefix string `yaml:"gcs_prefix"`
}

type DBConfig struct {
	Path string `yaml:"path"` // empty disables the run ledger
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"` // empty disables publishing
	Topic   string   `yaml:"topic"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Workbook:  "Consolidated.xlsx",
		OutputDir: ".",
		Files: model.OutputFiles{
			Snapshot:  "dashboard_data.json",
			Queue:     "uipath_queue_data.json",
			Metrics:   "uipath_metrics.json",
			Dashboard: "procurement_dashboard.html",
		},
		Backup: BackupConfig{
			Enabled:   true,
			Prefix:    "backup_",
			GCSPrefix: "procurement-dashboard",
		},
		DB: DBConfig{
			Path: "refresh_runs.db",
		},
		Kafka: KafkaConfig{
			Topic: "uipath-queue",
		},
		Retry: model.DefaultRetryPolicy(),
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
// path takes precedence over PROCDASH_CONFIG_PATH.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("PROCDASH_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PROCDASH_WORKBOOK"); v != "" {
		cfg.Workbook = v
	}
	if v := os.Getenv("PROCDASH_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("PROCDASH_BACKUP"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid PROCDASH_BACKUP: %w", err)
		}
		cfg.Backup.Enabled = enabled
	}
	if v := os.Getenv("PROCDASH_GCS_BUCKET"); v != "" {
		cfg.Backup.GCSBucket = v
	}
	if v, ok := os.LookupEnv("PROCDASH_DB_PATH"); ok {
		cfg.DB.Path = v
	}
	if v := os.Getenv("PROCDASH_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("PROCDASH_KAFKA_TOPIC"); v != "" {
		cfg.Kafka.Topic = v
	}
	if v := os.Getenv("PROCDASH_RETRY_ATTEMPTS"); v != "" {
		attempts, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PROCDASH_RETRY_ATTEMPTS: %w", err)
		}
		cfg.Retry.MaxAttempts = attempts
	}
	cfg.Retry.InitialDelay = utils.ParseDuration(os.Getenv("PROCDASH_RETRY_INITIAL_DELAY"), cfg.Retry.InitialDelay)
	cfg.Retry.MaxDelay = utils.ParseDuration(os.Getenv("PROCDASH_RETRY_MAX_DELAY"), cfg.Retry.MaxDelay)
	if v := os.Getenv("PROCDASH_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PROCDASH_SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PROCDASH_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("PROCDASH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
