package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL  string
	RedisURL     string
	KafkaBrokers []string

	KafkaTopicScanCompleted string

	// Provider credentials come from the environment only; they are never
	// written into config files.
	RapidAPIKey      string
	YouTubeAPIKey    string
	SociaVaultAPIKey string

	InstagramBaseURL  string
	YouTubeBaseURL    string
	SociaVaultBaseURL string

	MaxDBConns      int32
	ProviderTimeout time.Duration
	ScanRateLimit   int
	ScanRateWindow  time.Duration

	MaxPostsReturned int
	ScorePeriodDays  int
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL             string   `yaml:"postgres_url"`
		RedisURL                string   `yaml:"redis_url"`
		KafkaBrokers            []string `yaml:"kafka_brokers"`
		KafkaTopicScanCompleted string   `yaml:"kafka_topic_scan_completed"`
	} `yaml:"dependencies"`
	Providers struct {
		InstagramBaseURL  string `yaml:"instagram_base_url"`
		YouTubeBaseURL    string `yaml:"youtube_base_url"`
		SociaVaultBaseURL string `yaml:"sociavault_base_url"`
		TimeoutSeconds    int    `yaml:"timeout_seconds"`
	} `yaml:"providers"`
	Scan struct {
		RateLimit         int `yaml:"rate_limit"`
		RateWindowMinutes int `yaml:"rate_window_minutes"`
		MaxPostsReturned  int `yaml:"max_posts_returned"`
		ScorePeriodDays   int `yaml:"score_period_days"`
	} `yaml:"scan"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:               "visibility-service",
		HTTPPort:                8080,
		GRPCPort:                9090,
		KafkaTopicScanCompleted: "visibility.scan.completed",
		MaxDBConns:              10,
		ProviderTimeout:         15 * time.Second,
		ScanRateLimit:           10,
		ScanRateWindow:          time.Hour,
		MaxPostsReturned:        20,
		ScorePeriodDays:         30,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		cfg.DatabaseURL = f.Dependencies.PostgresURL
		cfg.RedisURL = f.Dependencies.RedisURL
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
		}
		if f.Dependencies.KafkaTopicScanCompleted != "" {
			cfg.KafkaTopicScanCompleted = f.Dependencies.KafkaTopicScanCompleted
		}
		cfg.InstagramBaseURL = f.Providers.InstagramBaseURL
		cfg.YouTubeBaseURL = f.Providers.YouTubeBaseURL
		cfg.SociaVaultBaseURL = f.Providers.SociaVaultBaseURL
		if f.Providers.TimeoutSeconds > 0 {
			cfg.ProviderTimeout = time.Duration(f.Providers.TimeoutSeconds) * time.Second
		}
		if f.Scan.RateLimit > 0 {
			cfg.ScanRateLimit = f.Scan.RateLimit
		}
		if f.Scan.RateWindowMinutes > 0 {
			cfg.ScanRateWindow = time.Duration(f.Scan.RateWindowMinutes) * time.Minute
		}
		if f.Scan.MaxPostsReturned > 0 {
			cfg.MaxPostsReturned = f.Scan.MaxPostsReturned
		}
		if f.Scan.ScorePeriodDays > 0 {
			cfg.ScorePeriodDays = f.Scan.ScorePeriodDays
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaTopicScanCompleted = envOrDefault("KAFKA_TOPIC_SCAN_COMPLETED", cfg.KafkaTopicScanCompleted)
	cfg.RapidAPIKey = os.Getenv("RAPIDAPI_KEY")
	cfg.YouTubeAPIKey = os.Getenv("YOUTUBE_API_KEY")
	cfg.SociaVaultAPIKey = os.Getenv("SOCIAVAULT_API_KEY")
	cfg.InstagramBaseURL = envOrDefault("INSTAGRAM_API_BASE_URL", cfg.InstagramBaseURL)
	cfg.YouTubeBaseURL = envOrDefault("YOUTUBE_API_BASE_URL", cfg.YouTubeBaseURL)
	cfg.SociaVaultBaseURL = envOrDefault("SOCIAVAULT_API_BASE_URL", cfg.SociaVaultBaseURL)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.ProviderTimeout = time.Duration(envInt("PROVIDER_TIMEOUT_SECONDS", int(cfg.ProviderTimeout.Seconds()))) * time.Second
	cfg.ScanRateLimit = envInt("SCAN_RATE_LIMIT", cfg.ScanRateLimit)
	cfg.ScanRateWindow = time.Duration(envInt("SCAN_RATE_WINDOW_MINUTES", int(cfg.ScanRateWindow.Minutes()))) * time.Minute
	cfg.MaxPostsReturned = envInt("SCAN_MAX_POSTS_RETURNED", cfg.MaxPostsReturned)
	cfg.ScorePeriodDays = envInt("SCAN_SCORE_PERIOD_DAYS", cfg.ScorePeriodDays)

	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	return trimNonEmpty(strings.Split(raw, ","))
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
