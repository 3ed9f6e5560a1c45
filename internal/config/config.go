package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"staybook/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	API        APIConfig        `yaml:"api"`
	Booking    BookingConfig    `yaml:"booking"`
	Catalog    CatalogConfig    `yaml:"catalog"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type APIConfig struct {
	HTTP      APIHTTPConfig      `yaml:"http"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type BookingConfig struct {
	ServiceFeeRate     float64 `yaml:"service_fee_rate"`
	SubmitDelayMs      int     `yaml:"submit_delay_ms"`
	SelectionTTL       int     `yaml:"selection_ttl"`
	DefaultMaxGuests   int     `yaml:"default_max_guests"`
	DefaultNightlyRate int64   `yaml:"default_nightly_rate"`
	CalendarDays       int     `yaml:"calendar_days"`
}

// SubmitDelay is the simulated latency of the booking collaborator.
func (b BookingConfig) SubmitDelay() time.Duration {
	return time.Duration(b.SubmitDelayMs) * time.Millisecond
}

func (b BookingConfig) SelectionTTLDuration() time.Duration {
	return time.Duration(b.SelectionTTL) * time.Second
}

type CatalogConfig struct {
	Path string `yaml:"path"`
	Seed int64  `yaml:"seed"`
}

func Load(configPath string) (*Config, error) {
	// .env необязателен: переменные могут прийти из окружения
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if c.Booking.ServiceFeeRate < 0 || c.Booking.ServiceFeeRate >= 1 {
		return fmt.Errorf("booking.service_fee_rate must be in [0, 1), got %v", c.Booking.ServiceFeeRate)
	}
	if c.Booking.SubmitDelayMs < 0 {
		return errors.New("booking.submit_delay_ms must not be negative")
	}
	if c.Booking.DefaultMaxGuests < 1 {
		return errors.New("booking.default_max_guests must be at least 1")
	}
	if c.Booking.DefaultNightlyRate < 0 {
		return errors.New("booking.default_nightly_rate must not be negative")
	}
	if c.Booking.CalendarDays > models.MaxCalendarDays {
		return fmt.Errorf("booking.calendar_days must not exceed %d", models.MaxCalendarDays)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "staybook"
	}
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if c.API.RateLimit.RPS == 0 {
		c.API.RateLimit.RPS = 10
	}
	if c.API.RateLimit.Burst == 0 {
		c.API.RateLimit.Burst = 20
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}

	// Booking defaults
	if c.Booking.ServiceFeeRate == 0 {
		c.Booking.ServiceFeeRate = models.DefaultServiceFeeRate
	}
	if c.Booking.SubmitDelayMs == 0 {
		c.Booking.SubmitDelayMs = models.DefaultSubmitDelayMs
	}
	if c.Booking.SelectionTTL == 0 {
		c.Booking.SelectionTTL = models.DefaultSelectionTTL
	}
	if c.Booking.DefaultMaxGuests == 0 {
		c.Booking.DefaultMaxGuests = models.DefaultMaxGuests
	}
	if c.Booking.DefaultNightlyRate == 0 {
		c.Booking.DefaultNightlyRate = models.DefaultNightlyRate
	}
	if c.Booking.CalendarDays == 0 {
		c.Booking.CalendarDays = models.DefaultCalendarDays
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = "configs/properties.yaml"
	}
}
