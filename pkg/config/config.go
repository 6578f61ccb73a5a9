package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Cache struct {
		TTL             time.Duration `yaml:"ttl"`
		MaxSize         int           `yaml:"max_size"`
		CleanupInterval time.Duration `yaml:"cleanup_interval"`
		Redis           struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Ephemeris struct {
		ServiceURL  string        `yaml:"service_url"`
		Timeout     time.Duration `yaml:"timeout"`
		HouseSystem string        `yaml:"house_system"`
	} `yaml:"ephemeris"`
	Saju struct {
		Enabled    bool          `yaml:"enabled"`
		ServiceURL string        `yaml:"service_url"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"saju"`
	Destiny struct {
		GeneratorID      string        `yaml:"generator_id"`
		FallbackTimezone string        `yaml:"fallback_timezone"`
		TaskTimeout      time.Duration `yaml:"task_timeout"`
		UpcomingEclipses int           `yaml:"upcoming_eclipses"`
		IncludeSolarArc  bool          `yaml:"include_solar_arc"`
	} `yaml:"destiny"`
	Audit struct {
		Backend      string        `yaml:"backend"` // "kafka", "clickhouse", "both", or "" (disabled)
		BatchSize    int           `yaml:"batch_size"`
		BatchTimeout time.Duration `yaml:"batch_timeout"`
	} `yaml:"audit"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		MapsTopic    string   `yaml:"maps_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Precompute struct {
			Enabled    bool          `yaml:"enabled"`
			Topic      string        `yaml:"topic"`
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes"`
			MaxBytes   int           `yaml:"max_bytes"`
		} `yaml:"precompute"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("EPHEMERIS_URL"); v != "" {
		c.Ephemeris.ServiceURL = v
	}
	if v := os.Getenv("SAJU_URL"); v != "" {
		c.Saju.ServiceURL = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Cache.MaxSize <= 0 {
		c.Cache.MaxSize = 50
	}
	if c.Cache.CleanupInterval <= 0 {
		c.Cache.CleanupInterval = time.Minute
	}
	if c.Ephemeris.Timeout <= 0 {
		c.Ephemeris.Timeout = 5 * time.Second
	}
	if c.Ephemeris.HouseSystem == "" {
		c.Ephemeris.HouseSystem = "placidus"
	}
	if c.Saju.Timeout <= 0 {
		c.Saju.Timeout = 5 * time.Second
	}
	if c.Destiny.GeneratorID == "" {
		c.Destiny.GeneratorID = "destiny-map"
	}
	if c.Destiny.FallbackTimezone == "" {
		c.Destiny.FallbackTimezone = "UTC"
	}
	if c.Destiny.TaskTimeout <= 0 {
		c.Destiny.TaskTimeout = 10 * time.Second
	}
	if c.Destiny.UpcomingEclipses <= 0 {
		c.Destiny.UpcomingEclipses = 5
	}
	if c.Audit.BatchSize <= 0 {
		c.Audit.BatchSize = 100
	}
	if c.Audit.BatchTimeout <= 0 {
		c.Audit.BatchTimeout = time.Second
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Ephemeris.ServiceURL == "" {
		return fmt.Errorf("ephemeris.service_url is required")
	}
	switch c.Audit.Backend {
	case "", "kafka", "clickhouse", "both":
	default:
		return fmt.Errorf("audit.backend must be 'kafka', 'clickhouse', 'both', or empty, got '%s'", c.Audit.Backend)
	}
	if c.Audit.Backend == "kafka" || c.Audit.Backend == "both" {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers required for audit backend '%s'", c.Audit.Backend)
		}
	}
	if c.Kafka.Precompute.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers required when precompute is enabled")
	}
	return nil
}
