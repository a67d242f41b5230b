package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/gotrs-io/gotrs-insights/internal/models"
)

// Config is the full application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	SLA      SLAConfig      `mapstructure:"sla"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	Timezone string `mapstructure:"timezone"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the host:port the read API binds to.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Table           string        `mapstructure:"table"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

type IngestConfig struct {
	// FieldMapFile points at a YAML alias table overriding the built-in
	// defaults, so company-specific exports import without code changes.
	FieldMapFile    string `mapstructure:"field_map_file"`
	DefaultPriority string `mapstructure:"default_priority"`
}

type SLAConfig struct {
	// ThresholdHours maps priority level to the maximum acceptable
	// resolution time in hours.
	ThresholdHours map[string]float64 `mapstructure:"threshold_hours"`
}

// Thresholds returns the configured SLA table, falling back to the stock
// defaults when the section is absent.
func (s SLAConfig) Thresholds() models.SLAThresholds {
	if len(s.ThresholdHours) == 0 {
		return models.DefaultSLAThresholds()
	}
	t := make(models.SLAThresholds, len(s.ThresholdHours))
	for priority, hours := range s.ThresholdHours {
		t[priority] = hours
	}
	return t
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from configPath (a directory containing
// default.yaml), applies INSIGHTS_-prefixed environment overrides, and
// unmarshals into a Config. The file is optional; defaults alone are a
// working configuration for file-based runs.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("default")
	v.AddConfigPath(configPath)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix("INSIGHTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile reads a single explicit config file. Used by tests and by the
// --config flag.
func LoadFromFile(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Watch re-reads the config file on change and hands the fresh Config to
// onChange. Only the serve command uses this; batch commands read once.
func Watch(configPath string, onChange func(*Config)) error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("default")
	v.AddConfigPath(configPath)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		cfg := &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			return
		}
		onChange(cfg)
	})
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "gotrs-insights")
	v.SetDefault("app.env", "production")
	v.SetDefault("app.timezone", "UTC")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8085)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.name", "insights")
	v.SetDefault("database.user", "insights")
	// Registered so AutomaticEnv can see INSIGHTS_DATABASE_PASSWORD; the
	// value itself never lives in a file.
	v.SetDefault("database.password", "")
	v.SetDefault("database.table", "tickets")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.timeout", "30s")

	v.SetDefault("ingest.default_priority", models.PriorityMedium)

	v.SetDefault("sla.threshold_hours", map[string]float64{
		models.PriorityCritical: 4,
		models.PriorityHigh:     8,
		models.PriorityMedium:   24,
		models.PriorityLow:      48,
	})

	v.SetDefault("logging.level", "info")
}
