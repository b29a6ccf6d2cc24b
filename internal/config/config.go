package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"compressor_runtime/internal/logger"

	"github.com/spf13/viper"
)

const envPrefix = "COMPRESSOR"

// Config is the typed view of configs/config.yml plus COMPRESSOR_* overrides.
type Config struct {
	Port string
	DB   struct {
		Path string
	}
	Log struct {
		Level  string
		Format string
	}
	Auth struct {
		JWTSigningKey     string        `mapstructure:"jwt_signing_key"`
		TokenTTL          time.Duration `mapstructure:"token_ttl"`
		MaintenanceSecret string        `mapstructure:"maintenance_secret"`
	}
	Maintenance struct {
		DefaultIntervalName  string  `mapstructure:"default_interval_name"`
		DefaultIntervalHours float64 `mapstructure:"default_interval_hours"`
	}
	Cartridge struct {
		DefaultIntervalHours    float64 `mapstructure:"default_interval_hours"`
		DefaultWarningLeadHours float64 `mapstructure:"default_warning_lead_hours"`
	}
	RateLimit struct {
		RPS   float64
		Burst int
	} `mapstructure:"ratelimit"`
	Server struct {
		ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
		WriteTimeout      time.Duration `mapstructure:"write_timeout"`
		IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
		ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
		StreamInterval    time.Duration `mapstructure:"stream_interval"`
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("auth.jwt_signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("auth.maintenance_secret", "")

	v.SetDefault("maintenance.default_interval_name", "service")
	v.SetDefault("maintenance.default_interval_hours", 500.0)

	v.SetDefault("cartridge.default_interval_hours", 25.0)
	v.SetDefault("cartridge.default_warning_lead_hours", 2.0)

	v.SetDefault("ratelimit.rps", 1.0)
	v.SetDefault("ratelimit.burst", 5)

	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.stream_interval", time.Second)
}

// Load reads the config file (a missing file is not an error when the
// path was not given explicitly) and applies env overrides.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath("configs") // configs/config.yml
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Maintenance.DefaultIntervalHours <= 0:
		return errors.New("maintenance.default_interval_hours must be > 0")
	case c.Cartridge.DefaultIntervalHours <= 0:
		return errors.New("cartridge.default_interval_hours must be > 0")
	case c.Cartridge.DefaultWarningLeadHours < 0:
		return errors.New("cartridge.default_warning_lead_hours must be >= 0")
	case c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0:
		return errors.New("ratelimit.rps and ratelimit.burst must be > 0")
	case !logger.ValidFormat(c.Log.Format):
		return fmt.Errorf("log.format %q: want console or json", c.Log.Format)
	}
	return nil
}
