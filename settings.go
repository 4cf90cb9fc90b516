package barrelhealth

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/VisEntities/BarrelHealth/config"
)

const (
	StoreFile  = "file"
	StoreRedis = "redis"

	RedisDialTimeOut = 15
)

// Settings holds the runtime settings of the plugin process. They are read from environment variables with the
// documented defaults.
type Settings struct {
	// Where the configuration document is kept: "file" or "redis".
	ConfigStore string `env:"BARREL_HEALTH_CONFIG_STORE" envDefault:"file"`

	// Path of the configuration document when ConfigStore is "file".
	ConfigPath string `env:"BARREL_HEALTH_CONFIG_PATH" envDefault:"config/BarrelHealth.json"`

	RedisAddress   string `env:"BARREL_HEALTH_REDIS_ADDRESS" envDefault:"localhost:6379"`
	RedisPassword  string `env:"BARREL_HEALTH_REDIS_PASSWORD"`
	RedisNamespace string `env:"BARREL_HEALTH_REDIS_NAMESPACE" envDefault:"barrelhealth"`

	// Address of the statsd agent. Metrics are disabled when empty.
	StatsdAddress string `env:"BARREL_HEALTH_STATSD_ADDRESS"`

	LogLevel  string `env:"BARREL_HEALTH_LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"BARREL_HEALTH_LOG_PRETTY" envDefault:"false"`
}

// LoadSettings loads the settings from environment variables.
func LoadSettings() (Settings, error) {
	cfg := Settings{}

	if err := env.Parse(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to parse settings")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, eris.Wrap(err, "failed to validate settings")
	}

	return cfg, nil
}

// Validate performs validation on the loaded settings.
func (cfg *Settings) Validate() error {
	switch cfg.ConfigStore {
	case StoreFile:
		if cfg.ConfigPath == "" {
			return eris.New("config path cannot be empty")
		}
	case StoreRedis:
		if cfg.RedisAddress == "" {
			return eris.New("redis address cannot be empty")
		}
		if cfg.RedisNamespace == "" {
			return eris.New("redis namespace cannot be empty")
		}
	default:
		return eris.Errorf("unknown config store %q", cfg.ConfigStore)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return eris.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}
	return nil
}

// OpenStore builds the configuration store selected by the settings.
func (cfg *Settings) OpenStore() (config.Store, error) {
	switch cfg.ConfigStore {
	case StoreFile:
		return config.NewFileStore(cfg.ConfigPath), nil
	case StoreRedis:
		return config.NewRedisStore(config.RedisOptions{
			Addr:        cfg.RedisAddress,
			Password:    cfg.RedisPassword,
			DB:          0,                              // use default DB
			DialTimeout: RedisDialTimeOut * time.Second, // Increase startup dial timeout
		}, cfg.RedisNamespace), nil
	default:
		return nil, eris.Errorf("unknown config store %q", cfg.ConfigStore)
	}
}

// Options converts the logging settings into plugin options.
func (cfg *Settings) Options() []Option {
	var opts []Option
	if cfg.LogPretty {
		opts = append(opts, WithPrettyLog())
	}
	return opts
}
