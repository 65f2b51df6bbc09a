package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/rewardsboard/eventcast/internal/shared/config"
)

type Config struct {
	Server       sharedConfig.ServerConfig       `mapstructure:"server"`
	Database     sharedConfig.DatabaseConfig     `mapstructure:"database"`
	Logger       sharedConfig.LoggerConfig       `mapstructure:"logger"`
	Redis        sharedConfig.RedisConfig        `mapstructure:"redis"`
	Cache        sharedConfig.CacheConfig        `mapstructure:"cache"`
	Scheduler    sharedConfig.SchedulerConfig    `mapstructure:"scheduler"`
	Engagement   sharedConfig.EngagementConfig   `mapstructure:"engagement"`
	Notification sharedConfig.NotificationConfig `mapstructure:"notification"`
	Audience     sharedConfig.AudienceConfig     `mapstructure:"audience"`
	Templates    sharedConfig.TemplatesConfig    `mapstructure:"templates"`
	RateLimit    sharedConfig.RateLimitConfig    `mapstructure:"rate_limit"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
// A missing config file is tolerated; defaults and EVENTCAST_* variables still apply.
func Load(env string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix("EVENTCAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.timezone", "UTC")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "eventcast_dev")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.migration_strategy", "auto")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.sweep_interval", "1m")
	v.SetDefault("cache.broadcast", false)
	v.SetDefault("cache.broadcast_channel", "eventcast:cache:invalidate")

	v.SetDefault("scheduler.publication_interval", "1m")
	v.SetDefault("scheduler.job_timeout", "50s")
	v.SetDefault("scheduler.lock_enabled", true)
	v.SetDefault("scheduler.lock_ttl", "55s")

	v.SetDefault("engagement.buffer_capacity", 10000)

	v.SetDefault("notification.email_queue_size", 1000)
	v.SetDefault("notification.push_queue_size", 1000)
	v.SetDefault("notification.activity_window", "24h")

	v.SetDefault("audience.cache_size", 10000)
	v.SetDefault("audience.cache_ttl", "5m")

	v.SetDefault("templates.system_path", "")
	v.SetDefault("templates.seed_on_start", true)

	v.SetDefault("rate_limit.track_per_minute", 120)
	v.SetDefault("rate_limit.engagement_per_minute", 60)
}
