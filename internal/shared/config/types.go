package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	Timezone       string   `mapstructure:"timezone"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	// Driver is "mysql" or "sqlite".
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	// DSN overrides the assembled connection string; for sqlite it is the file path.
	DSN             string `mapstructure:"dsn"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	// MigrationStrategy is "auto", "goose" or "golang-migrate". sqlite always uses auto.
	MigrationStrategy string `mapstructure:"migration_strategy"`
}

func (d *DatabaseConfig) GetDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	if d.Driver == "sqlite" {
		return d.Database + ".db"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type CacheConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	// Broadcast publishes invalidation patterns over Redis so peer instances clear the same keys.
	Broadcast        bool   `mapstructure:"broadcast"`
	BroadcastChannel string `mapstructure:"broadcast_channel"`
}

type SchedulerConfig struct {
	PublicationInterval time.Duration `mapstructure:"publication_interval"`
	JobTimeout          time.Duration `mapstructure:"job_timeout"`
	LockEnabled         bool          `mapstructure:"lock_enabled"`
	LockTTL             time.Duration `mapstructure:"lock_ttl"`
}

type EngagementConfig struct {
	BufferCapacity int `mapstructure:"buffer_capacity"`
}

type NotificationConfig struct {
	EmailQueueSize int           `mapstructure:"email_queue_size"`
	PushQueueSize  int           `mapstructure:"push_queue_size"`
	ActivityWindow time.Duration `mapstructure:"activity_window"`
}

type AudienceConfig struct {
	CacheSize int           `mapstructure:"cache_size"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

type TemplatesConfig struct {
	// SystemPath is a directory that may hold system_templates.yaml. Empty uses the built-in catalogue.
	SystemPath  string `mapstructure:"system_path"`
	SeedOnStart bool   `mapstructure:"seed_on_start"`
}

// RateLimitConfig caps engagement writes per caller per minute. Limits only
// apply while Redis is enabled; zero disables a limit.
type RateLimitConfig struct {
	TrackPerMinute      int `mapstructure:"track_per_minute"`
	EngagementPerMinute int `mapstructure:"engagement_per_minute"`
}
