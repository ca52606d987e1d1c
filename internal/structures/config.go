package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverSqlite = "sqlite"
)

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"uint"`
	Prefix   string `yaml:"prefix"`
}

type SqliteConfig struct {
	Path string `yaml:"path"`
}

// StoreConfig selects the record store. The snapshot settings only apply to
// the memory driver.
type StoreConfig struct {
	Driver       string        `yaml:"driver" validate:"required|in:memory,redis,sqlite"`
	FilePath     string        `yaml:"filePath" validate:"unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval"`
	Redis        RedisConfig   `yaml:"redis"`
	Sqlite       SqliteConfig  `yaml:"sqlite"`
}

type TrackerConfig struct {
	Timezone         string `yaml:"timezone"`
	RecentWindowDays int    `yaml:"recentWindowDays" validate:"int|min:0"`
	RecentLimit      int    `yaml:"recentLimit" validate:"required|int|min:1"`
	StatsConcurrency int    `yaml:"statsConcurrency" validate:"required|int|min:1"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server        `yaml:"webServer"`
	Logger    LoggerConfig  `yaml:"logger"`
	Store     StoreConfig   `yaml:"store"`
	Tracker   TrackerConfig `yaml:"tracker"`
	Cache     CacheConfig   `yaml:"cache"`
	Metrics   MetricsConfig `yaml:"metrics"`
}
