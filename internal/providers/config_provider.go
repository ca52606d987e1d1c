package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"hobbyd/internal/structures"
)

const AppName = "HobbyTrackerDaemon"

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("store.driver", structures.DriverMemory)
	v.SetDefault("tracker.recentWindowDays", 30)
	v.SetDefault("tracker.recentLimit", 200)
	v.SetDefault("tracker.statsConcurrency", 4)

	v.BindEnv("logger.level", "HOBBYD_LOG_LEVEL")
	v.BindEnv("logger.dir", "HOBBYD_LOG_DIR")
	v.BindEnv("webServer.port", "HOBBYD_PORT")
	v.BindEnv("store.driver", "HOBBYD_STORE_DRIVER")
	v.BindEnv("store.filePath", "HOBBYD_SNAPSHOT_FILE")
	v.BindEnv("store.saveInterval", "HOBBYD_SAVE_INTERVAL")
	v.BindEnv("store.redis.addr", "HOBBYD_REDIS_ADDR")
	v.BindEnv("store.redis.password", "HOBBYD_REDIS_PASSWORD")
	v.BindEnv("store.sqlite.path", "HOBBYD_SQLITE_PATH")
	v.BindEnv("tracker.timezone", "HOBBYD_TIMEZONE")
	v.BindEnv("cache.enabled", "HOBBYD_CACHE_ENABLED")
	v.BindEnv("cache.size", "HOBBYD_CACHE_SIZE")
	v.BindEnv("metrics.enabled", "HOBBYD_METRICS_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
