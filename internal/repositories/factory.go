package repositories

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"hobbyd/internal/providers"
	"hobbyd/internal/structures"
)

// NewRepository opens the store selected by store.driver.
func NewRepository(conf *structures.Config, logger providers.Logger) (Repository, error) {
	switch conf.Store.Driver {
	case structures.DriverMemory, "":
		logger.Infof(providers.TypeStore, "Using in-memory store, snapshot file %s", conf.Store.FilePath)
		return NewMemory(), nil
	case structures.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     conf.Store.Redis.Addr,
			Password: conf.Store.Redis.Password,
			DB:       conf.Store.Redis.DB,
		})
		repo, err := NewRedis(&RedisConfig{RedisClient: client, Prefix: conf.Store.Redis.Prefix})
		if err != nil {
			client.Close()
			return nil, err
		}
		logger.Infof(providers.TypeStore, "Using redis store at %s", conf.Store.Redis.Addr)
		return repo, nil
	case structures.DriverSqlite:
		repo, err := NewSqlite(&SqliteConfig{Path: conf.Store.Sqlite.Path})
		if err != nil {
			return nil, err
		}
		logger.Infof(providers.TypeStore, "Using sqlite store at %s", conf.Store.Sqlite.Path)
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", conf.Store.Driver)
	}
}

// SnapshotterOf returns the snapshot side of repo, or nil when the store
// persists on its own.
func SnapshotterOf(repo Repository) Snapshotter {
	if s, ok := repo.(Snapshotter); ok {
		return s
	}
	return nil
}
