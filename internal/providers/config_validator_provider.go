package providers

import (
	"errors"
	"fmt"

	"github.com/gookit/validate"

	"hobbyd/internal/structures"
)

type CnfValidatorInterface interface {
	Validate() error
}

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) CnfValidatorInterface {
	return &CnfValidator{conf: conf}
}

func (v *CnfValidator) Validate() error {
	sections := []interface{}{
		&v.conf.WebServer,
		&v.conf.Logger,
		&v.conf.Store,
		&v.conf.Tracker,
	}
	for _, section := range sections {
		val := validate.Struct(section)
		if !val.Validate() {
			return errors.New(val.Errors.Error())
		}
	}
	return v.validateStore()
}

// validateStore checks the settings the selected driver depends on.
func (v *CnfValidator) validateStore() error {
	store := v.conf.Store
	switch store.Driver {
	case structures.DriverMemory:
		if store.FilePath == "" {
			return errors.New("store.filePath is required for the memory driver")
		}
		if store.SaveInterval <= 0 {
			return errors.New("store.saveInterval must be positive for the memory driver")
		}
	case structures.DriverRedis:
		if store.Redis.Addr == "" {
			return errors.New("store.redis.addr is required for the redis driver")
		}
	case structures.DriverSqlite:
		if store.Sqlite.Path == "" {
			return errors.New("store.sqlite.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", store.Driver)
	}
	return nil
}
