package workflow

import (
	"github.com/juju/errors"
	"github.com/visionrun/workflow/runtime"
	"github.com/visionrun/workflow/store"
	"github.com/visionrun/workflow/store/mem"
	"github.com/visionrun/workflow/store/postgres"
	"github.com/visionrun/workflow/types"
)

// NewEngine creates a new workflow engine with the given options
func NewEngine(opts ...types.EngineOption) (types.Engine, error) {
	options := types.NewEngineOptions()
	for _, opt := range opts {
		opt(options)
	}

	var s store.Store
	var err error

	// PostgresConfig takes precedence over MemStore
	if options.PostgresConfig != nil {
		pgConfig := &postgres.Config{
			Host:     options.PostgresConfig.Host,
			Port:     options.PostgresConfig.Port,
			User:     options.PostgresConfig.User,
			Password: options.PostgresConfig.Password,
			Database: options.PostgresConfig.Database,
			SSLMode:  options.PostgresConfig.SSLMode,
		}

		s, err = postgres.NewPostgresStore(pgConfig)
		if err != nil {
			return nil, errors.Annotatef(err, "failed to create PostgreSQL store")
		}
	} else {
		// trace records land in memory unless postgres is configured
		s = mem.NewMemStore()
	}

	return runtime.NewEngine(s, options), nil
}
