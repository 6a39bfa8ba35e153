package types

import (
	"context"

	"github.com/mcuadros/go-defaults"
)

type StepOptions struct {
	// ExecutionBranches is the branch stack gating the step, outermost first.
	ExecutionBranches []string
}
type StepOption func(*StepOptions)

// InExecutionBranch marks a step as a member of a named execution
// branch; the step only runs for elements the branch's mask lets through.
func InExecutionBranch(branches ...string) StepOption {
	return func(opts *StepOptions) {
		opts.ExecutionBranches = append(opts.ExecutionBranches, branches...)
	}
}

func NewEngineOptions() *EngineOptions {
	opts := &EngineOptions{Ctx: context.Background()}
	defaults.SetDefaults(opts)
	return opts
}

type EngineOptions struct {
	Ctx context.Context
	/**
	 * default: 64
	 * upper bound on the number of steps of one wave run concurrently.
	 */
	MaxStepConcurrency int `default:"64"`
	/**
	 * default: true, only set it to false when doing debugging or developing.
	 * If StepRunAsync is true, the steps of a wave run on a worker pool;
	 * otherwise they run one by one on the calling goroutine. Either way
	 * Run returns only after the whole wave has retired, mutual
	 * independence within a wave is what makes both modes safe.
	 */
	StepRunAsync bool `default:"true"`
	/**
	 * default: false, only set it to true when doing testing or developing.
	 */
	MemStore bool `default:"false"`

	// PostgreSQL trace-store configuration.
	// If both MemStore and PostgresConfig are set, PostgresConfig takes precedence.
	PostgresConfig *PostgresConfig
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string // disable, require, verify-ca, verify-full
}

type EngineOption func(*EngineOptions)

func WithContext(ctx context.Context) EngineOption {
	return func(opts *EngineOptions) {
		opts.Ctx = ctx
	}
}

func SetMaxStepConcurrency(concurrency int) EngineOption {
	return func(opts *EngineOptions) {
		opts.MaxStepConcurrency = concurrency
	}
}

func DisableStepRunAsync() EngineOption {
	return func(opts *EngineOptions) {
		opts.StepRunAsync = false
	}
}

func EnableMemStore() EngineOption {
	return func(opts *EngineOptions) {
		opts.MemStore = true
	}
}

// WithPostgresConfig configures the engine to persist trace records in PostgreSQL
func WithPostgresConfig(config *PostgresConfig) EngineOption {
	return func(opts *EngineOptions) {
		opts.PostgresConfig = config
	}
}
