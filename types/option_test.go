package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngineOptionDefaults(t *testing.T) {
	opts := NewEngineOptions()

	assert.NotNil(t, opts.Ctx)
	assert.Equal(t, 64, opts.MaxStepConcurrency)
	assert.True(t, opts.StepRunAsync)
	assert.False(t, opts.MemStore)
	assert.Nil(t, opts.PostgresConfig)
}

func TestWithPostgresConfig(t *testing.T) {
	config := &PostgresConfig{
		Host:     "dbhost",
		Port:     5433,
		User:     "user",
		Password: "pass",
		Database: "db",
		SSLMode:  "require",
	}

	opts := NewEngineOptions()
	opt := WithPostgresConfig(config)
	opt(opts)

	assert.NotNil(t, opts.PostgresConfig)
	assert.Equal(t, "dbhost", opts.PostgresConfig.Host)
	assert.Equal(t, 5433, opts.PostgresConfig.Port)
	assert.Equal(t, "require", opts.PostgresConfig.SSLMode)
}

func TestMultipleOptions(t *testing.T) {
	opts := NewEngineOptions()

	SetMaxStepConcurrency(50)(opts)
	DisableStepRunAsync()(opts)
	EnableMemStore()(opts)

	assert.Equal(t, 50, opts.MaxStepConcurrency)
	assert.False(t, opts.StepRunAsync)
	assert.True(t, opts.MemStore)
}

func TestInExecutionBranch(t *testing.T) {
	opts := &StepOptions{}
	InExecutionBranch("cond1")(opts)
	InExecutionBranch("cond2")(opts)

	assert.Equal(t, []string{"cond1", "cond2"}, opts.ExecutionBranches)
}
