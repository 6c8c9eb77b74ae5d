package config

import (
	apperrors "github.com/kbukum/flowio/errors"
	"github.com/kbukum/flowio/logger"
	"github.com/kbukum/flowio/scheduler"
)

// SchedulerMode selects the task-scheduler backend the runtime defers
// work on.
type SchedulerMode string

const (
	// ModeMicrotask drains tasks on a dedicated goroutine in FIFO order;
	// the default for production use.
	ModeMicrotask SchedulerMode = "microtask"
	// ModeImmediate drains tasks on its own dedicated goroutine in FIFO
	// order (scheduler.Immediate, the macrotask-tier backend).
	ModeImmediate SchedulerMode = "immediate"
	// ModeManual queues tasks until Flush is called; for deterministic
	// tests.
	ModeManual SchedulerMode = "manual"
)

// SchedulerConfig configures the runtime's task scheduler.
type SchedulerConfig struct {
	Mode SchedulerMode `yaml:"mode" mapstructure:"mode"`
}

// ApplyDefaults applies default values to scheduler configuration.
func (c *SchedulerConfig) ApplyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeMicrotask
	}
}

// Validate validates scheduler configuration.
func (c *SchedulerConfig) Validate() error {
	switch c.Mode {
	case ModeMicrotask, ModeImmediate, ModeManual:
		return nil
	default:
		return apperrors.InvalidConfig("scheduler.mode",
			"mode must be one of microtask, immediate, manual").
			WithDetail("value", string(c.Mode))
	}
}

// Build constructs the scheduler backend this configuration selects.
func (c *SchedulerConfig) Build() (scheduler.Scheduler, error) {
	switch c.Mode {
	case "", ModeMicrotask:
		return scheduler.NewQueue(), nil
	case ModeImmediate:
		return scheduler.NewImmediate(), nil
	case ModeManual:
		return scheduler.NewManual(), nil
	default:
		return nil, c.Validate()
	}
}

// IteratorConfig configures iterator construction defaults.
type IteratorConfig struct {
	// DefaultMaxBufferSize bounds a buffered iterator's internal queue
	// when the caller does not specify a size.
	DefaultMaxBufferSize int `yaml:"default_max_buffer_size" mapstructure:"default_max_buffer_size"`
}

// ApplyDefaults applies default values to iterator configuration.
func (c *IteratorConfig) ApplyDefaults() {
	if c.DefaultMaxBufferSize == 0 {
		c.DefaultMaxBufferSize = 4
	}
}

// Validate validates iterator configuration.
func (c *IteratorConfig) Validate() error {
	if c.DefaultMaxBufferSize < 1 {
		return apperrors.InvalidConfig("iterator.default_max_buffer_size",
			"default_max_buffer_size must be at least 1").
			WithDetail("value", c.DefaultMaxBufferSize)
	}
	return nil
}

// Config is the root configuration a host embeds or loads to run flowio
// pipelines: the scheduler backend, iterator defaults, and logging.
type Config struct {
	Name        string          `yaml:"name" mapstructure:"name"`
	Environment string          `yaml:"environment" mapstructure:"environment"`
	Debug       bool            `yaml:"debug" mapstructure:"debug"`
	Scheduler   SchedulerConfig `yaml:"scheduler" mapstructure:"scheduler"`
	Iterator    IteratorConfig  `yaml:"iterator" mapstructure:"iterator"`
	Logging     logger.Config   `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values across the whole configuration.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "flowio"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Scheduler.ApplyDefaults()
	c.Iterator.ApplyDefaults()
	c.Logging.ApplyDefaults()
	if c.Debug && c.Logging.Level == "info" {
		c.Logging.Level = "debug"
	}
}

// Validate validates the whole configuration.
func (c *Config) Validate() error {
	if err := c.Scheduler.Validate(); err != nil {
		return err
	}
	if err := c.Iterator.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}
