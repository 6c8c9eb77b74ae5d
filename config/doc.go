// Package config loads and validates the runtime configuration a host
// wires flowio with: scheduler backend selection, iterator buffer
// defaults, and logging.
//
// A host embeds Config (or just the sub-configs it cares about) in its own
// configuration struct and loads it with Load, which layers a YAML file,
// environment variables, and an optional .env file:
//
//	var cfg config.Config
//	if err := config.Load("my-pipeline", &cfg); err != nil { ... }
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil { ... }
//	sched, _ := cfg.Scheduler.Build()
//	scheduler.Set(sched)
//
// The iterator runtime itself never reads configuration; only hosts do.
package config
