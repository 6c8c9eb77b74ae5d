package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem abstracts the file operations the loader needs, so tests can
// substitute an in-memory implementation.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem implements FileSystem against the real filesystem.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderOptions holds loader dependencies and optional file overrides.
type LoaderOptions struct {
	FileSystem FileSystem
	ConfigFile string // explicit config file path (optional)
	EnvFile    string // explicit .env file path (optional)
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderOptions)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lo *LoaderOptions) { lo.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lo *LoaderOptions) { lo.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lo *LoaderOptions) { lo.EnvFile = path }
}

// configSearchPaths are the locations probed for a config file, in order,
// when no explicit path is given. name is the host's configured name.
func configSearchPaths(name string) []string {
	return []string{
		fmt.Sprintf("./%s.yml", name),
		fmt.Sprintf("./config/%s.yml", name),
		"./config.yml",
		"./config/config.yml",
	}
}

// envSearchPaths are the locations probed for a .env file, in order.
func envSearchPaths(name string) []string {
	return []string{
		fmt.Sprintf("./.env.%s", name),
		"./.env",
		"./config/.env",
	}
}

// Load populates cfg for the named host: YAML file first (lowest
// precedence), then an optional .env file, then environment variables. The
// .env file only sets variables not already present in the process
// environment, so a variable set in the environment wins over the same key
// in .env, and both win over the YAML file.
// Missing files are skipped silently; a malformed config file is an error.
func Load(name string, cfg any, opts ...LoaderOption) error {
	var lo LoaderOptions
	for _, opt := range opts {
		opt(&lo)
	}
	if lo.FileSystem == nil {
		lo.FileSystem = OSFileSystem{}
	}

	configFile := lo.ConfigFile
	if configFile == "" {
		configFile = firstExisting(lo.FileSystem, configSearchPaths(name))
	}
	envFile := lo.EnvFile
	if envFile == "" {
		envFile = firstExisting(lo.FileSystem, envSearchPaths(name))
	}

	v := viper.New()

	if configFile != "" && lo.FileSystem.Exists(configFile) {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	if envFile != "" && lo.FileSystem.Exists(envFile) {
		if err := lo.FileSystem.LoadEnv(envFile); err != nil {
			return fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshaling config for %s: %w", name, err)
	}
	return nil
}

func firstExisting(fs FileSystem, paths []string) string {
	for _, path := range paths {
		if fs.Exists(path) {
			return path
		}
	}
	return ""
}

// bindEnvVars maps UPPER_SNAKE environment variables onto viper's nested
// dotted keys: SCHEDULER_MODE binds to both "scheduler_mode" and
// "scheduler.mode", and every progressive split in between, so a flat env
// var can address any nesting depth of the config struct.
func bindEnvVars(v *viper.Viper) {
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		for _, variant := range envKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	if len(parts) <= 1 {
		return []string{lower}
	}

	seen := map[string]bool{}
	var variants []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			variants = append(variants, s)
		}
	}

	add(lower)
	add(strings.ReplaceAll(lower, "_", "."))
	for i := 1; i < len(parts); i++ {
		add(strings.Join(parts[:i], ".") + "." + strings.Join(parts[i:], "_"))
	}
	return variants
}
