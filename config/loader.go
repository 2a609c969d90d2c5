package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/voxalign/logger"
	"github.com/kbukum/voxalign/util"
)

// EnvPrefix marks the environment variables that override settings, e.g.
// VOXALIGN_ALIGNMENT_THRESHOLD=0.4.
const EnvPrefix = "VOXALIGN_"

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	UserConfigDir() (string, error)
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

func (rfs *RealFileSystem) UserConfigDir() (string, error) {
	return os.UserConfigDir()
}

// Resolver handles finding and resolving config and env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles finds config and env files for a service.
// Returns explicit paths if provided, otherwise searches for them.
func (cr *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}

	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.findConfigFile(serviceName)
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.findEnvFile(serviceName)
	}

	return resolved
}

// findConfigFile searches for a config file in standard locations: next to
// the binary's sources, in ./config, in the working directory, and finally
// in the user's config directory.
func (cr *Resolver) findConfigFile(serviceName string) string {
	searchPaths := []string{
		fmt.Sprintf("./%s.yml", serviceName),
		fmt.Sprintf("./%s.yaml", serviceName),
		fmt.Sprintf("./cmd/%s/config.yml", serviceName),
		fmt.Sprintf("../cmd/%s/config.yml", serviceName),
		fmt.Sprintf("../../cmd/%s/config.yml", serviceName),
		"./config/config.yml",
		"../config/config.yml",
		"./config.yml",
	}
	if home, err := cr.FileSystem.UserConfigDir(); err == nil && home != "" {
		searchPaths = append(searchPaths, fmt.Sprintf("%s/%s/config.yml", home, serviceName))
	}

	for _, path := range searchPaths {
		if cr.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// findEnvFile searches for .env files in standard locations.
func (cr *Resolver) findEnvFile(serviceName string) string {
	envFiles := []string{
		fmt.Sprintf(".env.%s", serviceName),
		".env",
	}
	searchPaths := buildEnvSearchPaths(serviceName)

	for _, envFile := range envFiles {
		for _, basePath := range searchPaths {
			var fullPath string
			if basePath == "" {
				fullPath = envFile
			} else {
				fullPath = fmt.Sprintf("%s/%s", basePath, envFile)
			}
			if cr.FileSystem.Exists(fullPath) {
				return fullPath
			}
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
	Logger     *logger.Logger
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithLogger receives warnings about config and .env files that could not
// be read. Without it those warnings are dropped.
func WithLogger(log *logger.Logger) LoaderOption {
	return func(lc *LoaderConfig) { lc.Logger = log }
}

// LoadConfig loads configuration for a service into the provided cfg struct.
// It searches for config and .env files in standard locations, binds
// EnvPrefix environment variables, and unmarshals the result into cfg. An
// explicitly requested config file that does not exist is an error.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}
	if lc.ConfigFile != "" && !lc.FileSystem.Exists(lc.ConfigFile) {
		return fmt.Errorf("config file %s not found", lc.ConfigFile)
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(serviceName, lc)

	return loadFromResolvedFiles(serviceName, cfg, files, lc.FileSystem, logger.OrNop(lc.Logger).WithComponent("config"))
}

// loadFromResolvedFiles loads configuration from specific files.
func loadFromResolvedFiles(serviceName string, cfg interface{}, files ResolvedFiles, fs FileSystem, log *logger.Logger) error {
	v := viper.New()

	// 1. Load YAML config first (base configuration)
	if files.ConfigFile != "" && fs.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			log.Warn("failed to load config file", logger.MergeWithError(logger.Fields("file", files.ConfigFile), err))
		}
	}

	// 2. Load .env file so its variables are visible to the binding below
	if files.EnvFile != "" && fs.Exists(files.EnvFile) {
		if err := fs.LoadEnv(files.EnvFile); err != nil {
			log.Warn("failed to load .env file", logger.MergeWithError(logger.Fields("file", files.EnvFile), err))
		}
	}

	// 3. Environment overrides file values
	bindEnv(v, cfg, os.Environ())

	// 4. Unmarshal into config struct
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}

	return nil
}

// buildEnvSearchPaths lists the directories searched for .env files, most
// specific first. The empty string stands for the working directory as
// given by a bare relative name.
func buildEnvSearchPaths(serviceName string) []string {
	var paths []string
	for _, prefix := range []string{
		fmt.Sprintf("cmd/%s", serviceName),
		fmt.Sprintf("config/%s", serviceName),
		"config",
	} {
		paths = append(paths, "./"+prefix, "../"+prefix, "../../"+prefix)
	}
	return append(paths, ".", "..", "../..", "")
}

// bindEnv copies EnvPrefix variables into v under the settings key they
// name. Keys come from cfg's mapstructure tags, so
// VOXALIGN_TONE_BREAKER_COOLDOWN finds tone.breaker_cooldown even though
// the name is split on underscores. Map-typed settings take any suffix:
// VOXALIGN_ASSIGNMENTS_0 sets assignments.0.
func bindEnv(v *viper.Viper, cfg interface{}, environ []string) {
	keys := envKeys(reflect.TypeOf(cfg), "")
	for _, env := range environ {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		if key := keys.lookup(strings.ToLower(strings.TrimPrefix(name, EnvPrefix))); key != "" {
			v.Set(key, util.SanitizeEnvValue(value))
		}
	}
}

// envKeyIndex maps an underscore-joined name to its dotted settings key.
// Map-typed settings are listed separately since their keys are open.
type envKeyIndex struct {
	leaves map[string]string
	maps   map[string]string
}

func (idx envKeyIndex) lookup(name string) string {
	if key, ok := idx.leaves[name]; ok {
		return key
	}
	for flat, key := range idx.maps {
		if suffix, ok := strings.CutPrefix(name, flat+"_"); ok && suffix != "" {
			return key + "." + suffix
		}
	}
	return ""
}

func envKeys(t reflect.Type, prefix string) envKeyIndex {
	idx := envKeyIndex{leaves: map[string]string{}, maps: map[string]string{}}
	collectEnvKeys(t, prefix, idx)
	return idx
}

func collectEnvKeys(t reflect.Type, prefix string, idx envKeyIndex) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if tag == "-" {
			continue
		}
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		flat := strings.ReplaceAll(key, ".", "_")

		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		switch {
		case ft.Kind() == reflect.Map:
			idx.maps[flat] = key
		case ft.Kind() == reflect.Struct:
			collectEnvKeys(ft, key, idx)
		default:
			idx.leaves[flat] = key
		}
	}
}
