package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brettbedarf/memtree/internal/util"
	"gopkg.in/yaml.v3"
)

// Default configuration constants. See [Config] for field descriptions.
const (
	// DefaultMaxNameLen is the maximum number of characters accepted by the name validator
	DefaultMaxNameLen = 42

	// DefaultMaxPathLen is the maximum path length in bytes accepted by the path validator
	DefaultMaxPathLen = 256

	// DefaultIndentPrefix is repeated once per depth level when rendering
	DefaultIndentPrefix = "| "

	// DefaultAtomicDirs keeps the non-atomic mkdir -p contract by default
	DefaultAtomicDirs = false

	DefaultLogLvl = util.InfoLevel
	DefaultFsName = "memtree"
	DefaultName   = "memtree"
)

// CLI verbosity levels accepted by ConfigOverride.LogLvl
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Config contains runtime configuration values for a tree.
type Config struct {
	MountOptions
	LogLvl       util.LogLevel // Internal log level (Default Info)
	MaxNameLen   int           // Max characters per name (Default 42)
	MaxPathLen   int           // Max bytes per path (Default 256)
	IndentPrefix string        // Per-depth prefix used by Render (Default "| ")
	AtomicDirs   bool          // Resolve the whole path before creating any directory (Default false)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
//
// LogLvl is expressed as CLI verbosity 1 (error) to 5 (trace) and clamped.
type ConfigOverride struct {
	LogLvl       *int    `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	MaxNameLen   *int    `yaml:"max_name_len,omitempty" json:"max_name_len,omitempty"`
	MaxPathLen   *int    `yaml:"max_path_len,omitempty" json:"max_path_len,omitempty"`
	IndentPrefix *string `yaml:"indent_prefix,omitempty" json:"indent_prefix,omitempty"`
	AtomicDirs   *bool   `yaml:"atomic_dirs,omitempty" json:"atomic_dirs,omitempty"`
	Debug        *bool   `yaml:"fuse_debug,omitempty" json:"fuse_debug,omitempty"`
	FsName       *string `yaml:"fs_name,omitempty" json:"fs_name,omitempty"`
	Name         *string `yaml:"name,omitempty" json:"name,omitempty"`
	AllowOther   *bool   `yaml:"allow_other,omitempty" json:"allow_other,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		MountOptions: MountOptions{
			FsName: DefaultFsName,
			Name:   DefaultName,
		},
		LogLvl:       DefaultLogLvl,
		MaxNameLen:   DefaultMaxNameLen,
		MaxPathLen:   DefaultMaxPathLen,
		IndentPrefix: DefaultIndentPrefix,
		AtomicDirs:   DefaultAtomicDirs,
	}
}

// NewConfig creates a Config from defaults with override applied.
// A nil override yields the defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.LogLvl != nil {
		c.LogLvl = VerboseToLogLevel(*override.LogLvl)
	}
	if override.MaxNameLen != nil {
		c.MaxNameLen = *override.MaxNameLen
	}
	if override.MaxPathLen != nil {
		c.MaxPathLen = *override.MaxPathLen
	}
	if override.IndentPrefix != nil {
		c.IndentPrefix = *override.IndentPrefix
	}
	if override.AtomicDirs != nil {
		c.AtomicDirs = *override.AtomicDirs
	}
	if override.Debug != nil {
		c.Debug = *override.Debug
	}
	if override.FsName != nil {
		c.FsName = *override.FsName
	}
	if override.Name != nil {
		c.Name = *override.Name
	}
	if override.AllowOther != nil {
		c.AllowOther = *override.AllowOther
	}
}

// VerboseToLogLevel converts CLI verbosity (1 error .. 5 trace) into a
// [util.LogLevel], clamping out of range values.
func VerboseToLogLevel(verbose int) util.LogLevel {
	verbose = max(ErrorVerbose, min(verbose, TraceVerbose))
	logLvls := [5]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
	return logLvls[verbose-1]
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
func NewConfigFromFile(path string) (*Config, error) {
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	return NewConfig(override), nil
}
