package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// ConfigFileName is the buddy configuration file inside a buddy directory
	ConfigFileName = "buddy.toml"
	envPrefix      = "BUDDY_"
)

// safeName restricts names that end up inside artifact file names
var safeName = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Config is the buddy.toml configuration
type Config struct {
	Name             string       `koanf:"name"`
	Model            string       `koanf:"model"`
	InstructionsFile string       `koanf:"instructions_file"`
	Run              RunConfig    `koanf:"run"`
	FileBundles      []FileBundle `koanf:"file_bundles"`
}

// RunConfig bounds the run polling loop
type RunConfig struct {
	PollInterval time.Duration `koanf:"poll_interval"`
	MaxPolls     int           `koanf:"max_polls"`
	Timeout      time.Duration `koanf:"timeout"`
}

// FileBundle describes a set of source files packaged into one knowledge file
type FileBundle struct {
	BundleName string   `koanf:"bundle_name"`
	SrcDir     string   `koanf:"src_dir"`
	SrcGlobs   []string `koanf:"src_globs"`
	DstExt     string   `koanf:"dst_ext"`
}

// PollConfig converts the run section for the poller
func (c RunConfig) PollConfig() PollConfig {
	return PollConfig{
		Interval: c.PollInterval,
		MaxPolls: c.MaxPolls,
		Timeout:  c.Timeout,
	}
}

// LoadConfig loads dir/buddy.toml on top of the defaults, then applies BUDDY_ env overrides.
// Nested keys use a double underscore: BUDDY_RUN__TIMEOUT=2m.
func LoadConfig(dir string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"instructions_file": "instructions.md",
		"run.poll_interval": "500ms",
		"run.max_polls":     1200,
		"run.timeout":       "10m",
	}, "."), nil); err != nil {
		return nil, &ConfigError{Key: "defaults", Err: err}
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
		return nil, &ConfigError{Key: configPath, Err: err}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, &ConfigError{Key: envPrefix + "*", Err: err}
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, &ConfigError{Key: configPath, Err: fmt.Errorf("error unmarshalling config: %w", err)}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks required fields and file-name safety
func (c *Config) Validate() error {
	if c.Name == "" {
		return &ConfigError{Key: "name", Err: errors.New("name is required")}
	}
	if !safeName.MatchString(c.Name) {
		return &ConfigError{Key: "name", Err: fmt.Errorf("%q may only contain letters, digits, '.', '_' and '-'", c.Name)}
	}
	if c.Model == "" {
		return &ConfigError{Key: "model", Err: errors.New("model is required")}
	}
	if c.Run.PollInterval <= 0 {
		return &ConfigError{Key: "run.poll_interval", Err: errors.New("poll interval must be positive")}
	}
	if c.Run.MaxPolls < 0 || c.Run.Timeout < 0 {
		return &ConfigError{Key: "run", Err: errors.New("max_polls and timeout must not be negative")}
	}

	seen := make(map[string]bool)
	for i, bundle := range c.FileBundles {
		key := fmt.Sprintf("file_bundles[%d]", i)
		switch {
		case bundle.BundleName == "":
			return &ConfigError{Key: key, Err: errors.New("bundle_name is required")}
		case !safeName.MatchString(bundle.BundleName):
			return &ConfigError{Key: key, Err: fmt.Errorf("bundle_name %q may only contain letters, digits, '.', '_' and '-'", bundle.BundleName)}
		case seen[bundle.BundleName]:
			return &ConfigError{Key: key, Err: fmt.Errorf("duplicate bundle_name %q", bundle.BundleName)}
		case bundle.SrcDir == "":
			return &ConfigError{Key: key, Err: errors.New("src_dir is required")}
		case strings.TrimPrefix(bundle.DstExt, ".") == "" || !safeName.MatchString(strings.TrimPrefix(bundle.DstExt, ".")):
			return &ConfigError{Key: key, Err: fmt.Errorf("invalid dst_ext %q", bundle.DstExt)}
		}
		seen[bundle.BundleName] = true
	}

	return nil
}

const sampleConfig = `# Buddy configuration

name = "buddy-01"
model = "gpt-4o-mini"
instructions_file = "instructions.md"

[run]
poll_interval = "500ms"
max_polls = 1200
timeout = "10m"

[[file_bundles]]
bundle_name = "code"
src_dir = "src"
src_globs = ["**/*.go"]
dst_ext = "go"
`

const sampleInstructions = `You are a helpful programming assistant.

Answer using the knowledge files attached to you when they are relevant.
`

// InitConfig writes a sample buddy.toml and instructions file into dir
func InitConfig(dir string) error {
	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		return &ConfigError{Key: configPath, Err: errors.New("configuration file already exists")}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return &IOError{Op: "mkdir", Path: dir, Err: err}
	}
	if err := os.WriteFile(configPath, []byte(sampleConfig), 0644); err != nil {
		return &IOError{Op: "write", Path: configPath, Err: err}
	}

	instructionsPath := filepath.Join(dir, "instructions.md")
	if _, err := os.Stat(instructionsPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(instructionsPath, []byte(sampleInstructions), 0644); err != nil {
			return &IOError{Op: "write", Path: instructionsPath, Err: err}
		}
	}

	return nil
}
