package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Identifier configures system identifier generation.
type Identifier struct {
	// Namespace is the fixed tag prefixed to every generated identifier.
	Namespace string `toml:"namespace"`
	// AuthorityURL, when set, switches generation from local random
	// identifiers to a remote naming authority call.
	AuthorityURL string `toml:"authority_url"`
	// AuthorityTimeout bounds the naming authority request, in seconds.
	AuthorityTimeout int `toml:"authority_timeout"`
}

// Manifest configures the per-object inventory manifest.
type Manifest struct {
	// FastDigest is the widely compatible, non-cryptographic-grade digest
	// column. MD5 remains the default pending downstream confirmation that
	// it can be dropped.
	FastDigest string `toml:"fast_digest"`
	// StrongDigest is the strong content digest column.
	StrongDigest string `toml:"strong_digest"`
}

// Packaging configures the fixity packaging collaborator.
type Packaging struct {
	// Digests are the checksum algorithms requested from the packager.
	Digests []string `toml:"digests"`
}

// Archive configures the archiving stage.
type Archive struct {
	// Compress selects the gzip variant of the archive contract.
	Compress bool `toml:"compress"`
}

// Walker configures directory traversal.
type Walker struct {
	// ArtifactNames are OS sentinel filenames deleted on sight during
	// traversal and never listed in manifests.
	ArtifactNames []string `toml:"artifact_names"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	LogDir string `toml:"log_dir"`
}

// Config centralizes every knob the packer CLI needs.
type Config struct {
	Identifier Identifier `toml:"identifier"`
	Manifest   Manifest   `toml:"manifest"`
	Packaging  Packaging  `toml:"packaging"`
	Archive    Archive    `toml:"archive"`
	Walker     Walker     `toml:"walker"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the canonical configuration file location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "upack", "config.toml"), nil
}

// Load reads the TOML file at path, layered over repository defaults. A
// missing file is not an error when path is empty or the default location:
// defaults apply. The result is normalized and validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// No config file: defaults are a complete configuration.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteSample writes the embedded commented sample configuration to path,
// refusing to clobber an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

func (c *Config) normalize() {
	c.Identifier.Namespace = strings.TrimSpace(c.Identifier.Namespace)
	c.Identifier.AuthorityURL = strings.TrimSpace(c.Identifier.AuthorityURL)
	c.Manifest.FastDigest = strings.ToLower(strings.TrimSpace(c.Manifest.FastDigest))
	c.Manifest.StrongDigest = strings.ToLower(strings.TrimSpace(c.Manifest.StrongDigest))
	for i, d := range c.Packaging.Digests {
		c.Packaging.Digests[i] = strings.ToLower(strings.TrimSpace(d))
	}
	names := c.Walker.ArtifactNames[:0]
	for _, name := range c.Walker.ArtifactNames {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	c.Walker.ArtifactNames = names
}
