package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/limenVTech/UDCS-Packer/internal/checksum"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateIdentifier(); err != nil {
		return err
	}
	if err := c.validateManifest(); err != nil {
		return err
	}
	if err := c.validatePackaging(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateIdentifier() error {
	if c.Identifier.Namespace == "" {
		return errors.New("identifier.namespace must be set")
	}
	if strings.ContainsAny(c.Identifier.Namespace, "/\\ ") {
		return fmt.Errorf("identifier.namespace %q must not contain path separators or spaces", c.Identifier.Namespace)
	}
	if c.Identifier.AuthorityURL != "" {
		parsed, err := url.Parse(c.Identifier.AuthorityURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("identifier.authority_url %q is not a valid URL", c.Identifier.AuthorityURL)
		}
	}
	if c.Identifier.AuthorityTimeout <= 0 {
		return errors.New("identifier.authority_timeout must be positive")
	}
	return nil
}

func (c *Config) validateManifest() error {
	if _, err := checksum.Parse(c.Manifest.FastDigest); err != nil {
		return fmt.Errorf("manifest.fast_digest: %w", err)
	}
	if _, err := checksum.Parse(c.Manifest.StrongDigest); err != nil {
		return fmt.Errorf("manifest.strong_digest: %w", err)
	}
	if c.Manifest.FastDigest == c.Manifest.StrongDigest {
		return errors.New("manifest.fast_digest and manifest.strong_digest must differ")
	}
	return nil
}

func (c *Config) validatePackaging() error {
	if len(c.Packaging.Digests) == 0 {
		return errors.New("packaging.digests must list at least one algorithm")
	}
	seen := map[string]struct{}{}
	for _, d := range c.Packaging.Digests {
		if _, err := checksum.Parse(d); err != nil {
			return fmt.Errorf("packaging.digests: %w", err)
		}
		if _, dup := seen[d]; dup {
			return fmt.Errorf("packaging.digests lists %q twice", d)
		}
		seen[d] = struct{}{}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	return nil
}

// ManifestDigests returns the parsed (fast, strong) manifest algorithm pair.
// Call only on a validated Config.
func (c *Config) ManifestDigests() (checksum.Algorithm, checksum.Algorithm) {
	fast, _ := checksum.Parse(c.Manifest.FastDigest)
	strong, _ := checksum.Parse(c.Manifest.StrongDigest)
	return fast, strong
}

// PackagingDigests returns the parsed packaging algorithm list. Call only on
// a validated Config.
func (c *Config) PackagingDigests() []checksum.Algorithm {
	algs := make([]checksum.Algorithm, 0, len(c.Packaging.Digests))
	for _, d := range c.Packaging.Digests {
		alg, _ := checksum.Parse(d)
		algs = append(algs, alg)
	}
	return algs
}
