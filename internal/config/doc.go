// Package config loads, normalizes, and validates upack configuration data.
//
// It supplies repository defaults, reads TOML files, and centralizes every
// knob the CLI needs: identifier namespace and naming-authority endpoint,
// manifest and packaging digest algorithms, OS-artifact filenames, archive
// compression, and log output. Always obtain settings through this package
// so downstream code receives canonical digest names and clear validation
// errors.
package config
