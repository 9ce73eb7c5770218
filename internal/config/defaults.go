package config

const (
	defaultNamespace        = "vtdata"
	defaultAuthorityTimeout = 30
	defaultFastDigest       = "md5"
	defaultStrongDigest     = "sha3-256"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Identifier: Identifier{
			Namespace:        defaultNamespace,
			AuthorityTimeout: defaultAuthorityTimeout,
		},
		Manifest: Manifest{
			FastDigest:   defaultFastDigest,
			StrongDigest: defaultStrongDigest,
		},
		Packaging: Packaging{
			Digests: []string{"md5", "sha512"},
		},
		Walker: Walker{
			ArtifactNames: []string{".DS_Store", "Thumbs.db", "desktop.ini"},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
