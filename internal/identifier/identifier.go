package identifier

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/limenVTech/UDCS-Packer/internal/config"
)

// Generator produces globally unique, namespaced system identifiers. A
// generated identifier must never have been returned before; registration
// never requests an identifier twice for the same object.
type Generator interface {
	Generate(ctx context.Context) (string, error)
}

// Local generates collision-resistant identifiers from 128 bits of local
// randomness. This is the default until a durable naming authority is
// configured.
type Local struct {
	Namespace string
}

// Generate returns "<namespace>_<uuid>".
func (l Local) Generate(context.Context) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate identifier: %w", err)
	}
	return l.Namespace + "_" + id.String(), nil
}

// FromConfig selects the configured generator: the remote naming authority
// when identifier.authority_url is set, local random generation otherwise.
func FromConfig(cfg *config.Config) Generator {
	if cfg.Identifier.AuthorityURL != "" {
		return NewAuthority(cfg.Identifier.AuthorityURL, cfg.Identifier.Namespace, cfg.Identifier.AuthorityTimeout)
	}
	return Local{Namespace: cfg.Identifier.Namespace}
}
