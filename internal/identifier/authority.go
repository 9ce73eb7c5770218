package identifier

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Authority requests durable identifiers from a remote naming authority.
// The endpoint is expected to answer a GET with the bare identifier string;
// responses lacking the configured namespace prefix are rejected rather than
// silently renamed.
type Authority struct {
	url       string
	namespace string
	client    *http.Client
}

// NewAuthority constructs a naming authority client. timeoutSeconds bounds
// each request.
func NewAuthority(url, namespace string, timeoutSeconds int) *Authority {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	return &Authority{
		url:       url,
		namespace: namespace,
		client:    &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second},
	}
}

// Generate performs one mint request against the naming authority.
func (a *Authority) Generate(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return "", fmt.Errorf("naming authority request: %w", err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("naming authority call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("naming authority returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", fmt.Errorf("naming authority response: %w", err)
	}
	id := strings.TrimSpace(string(body))
	if id == "" {
		return "", fmt.Errorf("naming authority returned an empty identifier")
	}
	if a.namespace != "" && !strings.HasPrefix(id, a.namespace+"_") {
		return "", fmt.Errorf("naming authority identifier %q lacks namespace %q", id, a.namespace)
	}
	return id, nil
}
