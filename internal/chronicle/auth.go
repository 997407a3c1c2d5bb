package chronicle

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// NewServiceAccountHTTPClient reads a service-account key file and returns an
// http.Client that attaches a bearer token for scopes to every request.
func NewServiceAccountHTTPClient(ctx context.Context, keyFile string, scopes ...string) (*http.Client, error) {
	if keyFile == "" {
		return nil, fmt.Errorf("service account key file is required")
	}
	if len(scopes) == 0 {
		scopes = []string{Scope}
	}

	// #nosec G304 -- key file path is operator-provided configuration.
	data, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("read service account key: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	return oauth2.NewClient(ctx, conf.TokenSource(ctx)), nil
}
