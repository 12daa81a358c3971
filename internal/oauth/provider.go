// Package oauth implements the authorization-code flow against the
// supported social login providers.
package oauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/task-reminder-api/internal/config"
	"github.com/yukikurage/task-reminder-api/internal/models"
)

var (
	ErrUnsupportedProvider = errors.New("Service not supported")
	ErrMissingEmail        = errors.New("provider did not return an email address")
)

// Identity is the provider-side account of the user signing in.
type Identity struct {
	ID    string
	Name  string
	Email string
}

// Provider is one social login provider.
type Provider interface {
	Name() models.SocialProvider
	AuthCodeURL(state string) string
	Identify(ctx context.Context, code string) (*Identity, error)
}

// Registry maps a route parameter to its configured provider.
type Registry map[string]Provider

// NewRegistry builds the providers that have client credentials configured.
func NewRegistry(cfg *config.Config) Registry {
	registry := Registry{}
	if cfg.GoogleClientID != "" {
		registry.Add(NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, redirectURL(cfg, cfg.GoogleRedirectURL, models.SocialProviderGoogle)))
	}
	if cfg.GitHubClientID != "" {
		registry.Add(NewGitHubProvider(cfg.GitHubClientID, cfg.GitHubClientSecret, redirectURL(cfg, cfg.GitHubRedirectURL, models.SocialProviderGitHub)))
	}
	return registry
}

func redirectURL(cfg *config.Config, configured string, provider models.SocialProvider) string {
	if configured != "" {
		return configured
	}
	return fmt.Sprintf("%s/callback/%s", cfg.AppURL, provider)
}

// Add registers p under its name.
func (r Registry) Add(p Provider) {
	r[string(p.Name())] = p
}

// Get returns the provider for service. Known providers without
// credentials are reported as unsupported as well.
func (r Registry) Get(service string) (Provider, error) {
	p, ok := r[service]
	if !ok {
		return nil, ErrUnsupportedProvider
	}
	return p, nil
}
