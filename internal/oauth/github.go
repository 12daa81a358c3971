package oauth

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/go-github/v57/github"
	"github.com/yukikurage/task-reminder-api/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// GitHubProvider signs users in with their GitHub account.
type GitHubProvider struct {
	config  *oauth2.Config
	baseURL *url.URL
}

// NewGitHubProvider creates a new GitHubProvider
func NewGitHubProvider(clientID, clientSecret, redirectURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoints.GitHub,
			Scopes:       []string{"read:user", "user:email"},
		},
	}
}

func (p *GitHubProvider) Name() models.SocialProvider {
	return models.SocialProviderGitHub
}

func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Identify exchanges code and loads the profile through the REST API. Users
// with a private email fall back to their primary verified address.
func (p *GitHubProvider) Identify(ctx context.Context, code string) (*Identity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github token exchange failed: %w", err)
	}

	client := github.NewClient(p.config.Client(ctx, token))
	if p.baseURL != nil {
		client.BaseURL = p.baseURL
	}

	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch github user: %w", err)
	}

	email := user.GetEmail()
	if email == "" {
		emails, _, err := client.Users.ListEmails(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to list github emails: %w", err)
		}
		for _, e := range emails {
			if e.GetPrimary() && e.GetVerified() {
				email = e.GetEmail()
				break
			}
		}
	}
	if email == "" {
		return nil, ErrMissingEmail
	}

	name := user.GetName()
	if name == "" {
		name = user.GetLogin()
	}

	return &Identity{
		ID:    strconv.FormatInt(user.GetID(), 10),
		Name:  name,
		Email: email,
	}, nil
}
