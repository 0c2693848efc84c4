package msauth

import (
	"context"
	"time"

	"outreach_portal_backend/internal/msgraph"
	"outreach_portal_backend/platform/apperr"
	"outreach_portal_backend/platform/logger"
)

// expirySkew forces a refresh slightly before the provider's deadline so a
// token never expires mid-request.
const expirySkew = 2 * time.Minute

// Service manages the connected Microsoft account and hands out valid access
// tokens, refreshing them on demand.
type Service struct {
	repo  *Repository
	graph *msgraph.Client
	log   *logger.Logger
}

func NewService(repo *Repository, graph *msgraph.Client, log *logger.Logger) *Service {
	return &Service{repo: repo, graph: graph, log: log}
}

// Status describes the current mailbox connection.
type Status struct {
	Connected    bool       `json:"connected"`
	AccountEmail string     `json:"account_email,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

func (s *Service) Status(ctx context.Context) (Status, error) {
	token, err := s.repo.Get(ctx)
	if err == ErrNotConnected {
		return Status{Connected: false}, nil
	}
	if err != nil {
		return Status{}, err
	}
	return Status{Connected: true, AccountEmail: token.AccountEmail, ExpiresAt: &token.ExpiresAt}, nil
}

// Connect stores credentials obtained by the frontend's OAuth flow. The
// refresh token is exchanged immediately to validate it before persisting.
func (s *Service) Connect(ctx context.Context, accountEmail, refreshToken string) (Status, error) {
	token, err := s.graph.RefreshToken(ctx, refreshToken)
	if err != nil {
		s.log.MailProviderError("token_refresh", providerStatus(err), err)
		return Status{}, apperr.Upstream("could not validate microsoft credentials")
	}

	var scope *string
	if token.Scope != "" {
		scope = &token.Scope
	}
	stored, err := s.repo.Upsert(ctx, accountEmail, token.AccessToken, token.RefreshToken, scope, token.ExpiresAt)
	if err != nil {
		return Status{}, err
	}
	return Status{Connected: true, AccountEmail: stored.AccountEmail, ExpiresAt: &stored.ExpiresAt}, nil
}

// Disconnect drops the stored credentials.
func (s *Service) Disconnect(ctx context.Context) error {
	return s.repo.Delete(ctx)
}

// AccessToken returns a usable access token, refreshing first when the
// stored one is expired or close to it.
func (s *Service) AccessToken(ctx context.Context) (string, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		return "", err
	}
	if time.Until(stored.ExpiresAt) > expirySkew {
		return stored.AccessToken, nil
	}
	return s.refresh(ctx, stored)
}

// ForceRefresh discards the cached access token and refreshes. Used after
// the provider rejects a token that looked valid locally.
func (s *Service) ForceRefresh(ctx context.Context) (string, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		return "", err
	}
	return s.refresh(ctx, stored)
}

func (s *Service) refresh(ctx context.Context, stored StoredToken) (string, error) {
	token, err := s.graph.RefreshToken(ctx, stored.RefreshToken)
	if err != nil {
		s.log.MailProviderError("token_refresh", providerStatus(err), err)
		return "", apperr.Upstream("microsoft token refresh failed")
	}
	if err := s.repo.UpdateTokens(ctx, stored.ID, token.AccessToken, token.RefreshToken, token.ExpiresAt); err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

func providerStatus(err error) int {
	if perr, ok := err.(*msgraph.ProviderError); ok {
		return perr.StatusCode
	}
	return 0
}
