package google

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
)

// TokenProvider supplies OAuth tokens for the Calendar free/busy source.
type TokenProvider interface {
	// GetTokenForAccount retrieves an OAuth token for the specified account
	GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error)

	// HasTokenForAccount checks if a token exists for the specified account
	HasTokenForAccount(account string) bool
}

// FileTokenProvider reads tokens saved by "meetslot auth" from the user
// cache directory.
type FileTokenProvider struct{}

// NewFileTokenProvider creates a new file-based token provider
func NewFileTokenProvider() *FileTokenProvider {
	return &FileTokenProvider{}
}

// GetTokenForAccount retrieves a token from disk for the specified account
func (p *FileTokenProvider) GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error) {
	ts, err := GetTokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	token, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to get token from file: %w", err)
	}

	return token, nil
}

// HasTokenForAccount checks if a token file exists for the specified account
func (p *FileTokenProvider) HasTokenForAccount(account string) bool {
	return HasTokenForAccount(account)
}

// StaticTokenProvider serves tokens held in memory, keyed by account.
type StaticTokenProvider struct {
	mu     sync.RWMutex
	tokens map[string]*oauth2.Token
}

// NewStaticTokenProvider creates an empty in-memory provider.
func NewStaticTokenProvider() *StaticTokenProvider {
	return &StaticTokenProvider{tokens: make(map[string]*oauth2.Token)}
}

// SetToken stores token for account.
func (p *StaticTokenProvider) SetToken(account string, token *oauth2.Token) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokens[account] = token
}

// GetTokenForAccount returns the stored token or an authentication error.
func (p *StaticTokenProvider) GetTokenForAccount(_ context.Context, account string) (*oauth2.Token, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	token, ok := p.tokens[account]
	if !ok {
		return nil, fmt.Errorf("%s", GetAuthenticationErrorMessage(account))
	}
	return token, nil
}

// HasTokenForAccount reports whether a token is stored for account.
func (p *StaticTokenProvider) HasTokenForAccount(account string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.tokens[account]
	return ok
}
