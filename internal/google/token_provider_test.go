package google

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestStaticTokenProvider(t *testing.T) {
	p := NewStaticTokenProvider()

	assert.False(t, p.HasTokenForAccount("work"))
	_, err := p.GetTokenForAccount(context.Background(), "work")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "meetslot auth --account work")

	p.SetToken("work", &oauth2.Token{AccessToken: "abc"})
	assert.True(t, p.HasTokenForAccount("work"))

	token, err := p.GetTokenForAccount(context.Background(), "work")
	require.NoError(t, err)
	assert.Equal(t, "abc", token.AccessToken)
}

func TestFileTokenProvider_Missing(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	p := NewFileTokenProvider()
	assert.False(t, p.HasTokenForAccount("nobody"))

	_, err := p.GetTokenForAccount(context.Background(), "nobody")
	assert.Error(t, err)
}

var _ TokenProvider = (*FileTokenProvider)(nil)
var _ TokenProvider = (*StaticTokenProvider)(nil)
