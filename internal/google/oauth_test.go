package google

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOAuthConfig(t *testing.T) {
	conf := OAuthConfig("client-id", "client-secret")

	assert.Equal(t, "client-id", conf.ClientID)
	assert.Equal(t, "client-secret", conf.ClientSecret)
	require.Len(t, conf.Scopes, 1)
	assert.Contains(t, conf.Scopes[0], "calendar")
}

func TestAuthURL(t *testing.T) {
	conf := OAuthConfig("client-id", "client-secret")
	url := AuthURL(conf)

	assert.Contains(t, url, "client-id")
	assert.Contains(t, url, "access_type=offline")
	assert.Contains(t, url, "select_account")
}

func TestTokenFile(t *testing.T) {
	file, err := tokenFile("work")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file, filepath.Join(cacheDirName, "work.token")))
}

func TestTokenFileRejectsBadNames(t *testing.T) {
	_, err := tokenFile("")
	assert.Error(t, err)

	_, err = tokenFile("../escape")
	assert.Error(t, err)
}

func TestHasTokenForAccount(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	assert.False(t, HasTokenForAccount("work"))
	assert.False(t, HasTokenForAccount(""))
}

func TestFileTokenProviderHasToken(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	provider := NewFileTokenProvider(OAuthConfig("id", "secret"))
	assert.False(t, provider.HasTokenForAccount("personal"))
}
