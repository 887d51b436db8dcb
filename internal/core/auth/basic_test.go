package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authgate/authgate/internal/core/domain"
)

func basicHeader(credentials string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials))
}

func TestExtractBasicToken(t *testing.T) {
	token, ok := extractBasicToken("Basic dXNlcjpwYXNz")
	require.True(t, ok)
	assert.Equal(t, "dXNlcjpwYXNz", token)

	_, ok = extractBasicToken("Bearer dXNlcjpwYXNz")
	assert.False(t, ok)
	_, ok = extractBasicToken("Basic ")
	assert.False(t, ok)
	_, ok = extractBasicToken("")
	assert.False(t, ok)

	// Surrounding whitespace is tolerated, the scheme itself is not fuzzy.
	token, ok = extractBasicToken("  Basic dXNlcjpwYXNz  ")
	require.True(t, ok)
	assert.Equal(t, "dXNlcjpwYXNz", token)
	_, ok = extractBasicToken("basic dXNlcjpwYXNz")
	assert.False(t, ok)
}

func TestDecodeBasicToken(t *testing.T) {
	decoded, ok := decodeBasicToken(base64.StdEncoding.EncodeToString([]byte("user@x.com:secret")))
	require.True(t, ok)
	assert.Equal(t, "user@x.com:secret", decoded)

	_, ok = decodeBasicToken("%%% not base64 %%%")
	assert.False(t, ok)

	_, ok = decodeBasicToken(base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe}))
	assert.False(t, ok, "invalid utf-8 must not decode")
}

func TestSplitCredentials(t *testing.T) {
	email, password, ok := splitCredentials("user@x.com:secret")
	require.True(t, ok)
	assert.Equal(t, "user@x.com", email)
	assert.Equal(t, "secret", password)

	// The password keeps any further colons.
	email, password, ok = splitCredentials("user@x.com:se:cr:et")
	require.True(t, ok)
	assert.Equal(t, "user@x.com", email)
	assert.Equal(t, "se:cr:et", password)

	_, _, ok = splitCredentials("no colon here")
	assert.False(t, ok)
}

func TestBasicAuth_ResolvePrincipal(t *testing.T) {
	repo := newStubUserRepo()
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	repo.add(&domain.User{Email: "user@x.com", HashedPassword: hash})

	strategy := NewBasicAuth(repo)

	newRequest := func(header string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		return r
	}

	user := strategy.ResolvePrincipal(context.Background(), newRequest(basicHeader("user@x.com:secret")))
	require.NotNil(t, user)
	assert.Equal(t, "user@x.com", user.Email)

	assert.Nil(t, strategy.ResolvePrincipal(context.Background(), newRequest("")), "missing header")
	assert.Nil(t, strategy.ResolvePrincipal(context.Background(), newRequest("Bearer abc")), "wrong scheme")
	assert.Nil(t, strategy.ResolvePrincipal(context.Background(), newRequest("Basic !!!")), "bad base64")
	assert.Nil(t, strategy.ResolvePrincipal(context.Background(), newRequest(basicHeader("nocolon"))), "no colon")
	assert.Nil(t, strategy.ResolvePrincipal(context.Background(), newRequest(basicHeader("user@x.com:wrong"))), "wrong password")
	assert.Nil(t, strategy.ResolvePrincipal(context.Background(), newRequest(basicHeader("ghost@x.com:secret"))), "unknown user")
}
