package loadgen

import (
	"context"
	"errors"
	"time"

	"github.com/coocood/freecache"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"
	tokenCacheSize     = 512 * 1024
	tokenKey           = "access_token"
	// tokens are refreshed this long before they expire
	tokenExpiryMargin = time.Minute
)

var errNoToken = errors.New("no access token")

// TokenProvider supplies bearer tokens
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed token
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	if t == "" {
		return "", errNoToken
	}

	return string(t), nil
}

// CachedTokenSource caches tokens of an oauth2.TokenSource until shortly before expiry
type CachedTokenSource struct {
	source oauth2.TokenSource
	cache  *freecache.Cache
}

func NewCachedTokenSource(source oauth2.TokenSource) *CachedTokenSource {
	return &CachedTokenSource{
		source: source,
		cache:  freecache.NewCache(tokenCacheSize),
	}
}

// NewGoogleTokenSource uses Application Default Credentials
func NewGoogleTokenSource(ctx context.Context) (*CachedTokenSource, error) {
	credentials, err := google.FindDefaultCredentials(ctx, cloudPlatformScope)
	if err != nil {
		return nil, err
	}

	return NewCachedTokenSource(credentials.TokenSource), nil
}

func (s *CachedTokenSource) Token(context.Context) (string, error) {
	if cached, err := s.cache.Get([]byte(tokenKey)); err == nil {
		return string(cached), nil
	}

	token, err := s.source.Token()
	if err != nil {
		return "", err
	}
	if token.AccessToken == "" {
		return "", errNoToken
	}

	ttl := 0
	if !token.Expiry.IsZero() {
		ttl = int(time.Until(token.Expiry.Add(-tokenExpiryMargin)) / time.Second)
		if ttl <= 0 {
			return token.AccessToken, nil
		}
	}
	// error means the entry does not fit; the token is still usable
	_ = s.cache.Set([]byte(tokenKey), []byte(token.AccessToken), ttl)

	return token.AccessToken, nil
}
