package fetcher

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/setupscatalog/linkengine/internal/domain"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productHTML = `<html><head><title>Monitor LG 27</title></head><body>ok</body></html>`

func newTestClient(config Config) *Client {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if config.PerHostRPS == 0 {
		config.PerHostRPS = 1000
		config.PerHostBurst = 100
	}
	return NewClient(config, logger)
}

func TestNewClient_Defaults(t *testing.T) {
	client := newTestClient(Config{})

	assert.Equal(t, 10*time.Second, client.timeout)
	assert.Equal(t, defaultUserAgent, client.userAgent)
	assert.Equal(t, defaultAcceptLanguage, client.acceptLanguage)
	assert.Equal(t, int64(defaultMaxBodyBytes), client.maxBodyBytes)
	assert.NotNil(t, client.httpClient)
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, defaultAcceptLanguage, r.Header.Get("Accept-Language"))
		assert.Contains(t, r.Header.Get("Accept"), "text/html")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(productHTML))
	}))
	defer server.Close()

	client := newTestClient(Config{})
	page, err := client.Fetch(context.Background(), server.URL+"/produto/1")

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Equal(t, productHTML, page.Body)
	assert.Equal(t, server.URL+"/produto/1", page.FinalURL)
	assert.Equal(t, "text/html; charset=utf-8", page.ContentType)
}

func TestFetch_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/short", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/produto/final", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/produto/final", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(productHTML))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(Config{})
	page, err := client.Fetch(context.Background(), server.URL+"/short")

	require.NoError(t, err)
	assert.Equal(t, server.URL+"/short", page.URL)
	assert.Equal(t, server.URL+"/produto/final", page.FinalURL)
}

func TestFetch_TooManyRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	}))
	defer server.Close()

	client := newTestClient(Config{MaxRedirects: 2})
	_, err := client.Fetch(context.Background(), server.URL+"/loop")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(Config{})
	_, err := client.Fetch(context.Background(), server.URL)

	var statusErr *domain.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.ErrorIs(t, err, domain.ErrNonSuccessResponse)
}

func TestFetch_NonHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := newTestClient(Config{})
	_, err := client.Fetch(context.Background(), server.URL)

	assert.ErrorIs(t, err, domain.ErrEmptyOrInvalidBody)
}

func TestFetch_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("   \n"))
	}))
	defer server.Close()

	client := newTestClient(Config{})
	_, err := client.Fetch(context.Background(), server.URL)

	assert.ErrorIs(t, err, domain.ErrEmptyOrInvalidBody)
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(Config{Timeout: 50 * time.Millisecond})
	_, err := client.Fetch(context.Background(), server.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetchTimeout)
	assert.NotErrorIs(t, err, domain.ErrNetwork)
}

func TestFetch_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	client := newTestClient(Config{})
	_, err := client.Fetch(context.Background(), addr)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.NotErrorIs(t, err, domain.ErrFetchTimeout)
}

func TestFetch_InvalidURL(t *testing.T) {
	client := newTestClient(Config{})
	_, err := client.Fetch(context.Background(), "mailto:loja@example.com")

	assert.ErrorIs(t, err, domain.ErrInvalidURL)
}

func TestFetch_LimitsBodySize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(strings.Repeat("a", 4096)))
	}))
	defer server.Close()

	client := newTestClient(Config{MaxBodyBytes: 1024})
	page, err := client.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Len(t, page.Body, 1024)
}

func TestFetch_ConvertsLatin1ToUTF8(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=ISO-8859-1")
		// "Cadeira Ergonômica" in Latin-1
		_, _ = w.Write([]byte("<title>Cadeira Ergon\xf4mica</title>"))
	}))
	defer server.Close()

	client := newTestClient(Config{})
	page, err := client.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "<title>Cadeira Ergonômica</title>", page.Body)
}

func TestLimiterFor_PerHost(t *testing.T) {
	client := newTestClient(Config{})

	a := client.limiterFor("kabum.com.br")
	b := client.limiterFor("kabum.com.br")
	c := client.limiterFor("pichau.com.br")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestLimiterFor_EvictsIdleHosts(t *testing.T) {
	client := newTestClient(Config{})
	client.maxLimiters = 2
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	client.limiterFor("kabum.com.br")
	now = now.Add(11 * time.Minute)
	pichau := client.limiterFor("pichau.com.br")
	now = now.Add(time.Minute)
	client.limiterFor("terabyte.com.br")

	assert.Len(t, client.limiters, 2)
	assert.NotContains(t, client.limiters, "kabum.com.br")
	assert.Same(t, pichau, client.limiterFor("pichau.com.br"))
}

func TestLimiterFor_CapsActiveHosts(t *testing.T) {
	client := newTestClient(Config{})
	client.maxLimiters = 3
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	for _, host := range []string{"a.com", "b.com", "c.com", "d.com", "e.com"} {
		client.limiterFor(host)
		now = now.Add(time.Second)
	}

	assert.Len(t, client.limiters, 3)
	assert.NotContains(t, client.limiters, "a.com")
	assert.NotContains(t, client.limiters, "b.com")
	assert.Contains(t, client.limiters, "e.com")
}

func TestIsHTMLContentType(t *testing.T) {
	assert.True(t, isHTMLContentType("text/html"))
	assert.True(t, isHTMLContentType("text/html; charset=utf-8"))
	assert.True(t, isHTMLContentType("application/xhtml+xml"))
	assert.True(t, isHTMLContentType(""))
	assert.False(t, isHTMLContentType("application/json"))
	assert.False(t, isHTMLContentType("image/png"))
}
