package kit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPRateLimiter_WindowSlides(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "keys are independent")

	now = now.Add(61 * time.Second)
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	handler := func(l *IPRateLimiter) http.Handler {
		return l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
	}

	do := func(h http.Handler, remote, xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = remote
		if xff != "" {
			req.Header.Set("X-Forwarded-For", xff)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("forwarded header ignored from untrusted peer", func(t *testing.T) {
		h := handler(NewIPRateLimiter(1, time.Minute))

		assert.Equal(t, http.StatusNoContent, do(h, "203.0.113.7:5000", "1.1.1.1"))
		assert.Equal(t, http.StatusTooManyRequests, do(h, "203.0.113.7:5001", "2.2.2.2"))
		assert.Equal(t, http.StatusNoContent, do(h, "203.0.113.8:5000", ""))
	})

	t.Run("forwarded header used behind trusted proxy", func(t *testing.T) {
		proxies, err := ParsePrefixes([]string{"10.0.0.0/8"})
		require.NoError(t, err)
		h := handler(NewIPRateLimiter(1, time.Minute).TrustProxies(proxies...))

		assert.Equal(t, http.StatusNoContent, do(h, "10.0.0.5:80", "1.1.1.1, 10.0.0.1"))
		assert.Equal(t, http.StatusTooManyRequests, do(h, "10.0.0.6:80", "1.1.1.1"))
		assert.Equal(t, http.StatusNoContent, do(h, "10.0.0.5:80", "2.2.2.2"))
	})
}

func TestParsePrefixes(t *testing.T) {
	got, err := ParsePrefixes([]string{"127.0.0.1", " 10.1.2.3/8 ", ""})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "127.0.0.1/32", got[0].String())
	assert.Equal(t, "10.0.0.0/8", got[1].String())

	_, err = ParsePrefixes([]string{"not-an-ip"})
	assert.Error(t, err)
}
