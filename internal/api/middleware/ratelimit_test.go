package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"remote addr without proxy", "203.0.113.7:51234", "", "203.0.113.7"},
		{"remote addr without port", "203.0.113.7", "", "203.0.113.7"},
		{"single forwarded hop", "10.0.0.1:80", "203.0.113.7", "203.0.113.7"},
		// Один и тот же клиент через разные цепочки прокси — один лимитер
		{"forwarded hop list", "10.0.0.1:80", "203.0.113.7, 10.0.0.2, 10.0.0.3", "203.0.113.7"},
		{"forwarded list with spaces", "10.0.0.1:80", " 203.0.113.7 ,10.0.0.2", "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/lines/line-1/entries", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, clientIP(r))
		})
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(1, 2)

	// Burst 2: первые два запроса проходят, третий режется
	assert.True(t, rl.allow("203.0.113.7"))
	assert.True(t, rl.allow("203.0.113.7"))
	assert.False(t, rl.allow("203.0.113.7"))

	// Другой клиент лимитируется независимо
	assert.True(t, rl.allow("203.0.113.8"))
}
