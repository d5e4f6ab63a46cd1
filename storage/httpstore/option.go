package httpstore

import "net/http"

// Option configures a Store.
type Option func(*Store)

// WithHTTPClient sets the HTTP client. Default has a 30s timeout. A nil client is ignored.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// WithAuthToken sets the Bearer token for the Authorization header.
func WithAuthToken(token string) Option {
	return func(s *Store) {
		s.authToken = token
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Store) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}
