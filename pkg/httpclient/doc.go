// Package httpclient provides the HTTP client factory backing the default
// data source transport.
//
// The package creates clients with secure, consistent defaults:
//   - Request logging with sanitized URLs (sensitive parameters redacted)
//   - User-Agent header injection
//   - X-Request-ID injection for correlating fetches in backend logs
//   - TLS 1.2 minimum (TLS 1.3 preferred)
//   - Connection pooling for performance
//
// There is deliberately no retry layer: the sanitization pipeline performs
// exactly one fetch per requested resource, and a failed fetch surfaces to
// the embedding application unchanged.
//
// # Usage
//
//	client, err := httpclient.New(httpclient.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	resp, err := client.Get("https://en.wikipedia.org/w/api.php")
//
// # Observability
//
// All requests emit structured logs via log/slog:
//   - Debug level: successful requests (2xx status)
//   - Warn level: failed requests (4xx/5xx status, errors)
//   - Fields: method, url (sanitized), status, duration_ms, error
package httpclient
