package transport

import (
	"net/http"
	"sync"

	"github.com/cineai/cineai-go/internal/metrics"
)

// Authorizer is an http.RoundTripper that stamps the current bearer token on
// every outbound request and watches every inbound response for the
// authorization failure signal.
//
// The token lives in an explicit field read at dispatch time rather than in
// a shared client's default headers, so swapping it affects the next request
// only: requests already dispatched keep the credential they were sent with.
type Authorizer struct {
	base http.RoundTripper

	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

// NewAuthorizer wraps base. A nil base falls back to http.DefaultTransport.
func NewAuthorizer(base http.RoundTripper) *Authorizer {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Authorizer{base: base}
}

// SetToken swaps the bearer credential attached to subsequent requests.
func (a *Authorizer) SetToken(token string) {
	a.mu.Lock()
	a.token = token
	a.mu.Unlock()
}

// ClearToken makes subsequent requests go out unauthenticated.
func (a *Authorizer) ClearToken() {
	a.SetToken("")
}

// Token returns the credential currently attached to outbound requests.
func (a *Authorizer) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

// OnUnauthorized registers fn to run once per response with an unauthorized
// status. There is a single callback slot: registering again replaces the
// previous function, so repeated registration never causes duplicate
// invocations per response.
func (a *Authorizer) OnUnauthorized(fn func()) {
	a.mu.Lock()
	a.onUnauthorized = fn
	a.mu.Unlock()
}

// ClearOnUnauthorized removes the registered callback. Idempotent.
func (a *Authorizer) ClearOnUnauthorized() {
	a.OnUnauthorized(nil)
}

// RoundTrip implements http.RoundTripper. Requests are cloned before the
// Authorization header is set, per the contract of RoundTrip not mutating
// its argument. The unauthorized callback fires before the response is
// returned, and the response is always propagated to the caller unchanged.
func (a *Authorizer) RoundTrip(req *http.Request) (*http.Response, error) {
	a.mu.RLock()
	token := a.token
	a.mu.RUnlock()

	if token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		metrics.UnauthorizedTotal.Inc()

		a.mu.RLock()
		fn := a.onUnauthorized
		a.mu.RUnlock()
		if fn != nil {
			fn()
		}
	}

	return resp, nil
}
