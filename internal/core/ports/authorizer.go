package ports

// RequestAuthorizer centralises the credential-attachment and
// failure-detection policy for every outbound request. The session manager
// is its sole configurer: it swaps the current token as the session
// transitions and owns the unauthorized callback registration.
type RequestAuthorizer interface {
	// SetToken makes token the bearer credential for requests dispatched
	// from now on. In-flight requests keep whatever credential they were
	// sent with.
	SetToken(token string)
	// ClearToken makes subsequent requests go out unauthenticated.
	ClearToken()
	// OnUnauthorized registers fn to be invoked once per response carrying
	// the authorization failure signal. Re-registering replaces the previous
	// callback; it never duplicates invocations.
	OnUnauthorized(fn func())
	// ClearOnUnauthorized removes the registered callback. Safe to call when
	// none is registered.
	ClearOnUnauthorized()
}
