package domain

// Result is the uniform outcome of every mutating session operation. UI
// callers inspect it instead of handling errors; nothing is ever thrown past
// the session manager boundary.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// OK returns a successful Result.
func OK() Result {
	return Result{Success: true}
}

// Fail returns a failed Result carrying a human-readable message.
func Fail(msg string) Result {
	return Result{Success: false, Error: msg}
}

// APIError is a server-reported business rejection: the endpoint answered
// with an error envelope rather than failing at the transport level.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "request rejected by server"
}

// Unauthorized reports whether the rejection carries the authorization
// failure signal (credentials missing, invalid or expired).
func (e *APIError) Unauthorized() bool {
	return e.Status == 401
}
