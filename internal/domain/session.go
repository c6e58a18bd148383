package domain

// Session carries the per-request user context explicitly through services.
// Nothing below the handler layer reads ambient user state.
type Session struct {
	UserID   string
	Currency string
	Token    string
}
