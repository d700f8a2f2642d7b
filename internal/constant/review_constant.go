package constant

const (
	// SessionCookieName carries the JWT-signed session id in the browser.
	SessionCookieName = "review_session"

	// SessionLocalsKey is where middleware parks the parsed session id.
	SessionLocalsKey = "session_id"

	// DefaultNotificationsTopic is the in-process bus topic for toast
	// lifecycle events.
	DefaultNotificationsTopic = "SESSION_NOTIFICATIONS"

	// DefaultSearchLimit matches the backend's /search default.
	DefaultSearchLimit = 10
)
