package messaging

// SessionSubject returns the broker subject for a session's private outbound
// messages (delivered effect text, service notices).
func SessionSubject(sessionId string) string {
	return "session." + sessionId
}
