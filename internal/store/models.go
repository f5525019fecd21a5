package store

// Preference keys. Stored as text; booleans are "1"/"0".
const (
	prefNotificationsEnabled = "notifications_enabled"
	prefSessionToken         = "session_token"
	prefAgentToken           = "agent_token"
	prefUserName             = "user_name"
	prefSound                = "sound"
)

func boolToStr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
