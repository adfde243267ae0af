package platform

// Urgency mirrors the freedesktop notification urgency levels.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// AppName is the application name reported to the notification service.
const AppName = "Twibbon"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Urgency is honoured where the platform supports it. The zero value is
	// low; callers wanting the platform default use UrgencyNormal.
	Urgency Urgency
}

// timeoutMillis is how long a notification stays visible. Critical
// notifications stay until dismissed.
func timeoutMillis(u Urgency) int32 {
	if u == UrgencyCritical {
		return 0
	}
	return 5000
}
