//go:build linux

package platform

import (
	"github.com/godbus/dbus/v5"
)

// Notify posts a twibbon notification (photo or frame load failure, saved
// export, clipboard copy) to org.freedesktop.Notifications. The urgency hint
// keeps failures on screen until dismissed, and IconPath carries the export
// preview.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(opts.Urgency)),
	}
	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		AppName, uint32(0), opts.IconPath, title, body, []string{}, hints, timeoutMillis(opts.Urgency))
	return call.Err
}
