//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
)

// Notify shows a twibbon notification through Notification Center, using
// AppName as the subtitle. Critical ones (failed loads and exports) play the
// alert sound. osascript cannot attach the export preview icon.
func Notify(title, body string, opts Options) error {
	script := fmt.Sprintf("display notification %q with title %q subtitle %q", body, title, AppName)
	if opts.Urgency == UrgencyCritical {
		script += ` sound name "Basso"`
	}
	cmd := exec.Command("osascript", "-e", script)
	return cmd.Run()
}
