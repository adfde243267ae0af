//go:build !linux && !darwin && !windows

package platform

// Notify drops load, export and copy notifications on platforms without a
// notification service. The editor status line still reports them.
func Notify(_, _ string, _ Options) error { return nil }
