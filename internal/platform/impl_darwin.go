//go:build darwin
// +build darwin

package platform

// Capture requires a CGEventTap with accessibility permission; not wired up yet.
func newDarwinPlatform() (Platform, error) {
	return nil, &UnsupportedPlatformError{OS: "darwin", Reason: "event taps not available"}
}

func newWindowsPlatform() (Platform, error) {
	return nil, &UnsupportedPlatformError{OS: "windows", Reason: "binary built for darwin"}
}

func newLinuxPlatform() (Platform, error) {
	return nil, &UnsupportedPlatformError{OS: "linux", Reason: "binary built for darwin"}
}
