//go:build linux
// +build linux

package platform

// Global hooks need either an X11 record extension client or uinput access,
// neither of which is wired up yet.
func newLinuxPlatform() (Platform, error) {
	return nil, &UnsupportedPlatformError{OS: "linux", Reason: "global input hooks not available"}
}

func newWindowsPlatform() (Platform, error) {
	return nil, &UnsupportedPlatformError{OS: "windows", Reason: "binary built for linux"}
}

func newDarwinPlatform() (Platform, error) {
	return nil, &UnsupportedPlatformError{OS: "darwin", Reason: "binary built for linux"}
}
