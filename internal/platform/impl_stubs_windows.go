//go:build windows
// +build windows

package platform

// Windows builds carry only the low-level hook backend in impl_windows.go.

func newDarwinPlatform() (Platform, error) {
	return nil, &UnsupportedPlatformError{OS: "darwin", Reason: "binary built for windows"}
}

func newLinuxPlatform() (Platform, error) {
	return nil, &UnsupportedPlatformError{OS: "linux", Reason: "binary built for windows"}
}
