//go:build !windows && !darwin && !linux
// +build !windows,!darwin,!linux

package platform

// Neither capture nor injection has a backend on this OS.

func newWindowsPlatform() (Platform, error) {
	return nil, &UnsupportedPlatformError{OS: "windows", Reason: "input backend not compiled in"}
}

func newDarwinPlatform() (Platform, error) {
	return nil, &UnsupportedPlatformError{OS: "darwin", Reason: "input backend not compiled in"}
}

func newLinuxPlatform() (Platform, error) {
	return nil, &UnsupportedPlatformError{OS: "linux", Reason: "input backend not compiled in"}
}
