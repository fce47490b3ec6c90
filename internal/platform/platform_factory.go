package platform

import (
	"runtime"
)

// NewPlatform returns the input backend (capture hooks, injection and global
// hotkeys) for the OS the binary was built for
func NewPlatform() (Platform, error) {
	switch runtime.GOOS {
	case "windows":
		return newWindowsPlatform()
	case "darwin":
		return newDarwinPlatform()
	case "linux":
		return newLinuxPlatform()
	default:
		return nil, &UnsupportedPlatformError{OS: runtime.GOOS, Reason: "no input backend"}
	}
}

// UnsupportedPlatformError is returned when global input hooks cannot be
// installed on the current OS. Macros can still be listed, edited and
// inspected without a platform.
type UnsupportedPlatformError struct {
	OS     string
	Reason string
}

func (e *UnsupportedPlatformError) Error() string {
	if e.Reason == "" {
		return "input hooks unsupported on " + e.OS
	}
	return "input hooks unsupported on " + e.OS + ": " + e.Reason
}
