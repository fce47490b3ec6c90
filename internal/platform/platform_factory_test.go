package platform

import (
	"errors"
	"runtime"
	"testing"
)

func TestNewPlatform_UnsupportedOnNonWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("input hooks are available on windows")
	}

	_, err := NewPlatform()
	var unsupported *UnsupportedPlatformError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedPlatformError, got %v", err)
	}
	if unsupported.OS == "" {
		t.Error("UnsupportedPlatformError should name the OS")
	}
}

func TestUnsupportedPlatformError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *UnsupportedPlatformError
		want string
	}{
		{
			name: "with reason",
			err:  &UnsupportedPlatformError{OS: "linux", Reason: "global input hooks not available"},
			want: "input hooks unsupported on linux: global input hooks not available",
		},
		{
			name: "without reason",
			err:  &UnsupportedPlatformError{OS: "plan9"},
			want: "input hooks unsupported on plan9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
