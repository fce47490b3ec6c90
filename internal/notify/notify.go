package notify

import (
	"strings"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"
)

const maxMessageLen = 100

// Notifier shows short user-facing messages
type Notifier interface {
	Notify(title, message string) error
}

// Desktop sends OS notifications
type Desktop struct {
	appName string
	logger  *zap.Logger
}

func NewDesktop(appName string, logger *zap.Logger) *Desktop {
	return &Desktop{appName: appName, logger: logger}
}

func (d *Desktop) Notify(title, message string) error {
	if d.appName != "" {
		title = d.appName + " · " + title
	}
	if err := beeep.Notify(title, truncate(message, maxMessageLen), ""); err != nil {
		d.logger.Debug("Desktop notification failed", zap.String("title", title), zap.Error(err))
		return err
	}
	return nil
}

// Nop discards notifications
type Nop struct{}

func (Nop) Notify(string, string) error { return nil }

func truncate(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
