package eventlog

import (
	"context"
	"time"

	"github.com/importacademy/hotmart-bridge/internal/settings"
)

// Entry is one audit-log line.
type Entry struct {
	Time    time.Time
	Message string
	// Context carries extra correlation data (transaction ids, user
	// details) appended after the message.
	Context string
}

// Sink persists entries. The path comes from the settings store on
// every call so admins can repoint the log without a restart.
type Sink interface {
	Append(path string, e Entry) error
}

// Settings is the slice of the settings store the logger needs.
type Settings interface {
	Get(ctx context.Context, key, def string) string
}

// Alerter escalates critical entries to the administrator.
type Alerter interface {
	CriticalError(ctx context.Context, message string)
}

// Logger is the audit logger for webhook processing. Everything is
// gated on the hotmart_logging_enabled setting; raw request bodies are
// additionally gated on hotmart_log_raw_data. Critical entries also
// notify the admin email. A nil *Logger is valid and logs nothing.
type Logger struct {
	Settings    Settings
	Sink        Sink
	Alerter     Alerter
	DefaultPath string
}

func (l *Logger) enabled(ctx context.Context) bool {
	if l == nil || l.Settings == nil || l.Sink == nil {
		return false
	}
	return l.Settings.Get(ctx, settings.KeyLoggingEnabled, "no") == settings.Enabled
}

func (l *Logger) append(ctx context.Context, message, extra string) {
	path := l.Settings.Get(ctx, settings.KeyLogFilePath, l.DefaultPath)
	if path == "" {
		path = l.DefaultPath
	}
	_ = l.Sink.Append(path, Entry{Time: time.Now(), Message: message, Context: extra})
}

// Error records a non-critical anomaly.
func (l *Logger) Error(ctx context.Context, message, extra string) {
	if !l.enabled(ctx) {
		return
	}
	l.append(ctx, message, extra)
}

// Raw records an inbound request body. Skipped unless raw-data logging
// is switched on.
func (l *Logger) Raw(ctx context.Context, message string) {
	if !l.enabled(ctx) {
		return
	}
	if l.Settings.Get(ctx, settings.KeyLogRawData, "no") != settings.Enabled {
		return
	}
	l.append(ctx, message, "")
}

// Critical records the entry and escalates it to the administrator.
func (l *Logger) Critical(ctx context.Context, message, extra string) {
	if !l.enabled(ctx) {
		return
	}
	l.append(ctx, message, extra)
	if l.Alerter != nil {
		l.Alerter.CriticalError(ctx, message)
	}
}
