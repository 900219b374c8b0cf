package localcp

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the localcp package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the localcp package's logger.
// This must be called before any streams are constructed.
func SetLogger(l *zap.Logger) {
	logger = l
}

func zapID(id ID) zap.Field {
	return zap.Uint32("codepage", uint32(id))
}
