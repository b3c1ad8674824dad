// Package logger - zap logger construction.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger with ISO8601 timestamps under the "timestamp" key.
//
// Arguments:
//   - debug: Selects a console development logger at debug level. Otherwise a
//     JSON production logger at info level is built.
//
// Returns:
//   - *zap.Logger: The logger. Call Sync before exit.
//   - error: An error if the configuration cannot be built.
func New(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
