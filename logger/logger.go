package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a JSON zap logger.
// Debug mode keeps JSON output but lowers the level to debug.
func New(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// scrape output goes to stdout in some commands, keep logs off it
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// Run returns a child logger tagged with a batch run id so interleaved
// output from concurrent workers can be grouped.
func Run(l *zap.Logger, runID, command string) *zap.Logger {
	return l.With(zap.String("run_id", runID), zap.String("command", command))
}
