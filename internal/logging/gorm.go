package logging

import (
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

type gormWriter struct {
	sugar *zap.SugaredLogger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.sugar.Infof(format, args...)
}

// NewGormLogger returns a gorm logger that writes through zap. Verbose
// SQL tracing is only enabled in debug mode.
func NewGormLogger(logger *zap.Logger, debug bool) gormlogger.Interface {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}

	return gormlogger.New(gormWriter{sugar: logger.Named("gorm").Sugar()}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
