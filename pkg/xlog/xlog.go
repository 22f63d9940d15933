// Package xlog wraps a package-level zap.Logger the way the teacher's
// call sites (util.Error(msg, zap.Field...), chunk.Chunk.Print2) expect a
// logging helper to behave, grounded on the teacher's go.uber.org/zap
// usage in pkg/chunk and pkg/compute even though the helper itself (the
// file backing util.Error/util.Info) was not present in the retrieved
// pack.
package xlog

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once sync.Once
	l    *zap.Logger
)

func logger() *zap.Logger {
	once.Do(func() {
		lg, err := zap.NewProduction()
		if err != nil {
			lg = zap.NewNop()
		}
		l = lg
	})
	return l
}

// SetLogger overrides the package logger, e.g. with zap.NewDevelopment()
// in tests.
func SetLogger(lg *zap.Logger) {
	once.Do(func() {})
	l = lg
}

func Error(msg string, fields ...zap.Field) { logger().Error(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { logger().Info(msg, fields...) }
func Debug(msg string, fields ...zap.Field) { logger().Debug(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { logger().Warn(msg, fields...) }
