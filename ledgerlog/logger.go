// Package ledgerlog wraps a sugared zap logger so the rest of the
// apply engine can log without threading a logger handle through every
// call.
package ledgerlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var rootLogger *zap.SugaredLogger

func init() {
	config := zap.NewProductionConfig()
	// Stacktraces at DPanic keep Error-level output readable during
	// invariant-violation debugging.
	stacktraceOption := zap.AddStacktrace(zapcore.DPanicLevel)
	callerOption := zap.AddCallerSkip(1)
	logger, err := config.Build(stacktraceOption, callerOption)
	if err != nil {
		panic(err)
	}
	rootLogger = logger.Sugar()
}

// Debugw logs msg at debug level with structured key-value fields
// rather than formatting them into the message string. txop calls it
// to record the result codes of selected apply decisions.
func Debugw(msg string, keysAndValues ...interface{}) {
	rootLogger.Debugw(msg, keysAndValues...)
}
