package logger

import (
	"go.uber.org/zap"
)

var sugar *zap.SugaredLogger

// Init configures the package logger. Call once at startup; the zero state
// falls back to a no-op logger so library tests do not have to Init.
func Init(environment string) {
	var l *zap.Logger
	var err error

	if environment == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		l = zap.NewNop()
	}

	sugar = l.Sugar()
}

func log() *zap.SugaredLogger {
	if sugar == nil {
		sugar = zap.NewNop().Sugar()
	}
	return sugar
}

func Info(msg string, args ...interface{}) {
	log().Infow(msg, normalize(args)...)
}

func Warn(msg string, args ...interface{}) {
	log().Warnw(msg, normalize(args)...)
}

func Error(msg string, args ...interface{}) {
	log().Errorw(msg, normalize(args)...)
}

func Fatal(msg string, args ...interface{}) {
	log().Fatalw(msg, normalize(args)...)
}

// normalize lets callers pass a bare error as the only argument,
// e.g. logger.Error("failed to trim", err).
func normalize(args []interface{}) []interface{} {
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			return []interface{}{"error", err}
		}
	}
	return args
}
