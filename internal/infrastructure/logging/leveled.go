package logging

import "go.uber.org/zap"

// LeveledLogger logs key/value pairs through a sugared zap logger.
type LeveledLogger struct {
	sugar *zap.SugaredLogger
}

// Leveled returns l as a key/value leveled logger.
func (l *Logger) Leveled() *LeveledLogger {
	return &LeveledLogger{sugar: l.Logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (l *LeveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

func (l *LeveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *LeveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *LeveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}
