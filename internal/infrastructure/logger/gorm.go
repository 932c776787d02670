package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// QueryObserver receives every statement GORM traces. Statement is the
// leading SQL keyword in lower case, or "other".
type QueryObserver interface {
	ObserveQuery(statement string, elapsed time.Duration, err error)
}

// GormLogger adapts GORM's logger interface to zap. Lines carry the caller
// fields of the context they were logged under.
type GormLogger struct {
	logger        *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	logNotFound   bool
	observer      QueryObserver
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the slow statement threshold; zero disables slow statement warnings
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(l *GormLogger) {
		l.slowThreshold = threshold
	}
}

// WithNotFoundLogged reports gorm.ErrRecordNotFound as an error. It is quiet
// by default since repositories return absence as a plain result.
func WithNotFoundLogged() GormLoggerOption {
	return func(l *GormLogger) {
		l.logNotFound = true
	}
}

// WithQueryObserver hands every traced statement to o, whatever the level
func WithQueryObserver(o QueryObserver) GormLoggerOption {
	return func(l *GormLogger) {
		l.observer = o
	}
}

// NewGormLogger creates a GORM logger writing to the "gorm" child of zapLogger
func NewGormLogger(zapLogger *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	l := &GormLogger{
		logger:        zapLogger.Named("gorm"),
		level:         level,
		slowThreshold: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *GormLogger) printf(ctx context.Context, min gormlogger.LogLevel, lvl zapcore.Level, msg string, data []any) {
	if l.level < min {
		return
	}
	Enrich(ctx, l.logger).Sugar().Logf(lvl, msg, data...)
}

// Trace reports each statement to the observer, then logs failures at error,
// slow statements at warn and everything else at debug, as far as the level
// allows.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent && l.observer == nil {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	statement := statementKind(sql)
	if errors.Is(err, gormlogger.ErrRecordNotFound) && !l.logNotFound {
		err = nil
	}
	if l.observer != nil {
		l.observer.ObserveQuery(statement, elapsed, err)
	}
	if l.level <= gormlogger.Silent {
		return
	}

	fields := []zap.Field{
		zap.String("statement", statement),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	log := Enrich(ctx, l.logger)

	switch {
	case err != nil:
		if l.level >= gormlogger.Error {
			log.Error("SQL statement failed", append(fields, zap.Error(err))...)
		}
	case l.slowThreshold > 0 && elapsed > l.slowThreshold:
		if l.level >= gormlogger.Warn {
			log.Warn("Slow SQL statement", append(fields, zap.Duration("threshold", l.slowThreshold))...)
		}
	case l.level >= gormlogger.Info:
		log.Debug("SQL statement", fields...)
	}
}

// statementKind keeps metric labels bounded
func statementKind(sql string) string {
	sql = strings.TrimSpace(sql)
	if i := strings.IndexAny(sql, " \t\n("); i > 0 {
		sql = sql[:i]
	}
	switch kind := strings.ToLower(sql); kind {
	case "select", "insert", "update", "delete", "begin", "commit", "rollback", "savepoint", "release":
		return kind
	default:
		return "other"
	}
}

var gormLevels = map[string]gormlogger.LogLevel{
	"silent": gormlogger.Silent,
	"error":  gormlogger.Error,
	"warn":   gormlogger.Warn,
	"info":   gormlogger.Info,
	"debug":  gormlogger.Info,
}

// MapGormLogLevel maps log.sql_level to a GORM level; unknown values mean warn
func MapGormLogLevel(level string) gormlogger.LogLevel {
	if l, ok := gormLevels[strings.ToLower(strings.TrimSpace(level))]; ok {
		return l
	}
	return gormlogger.Warn
}
