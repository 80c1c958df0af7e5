package logger

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const ctxLoggerKey = "logger"

var log = zap.NewNop()

// Init builds the process logger. Production gets JSON output, everything
// else the human friendly console encoder.
func Init(level, environment string) (*zap.Logger, error) {
	lvl := parseLevel(level)

	var (
		l   *zap.Logger
		err error
	)
	if environment == "production" {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(lvl)
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		l, err = cfg.Build(zap.Fields(zap.String("environment", environment)))
	} else {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(lvl)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		l, err = cfg.Build(zap.Fields(zap.String("environment", environment)))
	}
	if err != nil {
		return nil, err
	}

	Set(l)
	return l, nil
}

// Set replaces the process logger. Tests use it to install zaptest/observer loggers.
func Set(l *zap.Logger) {
	log = l
	zap.ReplaceGlobals(l)
}

func Get() *zap.Logger {
	return log
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// FromCtx returns the request scoped logger, or the process logger when the
// middleware has not run.
func FromCtx(c *fiber.Ctx) *zap.Logger {
	if l, ok := c.Locals(ctxLoggerKey).(*zap.Logger); ok {
		return l
	}
	return log
}

// Middleware attaches a logger tagged with the request id and writes one
// access log line per request.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID, _ := c.Locals(RequestIDKey).(string)
		reqLog := log.With(zap.String("request_id", requestID))
		c.Locals(ctxLoggerKey, reqLog)

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		reqLog.Info("http request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.Bool("htmx", c.Get("HX-Request") == "true"),
		)
		return err
	}
}
