package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sendwell/sendwell/internal/config"
	"github.com/sendwell/sendwell/internal/types"
)

// Logger wraps zap.SugaredLogger to provide logging functionality
type Logger struct {
	*zap.SugaredLogger
}

// Global logger for convenience
var L *Logger

// NewLogger creates and returns a new Logger instance
func NewLogger(cfg *config.Configuration) (*Logger, error) {
	zapConfig := zap.NewProductionConfig()

	if cfg.Logging.Level == types.LogLevelDebug {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Disable stack traces for warnings to reduce log noise
	zapConfig.DisableStacktrace = true

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

// Initialize default logger and set it as global while also using Dependency
// Injection. The global is for scripts and early-startup paths; everywhere
// else the injected instance should be used.
func init() {
	L, _ = NewLogger(config.GetDefaultConfig())
}

func GetLogger() *Logger {
	if L == nil {
		L, _ = NewLogger(config.GetDefaultConfig())
	}
	return L
}

// WithContext returns a logger annotated with the request-scoped fields
// carried in the context. Empty fields are skipped.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	fields := make([]interface{}, 0, 4)
	if requestID := types.GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if accountID := types.GetAccountID(ctx); accountID != "" {
		fields = append(fields, "account_id", accountID)
	}
	return &Logger{SugaredLogger: l.SugaredLogger.With(fields...)}
}

// GetRetryableHTTPLogger returns a retryable HTTP client-compatible logger
func (l *Logger) GetRetryableHTTPLogger() *retryableHTTPLogger {
	return &retryableHTTPLogger{logger: l}
}

// retryableHTTPLogger adapts our Logger to go-retryablehttp's logging interface
type retryableHTTPLogger struct {
	logger *Logger
}

// Printf implements the Logger interface for go-retryablehttp
func (r *retryableHTTPLogger) Printf(format string, v ...interface{}) {
	r.logger.Infof(format, v...)
}

// ginLogger adapts our Logger to gin's logging interface
type ginLogger struct {
	logger *Logger
}

// GetGinLogger returns a gin-compatible logger
func (l *Logger) GetGinLogger() *ginLogger {
	return &ginLogger{logger: l}
}

// Write implements the io.Writer interface for gin
func (g *ginLogger) Write(p []byte) (n int, err error) {
	g.logger.Info(string(p))
	return len(p), nil
}
