package utils

import (
	"errors"
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestIDKey is the gin context key and response header carrying the request id.
const RequestIDKey = "X-Request-ID"

// Ginzap logs one line per request after the handler chain finishes.
func Ginzap(logger *zap.Logger, timeFormat string, utc bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		path := ctx.Request.URL.Path
		query := ctx.Request.URL.RawQuery
		ctx.Next()

		end := time.Now()
		latency := end.Sub(start)
		if utc {
			end = end.UTC()
		}

		fields := []zap.Field{
			zap.Int("status", ctx.Writer.Status()),
			zap.String("method", ctx.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", ctx.ClientIP()),
			zap.String("user-agent", ctx.Request.UserAgent()),
			zap.Duration("latency", latency),
			zap.String("time", end.Format(timeFormat)),
		}
		if id := ctx.GetString(RequestIDKey); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}

		if len(ctx.Errors) > 0 {
			for _, e := range ctx.Errors.Errors() {
				logger.Error(e, fields...)
			}
			return
		}
		logger.Info(path, fields...)
	}
}

// RecoveryWithZap turns panics into a 500 envelope and logs them.
func RecoveryWithZap(logger *zap.Logger, stack bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				// A broken client connection is not worth a stack trace.
				var brokenPipe bool
				if ne, ok := err.(*net.OpError); ok {
					var se *os.SyscallError
					if errors.As(ne, &se) {
						msg := strings.ToLower(se.Error())
						brokenPipe = strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
					}
				}

				httpRequest, _ := httputil.DumpRequest(ctx.Request, false)
				fields := []zap.Field{
					zap.Any("error", err),
					zap.String("request", string(httpRequest)),
					zap.String("request_id", ctx.GetString(RequestIDKey)),
				}
				if brokenPipe {
					logger.Error(ctx.Request.URL.Path, fields...)
					ctx.Abort()
					return
				}
				if stack {
					fields = append(fields, zap.Stack("stack"))
				}
				logger.Error("[Recovery from panic]", fields...)
				Error(ctx, http.StatusInternalServerError, CodeInternal, "internal server error")
				ctx.Abort()
			}
		}()
		ctx.Next()
	}
}
