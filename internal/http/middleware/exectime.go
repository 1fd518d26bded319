// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides ExecutionTime, a decorator applied to endpoint handlers
// when routes are registered (not a global middleware). It measures how long
// the handler itself ran, excluding the rest of the middleware chain.
package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"

	"github.com/tbourn/go-handle-exception/internal/observability"
)

// ExecutionTime wraps next so each invocation is timed, logged as
// "<signature> executed in <n> ms", observed in handler_execution_seconds and
// traced as a span named signature.
//
// The wrapper never alters the outcome: the response and any errors attached
// by next are left untouched. Failures reported through c.Error are logged
// with failed=true. If next panics the span is marked as an error and ended
// but no log line is written; the panic propagates unchanged.
func ExecutionTime(signature string, next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := observability.Tracer().Start(c.Request.Context(), signature)
		defer span.End()
		defer func() {
			if rec := recover(); rec != nil {
				span.SetStatus(codes.Error, fmt.Sprint(rec))
				panic(rec)
			}
		}()
		c.Request = c.Request.WithContext(ctx)

		errsBefore := len(c.Errors)
		start := time.Now()

		next(c)

		elapsed := time.Since(start)
		failed := len(c.Errors) > errsBefore
		if failed {
			err := c.Errors.Last().Err
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		handlerExec.WithLabelValues(signature).Observe(elapsed.Seconds())
		LoggerFrom(c).Info().
			Str("handler", signature).
			Int64("elapsed_ms", elapsed.Milliseconds()).
			Bool("failed", failed).
			Msgf("%s executed in %d ms", signature, elapsed.Milliseconds())
	}
}
