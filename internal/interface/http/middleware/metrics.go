package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookoutlet/pkg/metrics"
	"github.com/xiebiao/bookoutlet/pkg/tracing"
)

const tracerName = "bookoutlet/http"

// Metrics 记录HTTP请求数、耗时与并发数
// path使用路由模板,避免/books/1、/books/2产生不同的标签
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics.HTTPRequestsInProgress != nil {
			metrics.HTTPRequestsInProgress.Inc()
			defer metrics.HTTPRequestsInProgress.Dec()
		}
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.IncCounterVec(metrics.HTTPRequestsTotal, c.Request.Method, path, strconv.Itoa(c.Writer.Status()))
		if metrics.HTTPRequestDuration != nil {
			metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
		}
	}
}

// Tracing 每个请求一个根span,用例内的span挂在其下
func Tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracing.StartSpan(c.Request.Context(), tracerName, c.Request.Method+" "+c.FullPath())
		defer span.End()

		if traceID := tracing.ExtractTraceID(ctx); traceID != "" {
			c.Header("X-Trace-ID", traceID)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()

		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
			attribute.Int("http.status_code", c.Writer.Status()),
		)
	}
}
