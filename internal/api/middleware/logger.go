package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"pv-plant-model/internal/metrics"
)

// Logger emits one structured log line per request and feeds the request
// latency histogram. The histogram is labeled with the route template, not
// the raw URL, so parameterized routes stay a single series.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(status)).
			Observe(elapsed.Seconds())

		evt := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			evt = log.Error()
		case status >= http.StatusBadRequest:
			evt = log.Warn()
		}
		evt.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("elapsed", elapsed).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}
