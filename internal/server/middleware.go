package server

import (
	"context"
	"net/http"
	"pwmeter/internal/common"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type HttpContextKey string

const (
	HttpContextRequestId HttpContextKey = "http-request-id"
	HttpContextLogger    HttpContextKey = "http-logger"
)

type HttpRequestLogger func(common.LogLevel, string)

// GetRequestLoggerMiddleware tags every request with an id, taken from
// the X-Trace-Id header when present, and logs its completion
func GetRequestLoggerMiddleware(serviceLogs chan<- common.ServiceLog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			var requestId string
			if r.Header.Get("X-Trace-Id") != "" {
				requestId = r.Header.Get("X-Trace-Id")
			} else {
				requestId = uuid.New().String()
			}
			w.Header().Set("X-Trace-Id", requestId)
			requestContext := context.WithValue(r.Context(), HttpContextRequestId, requestId)
			requestContext = context.WithValue(requestContext, HttpContextLogger, HttpRequestLogger(func(level common.LogLevel, message string) {
				serviceLogs <- common.ServiceLogf(level, "req[%s] %s", requestId, message)
			}))
			serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "req[%s] received %s at %s", requestId, r.Method, r.URL.Path)
			next.ServeHTTP(w, r.WithContext(requestContext))
			serviceLogs <- common.ServiceLogf(common.LogLevelInfo, "req[%s] [%s %s %s %s] from remote[%s] completed in %v", requestId, r.Proto, r.Host, r.Method, r.URL.Path, r.RemoteAddr, time.Since(start))
		})
	}
}

// getMetricsMiddleware counts requests against their route template so
// that path parameters do not explode the label cardinality; it must be
// installed with Router.Use
func getMetricsMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if pathTemplate, err := route.GetPathTemplate(); err == nil {
					path = pathTemplate
				}
			}
			common.IncHttpRequests(r.Method, path)
			next.ServeHTTP(w, r)
		})
	}
}
