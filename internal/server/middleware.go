package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/uuid"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-Id"

// RequestIDMiddleware echoes the caller's X-Request-Id, or a fresh UUIDv7 when absent,
// and logs every operation with its latency.
func RequestIDMiddleware(logger log.Logger) middleware.Middleware {
	l := log.NewHelper(logger)
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			tr, ok := transport.FromServerContext(ctx)
			if !ok {
				return handler(ctx, req)
			}

			requestID := tr.RequestHeader().Get(HeaderRequestID)
			if requestID == "" {
				if id, err := uuid.NewV7(); err == nil {
					requestID = id.String()
				}
			}
			tr.ReplyHeader().Set(HeaderRequestID, requestID)

			start := time.Now()
			reply, err := handler(ctx, req)
			if err != nil {
				l.Warnf("request_id=%s operation=%s latency=%s code=%d reason=%s",
					requestID, tr.Operation(), time.Since(start), errors.Code(err), errors.Reason(err))
			} else {
				l.Infof("request_id=%s operation=%s latency=%s", requestID, tr.Operation(), time.Since(start))
			}
			return reply, err
		}
	}
}

// CORSFilter allows browser front ends on other origins to call the read-only API.
func CORSFilter() khttp.FilterFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+HeaderRequestID)
			w.Header().Set("Access-Control-Expose-Headers", HeaderRequestID)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
