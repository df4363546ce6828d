package middleware

import (
	"context"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/divider/internal/metrics"
)

// MetricsInterceptor returns a Connect interceptor that counts RPC calls by
// procedure and result code and observes their latency.
func MetricsInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			procedure := req.Spec().Procedure
			timer := prometheus.NewTimer(metrics.RPCLatency.WithLabelValues(procedure))
			defer timer.ObserveDuration()

			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			metrics.RPCRequests.WithLabelValues(procedure, code).Inc()
			return resp, err
		}
	}
}
