package grpc_server_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpc_server "landing/internal/infrastructure/inbound/grpc"
	"landing/internal/infrastructure/logger"
	"landing/internal/infrastructure/outbound/metrics/prometheus"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthChecker_Check(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		checks     map[string]grpc_server.Pinger
		wantHealth bool
		wantStatus healthpb.HealthCheckResponse_ServingStatus
	}{
		{
			name:       "All dependencies up",
			checks:     map[string]grpc_server.Pinger{"postgres": ok, "redis": ok},
			wantHealth: true,
			wantStatus: healthpb.HealthCheckResponse_SERVING,
		},
		{
			name:       "Redis down",
			checks:     map[string]grpc_server.Pinger{"postgres": ok, "redis": down},
			wantHealth: false,
			wantStatus: healthpb.HealthCheckResponse_NOT_SERVING,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs := health.NewServer()
			checker := grpc_server.NewHealthChecker(hs, tt.checks, logger.New("test"), prometheus.NewPrometheusMetricsProvider())

			assert.Equal(t, tt.wantHealth, checker.Check(context.Background()))

			resp, err := hs.Check(context.Background(), &healthpb.HealthCheckRequest{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.GetStatus())

			want := 0.0
			if tt.wantHealth {
				want = 1.0
			}
			assert.Equal(t, want, testutil.ToFloat64(prometheus.ServiceHealth))
		})
	}
}
