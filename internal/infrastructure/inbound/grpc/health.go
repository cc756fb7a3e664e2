package grpc_server

import (
	"context"
	"log/slog"
	"time"

	ports "landing/internal/domain/ports/output"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Pinger is satisfied by the database pool and the Redis client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker probes dependencies and publishes the result to the gRPC
// health service and the service_health gauge.
type HealthChecker struct {
	health  *health.Server
	checks  map[string]Pinger
	timeout time.Duration
	log     ports.Logger
	metrics ports.MetricsProvider
}

func NewHealthChecker(hs *health.Server, checks map[string]Pinger, log ports.Logger, metrics ports.MetricsProvider) *HealthChecker {
	return &HealthChecker{
		health:  hs,
		checks:  checks,
		timeout: 2 * time.Second,
		log:     log,
		metrics: metrics,
	}
}

// Check runs every probe once and reports whether all of them passed.
func (h *HealthChecker) Check(ctx context.Context) bool {
	healthy := true
	for name, p := range h.checks {
		probeCtx, cancel := context.WithTimeout(ctx, h.timeout)
		err := p.Ping(probeCtx)
		cancel()
		if err != nil {
			healthy = false
			h.log.Warn("Health probe failed", slog.String("dependency", name), slog.String("error", err.Error()))
		}
	}

	status := healthpb.HealthCheckResponse_SERVING
	if !healthy {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.health.SetServingStatus("", status)
	h.metrics.SetServiceHealth(healthy)
	return healthy
}

func (h *HealthChecker) Run(ctx context.Context, interval time.Duration) {
	h.Check(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}
