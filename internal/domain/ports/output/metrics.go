package ports

import "time"

type MetricsProvider interface {
	IncrementHTTPRequests(method, route, status string)
	RecordHTTPRequestDuration(method, route, status string, duration time.Duration)

	IncrementGRPCRequests(method, status string)
	RecordGRPCRequestDuration(method, status string, duration time.Duration)

	IncrementDatabaseQueries(queryType string, success bool)
	RecordDatabaseQueryDuration(queryType string, duration time.Duration)

	IncrementCacheHits(cache string)
	IncrementCacheMisses(cache string)
	RecordCacheOperationDuration(operation string, duration time.Duration)

	IncrementAuthOperations(operation string, success bool)
	IncrementPostOperations(operation string, success bool)
	IncrementRateLimited(route string)
	SetExpiredSessionsPurged(count int64)

	SetServiceHealth(healthy bool)
}
