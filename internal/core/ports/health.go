package ports

import "context"

// HealthChecker reports whether one backing service can take webhook traffic.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}
