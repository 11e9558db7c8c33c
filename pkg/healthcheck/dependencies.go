package healthcheck

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// DatabaseChecker verifies database connectivity
func DatabaseChecker(db *gorm.DB) Checker {
	return CheckerFunc(func(ctx context.Context) Check {
		check := Check{Status: StatusHealthy, Critical: true}

		sqlDB, err := db.DB()
		if err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
			return check
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
		}
		return check
	})
}

// RedisChecker verifies cache connectivity. The cache is non-critical:
// the service degrades to local-only rate limiting without it.
func RedisChecker(client *redis.Client) Checker {
	return CheckerFunc(func(ctx context.Context) Check {
		check := Check{Status: StatusHealthy}

		if err := client.Ping(ctx).Err(); err != nil {
			check.Status = StatusDegraded
			check.Message = err.Error()
		}
		return check
	})
}

// Pinger is the liveness surface of an external service client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ExternalServiceChecker verifies an external dependency within the
// given deadline. Planning survives recommender outages, so these
// checks are non-critical.
func ExternalServiceChecker(pinger Pinger, timeout time.Duration) Checker {
	return CheckerFunc(func(ctx context.Context) Check {
		check := Check{Status: StatusHealthy}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := pinger.Ping(ctx); err != nil {
			check.Status = StatusDegraded
			check.Message = err.Error()
		}
		return check
	})
}
