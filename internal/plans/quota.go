package plans

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrQuotaExceeded = errors.New("daily generation quota exceeded")

// Quota counts generations per user per UTC day in Redis. Without a Redis
// connection quota enforcement is disabled and every call is allowed.
type Quota struct {
	rdb *redis.Client
	cfg Config
}

// NewQuota connects to REDIS_URL when set. A missing REDIS_URL is not an error;
// it just disables enforcement (single-node dev setups run without Redis).
func NewQuota(cfg Config) *Quota {
	q := &Quota{cfg: cfg}

	url := os.Getenv("REDIS_URL")
	if url == "" {
		log.Println("[plans] REDIS_URL not set, quota enforcement disabled")
		return q
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[plans] invalid REDIS_URL, quota enforcement disabled: %v", err)
		return q
	}

	q.rdb = redis.NewClient(opts)
	return q
}

// Consume records one generation for the user and returns ErrQuotaExceeded when
// the plan's daily cap is already spent. Redis outages fail open: a broken
// counter should never block paying users from generating.
func (q *Quota) Consume(ctx context.Context, userID, plan string) error {
	if q.rdb == nil {
		return nil
	}

	limit := q.cfg.PlanLimit(plan)
	if limit <= 0 {
		return nil
	}

	now := time.Now().UTC()
	key := fmt.Sprintf("quota:%s:%s", userID, now.Format("2006-01-02"))

	n, err := q.rdb.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("[plans] quota incr failed, allowing request: %v", err)
		return nil
	}
	if n == 1 {
		midnight := now.Truncate(24 * time.Hour).Add(24 * time.Hour)
		if err := q.rdb.ExpireAt(ctx, key, midnight).Err(); err != nil {
			log.Printf("[plans] quota expire failed: %v", err)
		}
	}

	if n > int64(limit) {
		return ErrQuotaExceeded
	}
	return nil
}

// Remaining reports how many generations the user has left today. unlimited is
// true when no cap applies (unlimited plan, or enforcement disabled).
func (q *Quota) Remaining(ctx context.Context, userID, plan string) (remaining int, unlimited bool, err error) {
	limit := q.cfg.PlanLimit(plan)
	if q.rdb == nil || limit <= 0 {
		return 0, true, nil
	}

	key := fmt.Sprintf("quota:%s:%s", userID, time.Now().UTC().Format("2006-01-02"))
	used, err := q.rdb.Get(ctx, key).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, false, err
	}

	left := limit - int(used)
	if left < 0 {
		left = 0
	}
	return left, false, nil
}
