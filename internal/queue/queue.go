package queue

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"kobolend-backend/pkg/id"
)

const scheduleKey = "queue:scheduled"

// Task names.
const (
	TaskRequeryTransaction = "requery_transaction"
	TaskSendSMS            = "send_sms"
	TaskOverdueSweep       = "overdue_sweep"
)

// Task is one unit of delayed work. Payload is task-specific JSON.
// Handlers must be idempotent: delivery is at-least-once in principle,
// and a requery that already completed must be a no-op.
type Task struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// Scheduler is what use cases see: enqueue with delay, nothing else.
type Scheduler interface {
	Schedule(ctx context.Context, name string, payload any, delay time.Duration) error
}

// RedisQueue keeps due-times in a sorted set scored by ready-at epoch
// seconds. ZREM on pickup makes each member process at most once even
// with several workers polling.
type RedisQueue struct {
	rdb *redis.Client
}

func NewRedisQueue(rdb *redis.Client) *RedisQueue { return &RedisQueue{rdb: rdb} }

func (q *RedisQueue) Schedule(ctx context.Context, name string, payload any, delay time.Duration) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	t := Task{ID: id.NewID32(), Name: name, Payload: raw}
	member, err := json.Marshal(t)
	if err != nil {
		return err
	}
	readyAt := float64(time.Now().Add(delay).Unix())
	return q.rdb.ZAdd(ctx, scheduleKey, redis.Z{Score: readyAt, Member: member}).Err()
}

// Requeue puts an already-popped task back on the schedule. The member
// keeps its ID, so a retried task is the same task, delayed.
func (q *RedisQueue) Requeue(ctx context.Context, t Task, delay time.Duration) error {
	member, err := json.Marshal(t)
	if err != nil {
		return err
	}
	readyAt := float64(time.Now().Add(delay).Unix())
	return q.rdb.ZAdd(ctx, scheduleKey, redis.Z{Score: readyAt, Member: member}).Err()
}

// Due pops every task whose ready-at has passed. A task is returned only
// if this caller won the ZREM for it.
func (q *RedisQueue) Due(ctx context.Context, now time.Time) ([]Task, error) {
	members, err := q.rdb.ZRangeByScore(ctx, scheduleKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: formatScore(now),
	}).Result()
	if err != nil {
		return nil, err
	}
	var out []Task
	for _, m := range members {
		removed, err := q.rdb.ZRem(ctx, scheduleKey, m).Result()
		if err != nil {
			return out, err
		}
		if removed != 1 {
			continue // another worker took it
		}
		var t Task
		if err := json.Unmarshal([]byte(m), &t); err != nil {
			continue // drop malformed members rather than wedge the queue
		}
		out = append(out, t)
	}
	return out, nil
}

func formatScore(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}
