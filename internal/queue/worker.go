package queue

import (
	"context"
	"log"
	"time"
)

// Handler processes one task payload. Must be safe to run again for the
// same payload.
type Handler func(ctx context.Context, payload []byte) error

// retryDelay spaces out attempts for a task whose handler returned an
// error. The task itself goes back on the schedule rather than being
// dropped.
const retryDelay = time.Minute

// Worker polls the schedule and dispatches due tasks to registered
// handlers, one at a time.
type Worker struct {
	queue    *RedisQueue
	handlers map[string]Handler
	interval time.Duration
}

func NewWorker(q *RedisQueue, interval time.Duration) *Worker {
	return &Worker{queue: q, handlers: map[string]Handler{}, interval: interval}
}

func (w *Worker) Register(name string, h Handler) { w.handlers[name] = h }

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

func (w *Worker) drain(ctx context.Context) {
	tasks, err := w.queue.Due(ctx, time.Now())
	if err != nil {
		log.Printf("queue: poll: %v", err)
		return
	}
	for _, t := range tasks {
		h, ok := w.handlers[t.Name]
		if !ok {
			log.Printf("queue: no handler for %q, dropping task %s", t.Name, t.ID)
			continue
		}
		if err := h(ctx, t.Payload); err != nil {
			log.Printf("queue: task %s (%s): %v", t.ID, t.Name, err)
			if rerr := w.queue.Requeue(ctx, t, retryDelay); rerr != nil {
				log.Printf("queue: requeue %s: %v", t.ID, rerr)
			}
		}
	}
}
