package notify

import (
	"context"
	"time"

	"kobolend-backend/internal/queue"
)

// Dispatcher decides-and-enqueues; delivery is someone else's problem.
type Dispatcher interface {
	Send(ctx context.Context, message, phoneNumber, loanOfferID string) error
}

// SMSPayload is the queued message body handed to the SMS transport.
type SMSPayload struct {
	Message     string `json:"message"`
	PhoneNumber string `json:"phone_number"`
	LoanOfferID string `json:"loan_offer_id"`
}

// QueueDispatcher enqueues sends on the delayed task queue, fire and
// forget. Transport retries live at the transport layer, not here.
type QueueDispatcher struct {
	scheduler queue.Scheduler
}

func NewQueueDispatcher(s queue.Scheduler) *QueueDispatcher { return &QueueDispatcher{scheduler: s} }

func (d *QueueDispatcher) Send(ctx context.Context, message, phoneNumber, loanOfferID string) error {
	return d.scheduler.Schedule(ctx, queue.TaskSendSMS, SMSPayload{
		Message:     message,
		PhoneNumber: phoneNumber,
		LoanOfferID: loanOfferID,
	}, 0*time.Second)
}
