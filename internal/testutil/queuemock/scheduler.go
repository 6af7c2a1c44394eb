package queuemock

import (
	"context"
	"time"
)

// ScheduledCall records one Schedule invocation for assertions.
type ScheduledCall struct {
	Name    string
	Payload any
	Delay   time.Duration
}

// Scheduler is a recording mock for queue.Scheduler.
type Scheduler struct {
	ScheduleFn func(ctx context.Context, name string, payload any, delay time.Duration) error
	Calls      []ScheduledCall
}

func (m *Scheduler) Schedule(ctx context.Context, name string, payload any, delay time.Duration) error {
	m.Calls = append(m.Calls, ScheduledCall{Name: name, Payload: payload, Delay: delay})
	if m.ScheduleFn != nil {
		return m.ScheduleFn(ctx, name, payload, delay)
	}
	return nil
}

// SentSMS records one dispatcher Send for assertions.
type SentSMS struct {
	Message     string
	PhoneNumber string
	LoanOfferID string
}

// Dispatcher is a recording mock for notify.Dispatcher.
type Dispatcher struct {
	SendFn func(ctx context.Context, message, phoneNumber, loanOfferID string) error
	Sent   []SentSMS
}

func (m *Dispatcher) Send(ctx context.Context, message, phoneNumber, loanOfferID string) error {
	m.Sent = append(m.Sent, SentSMS{Message: message, PhoneNumber: phoneNumber, LoanOfferID: loanOfferID})
	if m.SendFn != nil {
		return m.SendFn(ctx, message, phoneNumber, loanOfferID)
	}
	return nil
}
