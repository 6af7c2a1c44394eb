package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	domain "kobolend-backend/internal/domain/loan"
	paymentuc "kobolend-backend/internal/usecase/payment"
)

// Notification goes through the same payment usecase the money endpoints
// use; the fixture keeps the offer and ledger mutable so the webhook's
// effect is observable.
func TestNotification_AppliesPayment(t *testing.T) {
	f := newAPIFixture(t, domain.StatusOpen)
	h := NewPaymentHandler(f.payments)

	c, rec := f.post("/payments/notification",
		`{"loan_offer_id":"`+testOfferID+`","payment_reference":"PSW-001","amount":110000}`)

	if err := h.Notification(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var ack paymentuc.Ack
	if err := json.Unmarshal(rec.Body.Bytes(), &ack); err != nil {
		t.Fatal(err)
	}
	if ack.TransactionID == "" || ack.Loan == nil {
		t.Fatalf("expected applied ack, got %+v", ack)
	}
	if f.lo.Status != domain.StatusClosed {
		t.Fatalf("full payment must close the offer, got %s", f.lo.Status)
	}
}

func TestNotification_ReplayAnswers200(t *testing.T) {
	f := newAPIFixture(t, domain.StatusOpen)
	f.transactions.ExistsByReferenceFn = func(ctx context.Context, reference string) (bool, error) {
		return reference == "PSW-001", nil
	}
	h := NewPaymentHandler(f.payments)

	c, rec := f.post("/payments/notification",
		`{"loan_offer_id":"`+testOfferID+`","payment_reference":"PSW-001","amount":110000}`)

	if err := h.Notification(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("replay must still be acknowledged, got %d", rec.Code)
	}
	if f.lo.Status != domain.StatusOpen {
		t.Fatalf("replay must not re-apply funds, got %s", f.lo.Status)
	}
}

func TestNotification_ValidatesBody(t *testing.T) {
	f := newAPIFixture(t, domain.StatusOpen)
	h := NewPaymentHandler(f.payments)

	c, rec := f.post("/payments/notification",
		`{"loan_offer_id":"NOT-HEX","payment_reference":"","amount":0}`)

	if err := h.Notification(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}
