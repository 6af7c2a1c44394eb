package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// SMSSender delivers queued SMS payloads through the messaging
// provider's HTTP API.
type SMSSender struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func NewSMSSender(baseURL, apiKey string, timeout time.Duration) *SMSSender {
	return &SMSSender{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// HandleSendTask is the queue handler for queued SMS payloads. A sender
// with no configured base URL logs and drops, so environments without a
// provider still drain the queue.
func (s *SMSSender) HandleSendTask(ctx context.Context, payload []byte) error {
	var p SMSPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return err
	}
	if s.baseURL == "" {
		log.Printf("notify: sms provider not configured, dropping message for %s", p.PhoneNumber)
		return nil
	}
	return s.deliver(ctx, p)
}

func (s *SMSSender) deliver(ctx context.Context, p SMSPayload) error {
	body, err := json.Marshal(map[string]string{
		"to":      p.PhoneNumber,
		"message": p.Message,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("notify: send sms: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify: sms provider answered %d", resp.StatusCode)
	}
	return nil
}
