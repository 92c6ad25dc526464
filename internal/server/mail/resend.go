package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ResendDispatcher sends verification emails through the Resend HTTP API.
type ResendDispatcher struct {
	apiKey  string
	from    string
	client  *http.Client
	baseURL string
}

// NewResendDispatcher constructs a dispatcher with the given API key and
// sender address.
func NewResendDispatcher(apiKey, from string) (*ResendDispatcher, error) {
	if apiKey == "" {
		return nil, errors.New("resend api key is empty")
	}
	return &ResendDispatcher{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: "https://api.resend.com",
	}, nil
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendVerification posts a verification email containing verifyURL.
func (d *ResendDispatcher) SendVerification(ctx context.Context, toEmail, verifyURL string) error {
	body := sendRequest{
		From:    d.from,
		To:      []string{toEmail},
		Subject: "Verify your email",
		HTML: `
			<p>Welcome!</p>
			<p>Please verify your email by clicking the link below:</p>
			<p><a href="` + verifyURL + `">Verify Email</a></p>
		`,
	}

	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/emails", bytes.NewBuffer(b))
	if err != nil {
		return fmt.Errorf("building email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+d.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending verification email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("sending verification email: status %d: %s", resp.StatusCode, msg)
	}

	return nil
}
