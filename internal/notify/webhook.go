// Package notify posts signup events to an external automation webhook.
// Delivery is best effort: a failed call is logged and never surfaces to the
// caller, signups must not depend on a third-party endpoint being up.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Glivan2903/minhagrana/internal/log"
)

const defaultTimeout = 10 * time.Second

type welcomePayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// WelcomeNotifier fires the post-signup webhook.
type WelcomeNotifier struct {
	url    string
	client *http.Client
	logger *log.Logger
}

// NewWelcomeNotifier builds a notifier for the given webhook URL. An empty
// URL disables delivery.
func NewWelcomeNotifier(url string, logger *log.Logger) *WelcomeNotifier {
	return &WelcomeNotifier{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
		logger: logger.WithComponent(log.ComponentNotify),
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *WelcomeNotifier) Enabled() bool {
	return n.url != ""
}

// Welcome posts the new account's contact details. Errors are swallowed
// after logging.
func (n *WelcomeNotifier) Welcome(ctx context.Context, name, email, phone string) {
	if !n.Enabled() {
		return
	}
	if err := n.post(ctx, welcomePayload{Name: name, Email: email, Phone: phone}); err != nil {
		n.logger.WarnContext(ctx, "welcome webhook failed",
			log.FieldOperation, log.OpNotify,
			log.FieldWebhookURL, n.url,
			log.FieldError, err.Error())
		return
	}
	n.logger.InfoContext(ctx, "welcome webhook delivered", log.FieldOperation, log.OpNotify)
}

func (n *WelcomeNotifier) post(ctx context.Context, payload welcomePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}
