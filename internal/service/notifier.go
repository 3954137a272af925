package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"callpulse/internal/model"
)

// Notifier delivers best-effort ops alerts. Failures are logged by the
// caller and never propagate as request failures.
type Notifier interface {
	NotifyScore(ctx context.Context, summary model.ScoreSummary) error
}

// SMSNotifier sends a text to the fixed ops number via the Twilio Messages
// API.
type SMSNotifier struct {
	accountSID string
	authToken  string
	from       string
	to         string
	client     *http.Client
}

var _ Notifier = (*SMSNotifier)(nil)

// NewSMSNotifier registers Twilio credentials and the ops alert number.
func NewSMSNotifier(accountSID, authToken, from, to string) *SMSNotifier {
	return &SMSNotifier{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		to:         to,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// NotifyScore posts one SMS summarizing the call outcome.
func (n *SMSNotifier) NotifyScore(ctx context.Context, summary model.ScoreSummary) error {
	if n.accountSID == "" || n.authToken == "" || n.from == "" || n.to == "" {
		return fmt.Errorf("sms notifier misconfigured")
	}

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", n.accountSID)
	form := url.Values{}
	form.Set("To", n.to)
	form.Set("From", n.from)
	form.Set("Body", formatScoreAlert(summary))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.SetBasicAuth(n.accountSID, n.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("twilio error: %s", resp.Status)
	}

	return nil
}

func formatScoreAlert(s model.ScoreSummary) string {
	parts := []string{fmt.Sprintf("Call scored %d (%s)", s.Score, s.Band)}

	if s.Outcome != "" {
		parts = append(parts, "outcome: "+s.Outcome)
	}
	if s.CallerPhone != "" {
		parts = append(parts, "caller: "+s.CallerPhone)
	}
	parts = append(parts, fmt.Sprintf("%ds", s.DurationSec))
	if s.HandoffRequested {
		parts = append(parts, "handoff requested")
	}
	if s.LeadCreated {
		parts = append(parts, "lead created")
	}

	return strings.Join(parts, " | ")
}
