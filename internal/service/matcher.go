package service

import (
	"context"
	"strings"
	"time"

	"callpulse/internal/model"
	"callpulse/internal/repository"
)

// Lookback windows for the two matching phases. Completion webhooks arrive
// within seconds of hangup; anything older is a different call.
const (
	externalIDWindow  = time.Hour
	placeholderWindow = 30 * time.Minute
)

// CallMatcher locates the session row created at call-start time for a
// completion event, so the writer updates it instead of inserting a
// duplicate.
type CallMatcher struct {
	sessions repository.SessionRepo
	now      func() time.Time
}

// NewCallMatcher creates a new call matcher.
func NewCallMatcher(sessions repository.SessionRepo) *CallMatcher {
	return &CallMatcher{
		sessions: sessions,
		now:      time.Now,
	}
}

// FindExistingSession runs the two-phase fallback: first by external call
// identifier within the last hour, then by caller phone against the owner's
// placeholder sessions (durationSec 0) within the last 30 minutes. First
// match wins; nil means the caller should create a terminal session directly.
func (m *CallMatcher) FindExistingSession(ctx context.Context, externalCallID, callerPhone, ownerID string) (*model.CallSessionRecord, error) {
	now := m.now().UTC()

	if externalCallID != "" {
		session, err := m.sessions.FindRecentByExternalID(ctx, externalCallID, now.Add(-externalIDWindow))
		if err != nil {
			return nil, err
		}
		if session != nil {
			return session, nil
		}
	}

	if callerPhone == "" {
		return nil, nil
	}

	variants := phoneVariants(callerPhone)
	if len(variants) == 0 {
		return nil, nil
	}

	return m.sessions.FindPlaceholderByPhone(ctx, ownerID, variants, now.Add(-placeholderWindow))
}

// phoneVariants expands a caller phone into the shapes the call-start
// collaborator may have stored: as given, digits-only, last ten digits, and
// the +1-prefixed form.
func phoneVariants(phone string) []string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	if digits == "" {
		return nil
	}

	candidates := []string{phone, digits}
	if len(digits) >= 10 {
		last10 := digits[len(digits)-10:]
		candidates = append(candidates, last10, "+1"+last10, "1"+last10)
	} else {
		candidates = append(candidates, "+1"+digits)
	}

	seen := make(map[string]bool, len(candidates))
	variants := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		variants = append(variants, c)
	}
	return variants
}
