package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"callpulse/internal/cache"
	"callpulse/internal/model"
	"callpulse/internal/repository"
	"callpulse/internal/scoring"
)

// Broadcaster pushes score summaries to connected dashboard clients.
// Implemented by the ws hub.
type Broadcaster interface {
	BroadcastScore(summary model.ScoreSummary)
}

// ProcessResult reports what one delivery durably produced. Err carries
// partial failures: the response stays 200 so the provider stops retrying a
// delivery that was substantively processed.
type ProcessResult struct {
	SessionID     string
	ScoreRecordID string
	Score         int
	Band          string
	Message       string
	Err           error
}

// WebhookService runs the completion pipeline: enrichment, scoring, session
// matching, reconciliation writes, then best-effort notification.
type WebhookService struct {
	sessions    repository.SessionRepo
	scores      repository.ScoreRepo
	scoreCache  cache.ScoreCache
	matcher     *CallMatcher
	calculator  *scoring.Calculator
	retell      *RetellClient
	notifier    Notifier
	broadcaster Broadcaster
	now         func() time.Time
}

// NewWebhookService creates the completion pipeline service.
func NewWebhookService(
	sessions repository.SessionRepo,
	scores repository.ScoreRepo,
	scoreCache cache.ScoreCache,
	matcher *CallMatcher,
	calculator *scoring.Calculator,
	retell *RetellClient,
	notifier Notifier,
) *WebhookService {
	return &WebhookService{
		sessions:   sessions,
		scores:     scores,
		scoreCache: scoreCache,
		matcher:    matcher,
		calculator: calculator,
		retell:     retell,
		notifier:   notifier,
		now:        time.Now,
	}
}

// SetBroadcaster injects the live feed hub (the hub implements Broadcaster).
func (s *WebhookService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// ProcessCompletion handles one normalized call-completion event end to end.
// It never returns without attempting every write: completion events are not
// dropped for missing fields or partial persistence failures.
func (s *WebhookService) ProcessCompletion(ctx context.Context, ev *model.InboundCallEvent) ProcessResult {
	s.enrich(ctx, ev)

	scoreRes := s.calculator.Score(scoring.Input{
		Transcript:       ev.Transcript,
		DurationSec:      ev.DurationSec,
		TimeToHandoffSec: ev.TimeToHandoffSec,
		LeadCreated:      ev.LeadCreated,
		LoadConfirmed:    ev.LoadConfirmed,
	})

	var partial []error

	sessionID, err := s.reconcileSession(ctx, ev)
	if err != nil {
		log.Printf("[Webhook] session reconciliation failed for call %q: %v", ev.ExternalCallID, err)
		partial = append(partial, fmt.Errorf("session: %w", err))
	}

	record := &model.CallScoreRecord{
		ExternalCallID:   ev.ExternalCallID,
		CallerPhone:      ev.CallerPhone,
		OwnerID:          ev.OwnerID,
		LeadID:           ev.LeadID,
		LoadID:           ev.LoadID,
		Transcript:       ev.Transcript,
		Outcome:          ev.Outcome,
		HandoffRequested: scoreRes.HandoffRequested,
		HandoffReason:    scoreRes.HandoffReason,
		LeadCreated:      ev.LeadCreated,
		LeadCreateError:  ev.LeadCreateError,
		Score:            scoreRes.Score,
		Band:             scoreRes.Band,
		DurationSec:      ev.DurationSec,
		RecordingURL:     ev.RecordingURL,
		TimeToHandoffSec: ev.TimeToHandoffSec,
	}

	if err := s.scores.Create(ctx, record); err != nil {
		// Session state is the more valuable write; a score failure is
		// reported, not fatal.
		log.Printf("[Webhook] score record insert failed for call %q: %v", ev.ExternalCallID, err)
		partial = append(partial, fmt.Errorf("score record: %w", err))
	} else if len(scoreRes.Events) > 0 {
		if err := s.scores.InsertEvents(ctx, record.ID, scoreRes.Events); err != nil {
			log.Printf("[Webhook] scoring events insert failed for score %s: %v", record.ID, err)
			partial = append(partial, fmt.Errorf("scoring events: %w", err))
		}
	}

	if ev.LeadID != "" && sessionID != "" {
		if err := s.sessions.LinkLead(ctx, sessionID, ev.LeadID); err != nil {
			log.Printf("[Webhook] lead link failed for session %s: %v", sessionID, err)
			partial = append(partial, fmt.Errorf("lead link: %w", err))
		}
	}

	summary := model.ScoreSummary{
		ScoreRecordID:    record.ID,
		SessionID:        sessionID,
		ExternalCallID:   ev.ExternalCallID,
		CallerPhone:      ev.CallerPhone,
		Score:            scoreRes.Score,
		Band:             scoreRes.Band,
		Outcome:          ev.Outcome,
		DurationSec:      ev.DurationSec,
		HandoffRequested: scoreRes.HandoffRequested,
		LeadCreated:      ev.LeadCreated,
	}

	s.publish(ctx, summary)

	res := ProcessResult{
		SessionID:     sessionID,
		ScoreRecordID: record.ID,
		Score:         scoreRes.Score,
		Band:          scoreRes.Band,
		Message:       fmt.Sprintf("call scored %d (%s)", scoreRes.Score, scoreRes.Band),
		Err:           errors.Join(partial...),
	}
	return res
}

// enrich fills transcript/summary from the provider's conversation-detail
// API when the webhook carried neither. Failure is logged and ignored.
func (s *WebhookService) enrich(ctx context.Context, ev *model.InboundCallEvent) {
	if ev.Transcript != "" || ev.Summary != "" || ev.ExternalCallID == "" {
		return
	}
	if s.retell == nil || !s.retell.IsEnabled() {
		return
	}

	ectx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	detail, err := s.retell.GetCallDetail(ectx, ev.ExternalCallID)
	if err != nil {
		log.Printf("[Webhook] enrichment lookup failed for call %q: %v", ev.ExternalCallID, err)
		return
	}

	ev.Transcript = detail.Transcript
	ev.Summary = detail.Summary
	if ev.RecordingURL == "" {
		ev.RecordingURL = detail.RecordingURL
	}
}

// reconcileSession updates the matched call-start session in place, or
// inserts a terminal session directly when no placeholder exists.
func (s *WebhookService) reconcileSession(ctx context.Context, ev *model.InboundCallEvent) (string, error) {
	session, err := s.matcher.FindExistingSession(ctx, ev.ExternalCallID, ev.CallerPhone, ev.OwnerID)
	if err != nil {
		// Matching trouble degrades to the create path rather than dropping
		// the completion.
		log.Printf("[Webhook] session match failed for call %q: %v", ev.ExternalCallID, err)
		session = nil
	}

	endedAt := ev.EndedAt
	if endedAt == nil {
		now := s.now().UTC()
		endedAt = &now
	}

	if session != nil {
		session.EndedAt = endedAt
		session.DurationSec = ev.DurationSec
		session.Outcome = ev.Outcome
		session.Summary = ev.Summary
		session.Transcript = ev.Transcript
		session.ExternalID = ev.ExternalCallID
		if err := s.sessions.Update(ctx, session); err != nil {
			return "", err
		}
		return session.ID, nil
	}

	startedAt := s.now().UTC()
	if ev.StartedAt != nil {
		startedAt = *ev.StartedAt
	}

	session = &model.CallSessionRecord{
		OwnerID:     ev.OwnerID,
		CallerPhone: ev.CallerPhone,
		ExternalID:  ev.ExternalCallID,
		LeadID:      ev.LeadID,
		StartedAt:   startedAt,
		EndedAt:     endedAt,
		DurationSec: ev.DurationSec,
		Outcome:     ev.Outcome,
		Transcript:  ev.Transcript,
		Summary:     ev.Summary,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", err
	}
	return session.ID, nil
}

// publish fans the summary out to the read-side cache, the live feed, and
// the ops SMS. All best effort; none of it blocks or fails the request.
func (s *WebhookService) publish(ctx context.Context, summary model.ScoreSummary) {
	if s.scoreCache != nil {
		if err := s.scoreCache.SetLatest(ctx, &summary); err != nil {
			log.Printf("[Webhook] latest-score cache write failed: %v", err)
		}
		if err := s.scoreCache.IncrementBand(ctx, summary.Band, s.now()); err != nil {
			log.Printf("[Webhook] band counter write failed: %v", err)
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastScore(summary)
	}

	if s.notifier != nil {
		go func() {
			nctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := s.notifier.NotifyScore(nctx, summary); err != nil {
				log.Printf("[Webhook] ops notification failed: %v", err)
			}
		}()
	}
}
