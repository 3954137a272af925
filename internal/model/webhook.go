package model

import (
	"encoding/json"
	"strings"
	"time"
)

// TranscriptTurn is one turn of a structured transcript.
type TranscriptTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CallCompletedPayload mirrors the provider's call-ended webhook body. The
// provider has shipped several shapes of this payload, so every field is
// optional and nothing is trusted until normalized into an InboundCallEvent.
type CallCompletedPayload struct {
	Event            string          `json:"event,omitempty"`
	CallID           string          `json:"call_id,omitempty"`
	ConversationID   string          `json:"conversation_id,omitempty"`
	FromNumber       string          `json:"from_number,omitempty"`
	CallerPhone      string          `json:"caller_phone,omitempty"`
	OwnerID          string          `json:"owner_id,omitempty"`
	LeadID           string          `json:"lead_id,omitempty"`
	LoadID           string          `json:"load_id,omitempty"`
	Transcript       json.RawMessage `json:"transcript,omitempty"`
	DurationSeconds  json.Number     `json:"duration_seconds,omitempty"`
	StartTimestamp   json.Number     `json:"start_timestamp,omitempty"` // epoch millis
	EndTimestamp     json.Number     `json:"end_timestamp,omitempty"`   // epoch millis
	CallStatus       string          `json:"call_status,omitempty"`
	DisconnectReason string          `json:"disconnection_reason,omitempty"`
	Summary          string          `json:"call_summary,omitempty"`
	RecordingURL     string          `json:"recording_url,omitempty"`
	LeadCreated      bool            `json:"lead_created,omitempty"`
	LeadCreateError  string          `json:"lead_create_error,omitempty"`
	LoadConfirmed    bool            `json:"load_confirmed,omitempty"`
	TimeToHandoffSec *int            `json:"time_to_handoff_sec,omitempty"`
}

// InboundCallEvent is the strongly-typed, normalized form of one webhook
// delivery. Ephemeral; never persisted verbatim.
type InboundCallEvent struct {
	ExternalCallID   string
	CallerPhone      string
	OwnerID          string
	LeadID           string
	LoadID           string
	Transcript       string
	DurationSec      int
	StartedAt        *time.Time
	EndedAt          *time.Time
	Outcome          string
	Summary          string
	RecordingURL     string
	LeadCreated      bool
	LeadCreateError  string
	LoadConfirmed    bool
	TimeToHandoffSec *int
}

// Normalize maps the loose payload into an InboundCallEvent with explicit
// absence handling at every field.
func (p *CallCompletedPayload) Normalize() *InboundCallEvent {
	ev := &InboundCallEvent{
		OwnerID:          p.OwnerID,
		LeadID:           p.LeadID,
		LoadID:           p.LoadID,
		Summary:          p.Summary,
		RecordingURL:     p.RecordingURL,
		LeadCreated:      p.LeadCreated,
		LeadCreateError:  p.LeadCreateError,
		TimeToHandoffSec: p.TimeToHandoffSec,
	}

	ev.ExternalCallID = p.CallID
	if ev.ExternalCallID == "" {
		ev.ExternalCallID = p.ConversationID
	}

	ev.CallerPhone = p.FromNumber
	if ev.CallerPhone == "" {
		ev.CallerPhone = p.CallerPhone
	}

	ev.Transcript = FlattenTranscript(p.Transcript)

	if p.DurationSeconds != "" {
		if f, err := p.DurationSeconds.Float64(); err == nil && f > 0 {
			ev.DurationSec = int(f)
		}
	}

	ev.StartedAt = millisToTime(p.StartTimestamp)
	ev.EndedAt = millisToTime(p.EndTimestamp)

	ev.Outcome = p.CallStatus
	if ev.Outcome == "" {
		ev.Outcome = p.DisconnectReason
	}

	ev.LoadConfirmed = p.LoadConfirmed
	if !ev.LoadConfirmed && strings.Contains(strings.ToLower(ev.Outcome), "confirmed") {
		ev.LoadConfirmed = true
	}

	return ev
}

// FlattenTranscript accepts either a plain string or a turn-structured list
// and returns newline-joined "role: text" lines, preserving turn order.
func FlattenTranscript(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}

	var turns []TranscriptTurn
	if err := json.Unmarshal(raw, &turns); err != nil {
		return ""
	}

	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		if t.Content == "" {
			continue
		}
		role := t.Role
		if role == "" {
			role = "unknown"
		}
		lines = append(lines, role+": "+t.Content)
	}
	return strings.Join(lines, "\n")
}

func millisToTime(n json.Number) *time.Time {
	if n == "" {
		return nil
	}
	ms, err := n.Int64()
	if err != nil || ms <= 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}
