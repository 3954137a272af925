package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalizeStringTranscript(t *testing.T) {
	payload := CallCompletedPayload{
		CallID:          "call_123",
		FromNumber:      "+15551234567",
		Transcript:      json.RawMessage(`"agent: hello\nuser: hi"`),
		DurationSeconds: json.Number("45"),
	}

	ev := payload.Normalize()

	if ev.ExternalCallID != "call_123" {
		t.Fatalf("expected call_123, got %q", ev.ExternalCallID)
	}
	if ev.CallerPhone != "+15551234567" {
		t.Fatalf("expected caller phone, got %q", ev.CallerPhone)
	}
	if ev.Transcript != "agent: hello\nuser: hi" {
		t.Fatalf("unexpected transcript %q", ev.Transcript)
	}
	if ev.DurationSec != 45 {
		t.Fatalf("expected duration 45, got %d", ev.DurationSec)
	}
}

func TestNormalizeTurnStructuredTranscript(t *testing.T) {
	payload := CallCompletedPayload{
		Transcript: json.RawMessage(`[
			{"role":"agent","content":"hello, this is dispatch"},
			{"role":"user","content":"hi there"},
			{"role":"agent","content":""},
			{"content":"who is this"}
		]`),
	}

	ev := payload.Normalize()

	want := "agent: hello, this is dispatch\nuser: hi there\nunknown: who is this"
	if ev.Transcript != want {
		t.Fatalf("expected %q, got %q", want, ev.Transcript)
	}
}

func TestNormalizeFallbackIdentifiers(t *testing.T) {
	payload := CallCompletedPayload{
		ConversationID: "conv_9",
		CallerPhone:    "5551234567",
	}

	ev := payload.Normalize()

	if ev.ExternalCallID != "conv_9" {
		t.Fatalf("expected conversation id fallback, got %q", ev.ExternalCallID)
	}
	if ev.CallerPhone != "5551234567" {
		t.Fatalf("expected caller_phone fallback, got %q", ev.CallerPhone)
	}
}

func TestNormalizeTimestamps(t *testing.T) {
	payload := CallCompletedPayload{
		StartTimestamp: json.Number("1700000000000"),
		EndTimestamp:   json.Number("1700000120000"),
	}

	ev := payload.Normalize()

	if ev.StartedAt == nil || ev.EndedAt == nil {
		t.Fatal("expected both timestamps set")
	}
	if got := ev.EndedAt.Sub(*ev.StartedAt); got != 2*time.Minute {
		t.Fatalf("expected 2m between timestamps, got %v", got)
	}
}

func TestNormalizeFractionalDuration(t *testing.T) {
	payload := CallCompletedPayload{DurationSeconds: json.Number("89.9")}

	if ev := payload.Normalize(); ev.DurationSec != 89 {
		t.Fatalf("expected 89, got %d", ev.DurationSec)
	}
}

func TestNormalizeOutcomeConfirmsLoad(t *testing.T) {
	payload := CallCompletedPayload{CallStatus: "booking_confirmed"}

	if ev := payload.Normalize(); !ev.LoadConfirmed {
		t.Fatal("expected load confirmed from outcome hint")
	}
}

func TestNormalizeEmptyPayload(t *testing.T) {
	ev := (&CallCompletedPayload{}).Normalize()

	if ev.ExternalCallID != "" || ev.Transcript != "" || ev.DurationSec != 0 {
		t.Fatalf("expected zero event, got %+v", ev)
	}
	if ev.StartedAt != nil || ev.EndedAt != nil || ev.TimeToHandoffSec != nil {
		t.Fatalf("expected nil optionals, got %+v", ev)
	}
}

func TestFlattenTranscriptGarbage(t *testing.T) {
	if got := FlattenTranscript(json.RawMessage(`{"not":"a transcript"}`)); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
	if got := FlattenTranscript(nil); got != "" {
		t.Fatalf("expected empty for nil, got %q", got)
	}
}
