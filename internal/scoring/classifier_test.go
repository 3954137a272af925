package scoring

import (
	"testing"

	"callpulse/internal/model"
)

func TestClassifyEmptyTranscript(t *testing.T) {
	c := NewClassifier(DefaultCategories())

	for _, transcript := range []string{"", "   ", "\n\t"} {
		if events := c.Classify(transcript); len(events) != 0 {
			t.Fatalf("expected no events for %q, got %d", transcript, len(events))
		}
	}
}

func TestClassifyNoRecognizedPhrases(t *testing.T) {
	c := NewClassifier(DefaultCategories())

	events := c.Classify("agent: how can I help?\nuser: what time do you open tomorrow")
	if len(events) != 0 {
		t.Fatalf("expected no events, got %+v", events)
	}
}

func TestClassifyFirstMatchWinsPerCategory(t *testing.T) {
	c := NewClassifier(DefaultCategories())

	// Two gratitude phrases; only the first in table order may fire.
	events := c.Classify("thank you, thanks again")
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].EventType != EventGratitude || events[0].MatchedPhrase != "thank you" {
		t.Fatalf("unexpected event %+v", events[0])
	}
	if events[0].ScoreDelta != 5 || events[0].Source != model.SourceClassifier {
		t.Fatalf("unexpected delta/source %+v", events[0])
	}
}

func TestClassifyIndependentCategories(t *testing.T) {
	c := NewClassifier(DefaultCategories())

	events := c.Classify("user: hurry up, just talk to dispatch already. thanks")
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d: %+v", len(events), events)
	}

	// Category evaluation order is fixed.
	want := []string{EventDispatchRequested, EventImpatience, EventGratitude}
	for i, ev := range events {
		if ev.EventType != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], ev.EventType)
		}
	}
}

func TestClassifyEscalationEventType(t *testing.T) {
	c := NewClassifier(DefaultCategories())

	tests := []struct {
		transcript string
		eventType  string
	}{
		{"let me talk to dispatch", EventDispatchRequested},
		{"can I talk to a human please", EventHumanRequested},
		{"I want a real person", EventHumanRequested},
	}

	for _, tt := range tests {
		events := c.Classify(tt.transcript)
		if len(events) != 1 {
			t.Fatalf("%q: expected 1 event, got %d", tt.transcript, len(events))
		}
		if events[0].EventType != tt.eventType {
			t.Fatalf("%q: expected %s, got %s", tt.transcript, tt.eventType, events[0].EventType)
		}
		if events[0].ScoreDelta != -25 || events[0].Severity != model.SeverityError {
			t.Fatalf("%q: unexpected delta/severity %+v", tt.transcript, events[0])
		}
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	c := NewClassifier(DefaultCategories())

	events := c.Classify("THANK YOU SO MUCH")
	if len(events) != 1 || events[0].EventType != EventGratitude {
		t.Fatalf("expected gratitude event, got %+v", events)
	}
}

func TestClassifyCustomCategories(t *testing.T) {
	custom := []PhraseCategory{
		{
			Name:      "profanity",
			EventType: "profanity_detected",
			Phrases:   []string{"darn"},
			Delta:     -5,
			Severity:  model.SeverityWarn,
		},
	}
	c := NewClassifier(custom)

	events := c.Classify("well darn it")
	if len(events) != 1 || events[0].EventType != "profanity_detected" || events[0].ScoreDelta != -5 {
		t.Fatalf("expected custom category match, got %+v", events)
	}
}
