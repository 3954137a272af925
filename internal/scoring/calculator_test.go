package scoring

import (
	"reflect"
	"testing"

	"callpulse/internal/model"
)

func newCalculator() *Calculator {
	return NewCalculator(NewClassifier(DefaultCategories()))
}

func TestDurationAdjustment(t *testing.T) {
	tests := []struct {
		durationSec int
		delta       int
		eventType   string
	}{
		{0, 0, ""}, // unknown
		{1, -40, EventQuickHangup},
		{29, -40, EventQuickHangup},
		{30, -20, EventShortCall},
		{45, -20, EventShortCall},
		{89, -20, EventShortCall},
		{90, 0, ""},
		{3600, 0, ""},
	}

	for _, tt := range tests {
		ev, ok := durationAdjustment(tt.durationSec)
		if tt.delta == 0 {
			if ok {
				t.Fatalf("duration %d: expected no adjustment, got %+v", tt.durationSec, ev)
			}
			continue
		}
		if !ok || ev.ScoreDelta != tt.delta || ev.EventType != tt.eventType {
			t.Fatalf("duration %d: expected %s %d, got %+v", tt.durationSec, tt.eventType, tt.delta, ev)
		}
		if ev.Source != model.SourceSystem {
			t.Fatalf("duration %d: expected system source, got %s", tt.durationSec, ev.Source)
		}
	}
}

func TestBandForScore(t *testing.T) {
	tests := []struct {
		score int
		band  string
	}{
		{100, model.BandTop},
		{90, model.BandTop}, // boundary maps up
		{89, model.BandHigh},
		{75, model.BandHigh},
		{74, model.BandMid},
		{50, model.BandMid},
		{49, model.BandLow},
		{25, model.BandLow},
		{24, model.BandBottom},
		{0, model.BandBottom},
	}

	for _, tt := range tests {
		if got := BandForScore(tt.score); got != tt.band {
			t.Fatalf("score %d: expected band %s, got %s", tt.score, tt.band, got)
		}
	}
}

// Scenario A: no transcript, 45s call.
func TestScoreNoTranscript(t *testing.T) {
	res := newCalculator().Score(Input{DurationSec: 45})

	if res.Score != 80 {
		t.Fatalf("expected score 80, got %d", res.Score)
	}
	if res.Band != model.BandHigh {
		t.Fatalf("expected band %s, got %s", model.BandHigh, res.Band)
	}
	if len(res.Events) != 1 || res.Events[0].EventType != EventShortCall {
		t.Fatalf("expected only the duration event, got %+v", res.Events)
	}
}

// Scenario B: happy path stacks every bonus and clamps at 100.
func TestScoreClampUpper(t *testing.T) {
	res := newCalculator().Score(Input{
		Transcript:    "user: thank you so much, I'll take it",
		DurationSec:   120,
		LeadCreated:   true,
		LoadConfirmed: true,
	})

	// 100 +5 +10 +10 +10 +20 = 155 before clamping.
	if res.Score != 100 {
		t.Fatalf("expected score 100, got %d", res.Score)
	}
	if res.Band != model.BandTop {
		t.Fatalf("expected band %s, got %s", model.BandTop, res.Band)
	}

	types := eventTypes(res.Events)
	want := []string{EventGratitude, EventBookingInterest, EventResolvedNoHand, EventLeadCreated, EventLoadConfirmed}
	if !reflect.DeepEqual(types, want) {
		t.Fatalf("expected events %v, got %v", want, types)
	}
}

// Scenario C: quick hangup with a dispatch request.
func TestScoreEscalatedQuickHangup(t *testing.T) {
	res := newCalculator().Score(Input{
		Transcript:  "user: let me talk to dispatch",
		DurationSec: 20,
	})

	if res.Score != 35 {
		t.Fatalf("expected score 35, got %d", res.Score)
	}
	if res.Band != model.BandLow {
		t.Fatalf("expected band %s, got %s", model.BandLow, res.Band)
	}
	if !res.HandoffRequested || res.HandoffReason != "talk to dispatch" {
		t.Fatalf("expected handoff flagged with reason, got %+v", res)
	}
}

func TestScoreClampLower(t *testing.T) {
	res := newCalculator().Score(Input{
		Transcript:  "user: hurry up, that's not what i said, this is ridiculous, talk to a human",
		DurationSec: 10,
	})

	// 100 -40 -25 -15 -10 -15 = -5 before clamping.
	if res.Score != 0 {
		t.Fatalf("expected score 0, got %d", res.Score)
	}
	if res.Band != model.BandBottom {
		t.Fatalf("expected band %s, got %s", model.BandBottom, res.Band)
	}
}

func TestScoreResolutionBonusWithoutEscalation(t *testing.T) {
	res := newCalculator().Score(Input{
		Transcript:  "user: what lanes do you run out of Dallas",
		DurationSec: 200,
	})

	// Clean call: only the resolution bonus fires; 110 clamps to 100.
	if res.Score != 100 {
		t.Fatalf("expected score 100, got %d", res.Score)
	}
	types := eventTypes(res.Events)
	if !reflect.DeepEqual(types, []string{EventResolvedNoHand}) {
		t.Fatalf("expected only resolution bonus, got %v", types)
	}
}

func TestScoreEarlyHandoffPenalty(t *testing.T) {
	tth := 45
	res := newCalculator().Score(Input{
		Transcript:       "user: talk to dispatch",
		DurationSec:      120,
		TimeToHandoffSec: &tth,
	})

	// 100 -25 (escalation) -25 (early handoff) = 50.
	if res.Score != 50 {
		t.Fatalf("expected score 50, got %d", res.Score)
	}

	types := eventTypes(res.Events)
	if !reflect.DeepEqual(types, []string{EventDispatchRequested, EventEarlyHandoff}) {
		t.Fatalf("unexpected events %v", types)
	}
}

func TestScoreLateHandoffNoPenalty(t *testing.T) {
	tth := 75
	res := newCalculator().Score(Input{
		Transcript:       "user: talk to dispatch",
		DurationSec:      120,
		TimeToHandoffSec: &tth,
	})

	// Escalation penalty only; neither the resolution bonus nor the early
	// handoff penalty applies.
	if res.Score != 75 {
		t.Fatalf("expected score 75, got %d", res.Score)
	}
	types := eventTypes(res.Events)
	if !reflect.DeepEqual(types, []string{EventDispatchRequested}) {
		t.Fatalf("unexpected events %v", types)
	}
}

func TestScoreResolutionAndEarlyHandoffExclusive(t *testing.T) {
	tth := 10
	inputs := []Input{
		{Transcript: "user: talk to dispatch", DurationSec: 120, TimeToHandoffSec: &tth},
		{Transcript: "user: all good here", DurationSec: 120},
	}

	for _, in := range inputs {
		res := newCalculator().Score(in)
		both := 0
		for _, ev := range res.Events {
			if ev.EventType == EventResolvedNoHand || ev.EventType == EventEarlyHandoff {
				both++
			}
		}
		if both > 1 {
			t.Fatalf("resolution bonus and early handoff penalty both fired: %+v", res.Events)
		}
	}
}

func TestScoreSumOfDeltasMatchesScore(t *testing.T) {
	tth := 30
	inputs := []Input{
		{DurationSec: 45},
		{Transcript: "user: thanks, i'll take it", DurationSec: 120, LeadCreated: true, LoadConfirmed: true},
		{Transcript: "user: talk to dispatch", DurationSec: 20, TimeToHandoffSec: &tth},
		{Transcript: "user: you're not listening, forget it", DurationSec: 31},
	}

	for _, in := range inputs {
		res := newCalculator().Score(in)
		sum := baseScore
		for _, ev := range res.Events {
			sum += ev.ScoreDelta
		}
		if clamp(sum) != res.Score {
			t.Fatalf("input %+v: clamp(base+deltas)=%d but score=%d", in, clamp(sum), res.Score)
		}
		if len(res.Reasons) != len(res.Events) {
			t.Fatalf("input %+v: %d reasons for %d events", in, len(res.Reasons), len(res.Events))
		}
	}
}

func TestScoreDeterministic(t *testing.T) {
	in := Input{
		Transcript:  "user: hurry up. thanks anyway, i'll take it",
		DurationSec: 40,
		LeadCreated: true,
	}

	first := newCalculator().Score(in)
	for i := 0; i < 5; i++ {
		if got := newCalculator().Score(in); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d diverged: %+v vs %+v", i, got, first)
		}
	}
}

func eventTypes(events []model.ScoringEvent) []string {
	types := make([]string, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.EventType)
	}
	return types
}
