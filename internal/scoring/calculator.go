package scoring

import (
	"fmt"
	"strings"

	"callpulse/internal/model"
)

// System-sourced adjustment event types.
const (
	EventQuickHangup    = "quick_hangup_under_30s"
	EventShortCall      = "short_call_30_to_90s"
	EventResolvedNoHand = "call_resolved_without_handoff"
	EventEarlyHandoff   = "early_handoff_request_under_60s"
	EventLeadCreated    = "lead_created"
	EventLoadConfirmed  = "load_confirmed"
)

const baseScore = 100

// Input carries everything the calculator needs for one call.
type Input struct {
	Transcript       string
	DurationSec      int // 0 means unknown
	TimeToHandoffSec *int
	LeadCreated      bool
	LoadConfirmed    bool
}

// Result is the composite engagement index for one call: the clamped score,
// its band, the ordered event list, and human-readable reasons.
type Result struct {
	Score            int
	Band             string
	Events           []model.ScoringEvent
	Reasons          []string
	HandoffRequested bool
	HandoffReason    string
}

// Calculator combines duration, handoff timing, and classifier signals into
// one bounded score. Pure: identical inputs always yield identical output.
type Calculator struct {
	classifier *Classifier
}

// NewCalculator builds a calculator over the given classifier.
func NewCalculator(classifier *Classifier) *Calculator {
	return &Calculator{classifier: classifier}
}

// Score applies the scoring algorithm in fixed order: base, duration
// adjustment, classifier events, resolution bonus or early-handoff penalty,
// lead and outcome bonuses, then clamp to [0,100].
func (c *Calculator) Score(in Input) Result {
	res := Result{}
	total := baseScore

	if ev, ok := durationAdjustment(in.DurationSec); ok {
		total += ev.ScoreDelta
		res.Events = append(res.Events, ev)
		res.Reasons = append(res.Reasons, reasonFor(ev))
	}

	// Without a transcript no further signals are possible.
	if strings.TrimSpace(in.Transcript) == "" {
		res.Score = clamp(total)
		res.Band = BandForScore(res.Score)
		return res
	}

	escalated := false
	for _, ev := range c.classifier.Classify(in.Transcript) {
		total += ev.ScoreDelta
		res.Events = append(res.Events, ev)
		res.Reasons = append(res.Reasons, reasonFor(ev))
		if IsEscalation(ev.EventType) {
			escalated = true
			res.HandoffRequested = true
			res.HandoffReason = ev.MatchedPhrase
		}
	}

	if !escalated {
		ev := systemEvent(EventResolvedNoHand, 10, model.SeverityInfo)
		total += ev.ScoreDelta
		res.Events = append(res.Events, ev)
		res.Reasons = append(res.Reasons, reasonFor(ev))
	} else if in.TimeToHandoffSec != nil && *in.TimeToHandoffSec < 60 {
		ev := systemEvent(EventEarlyHandoff, -25, model.SeverityWarn)
		total += ev.ScoreDelta
		res.Events = append(res.Events, ev)
		res.Reasons = append(res.Reasons, reasonFor(ev))
	}

	if in.LeadCreated {
		ev := systemEvent(EventLeadCreated, 10, model.SeverityInfo)
		total += ev.ScoreDelta
		res.Events = append(res.Events, ev)
		res.Reasons = append(res.Reasons, reasonFor(ev))
	}

	if in.LoadConfirmed {
		ev := systemEvent(EventLoadConfirmed, 20, model.SeverityInfo)
		total += ev.ScoreDelta
		res.Events = append(res.Events, ev)
		res.Reasons = append(res.Reasons, reasonFor(ev))
	}

	res.Score = clamp(total)
	res.Band = BandForScore(res.Score)
	return res
}

// durationAdjustment returns the system event for a non-zero duration
// penalty. Duration 0 is treated as unknown and left unadjusted.
func durationAdjustment(durationSec int) (model.ScoringEvent, bool) {
	switch {
	case durationSec <= 0:
		return model.ScoringEvent{}, false
	case durationSec < 30:
		return systemEvent(EventQuickHangup, -40, model.SeverityWarn), true
	case durationSec < 90:
		return systemEvent(EventShortCall, -20, model.SeverityWarn), true
	default:
		return model.ScoringEvent{}, false
	}
}

// BandForScore maps a clamped score to its reporting band. Boundary values
// map to the higher band.
func BandForScore(score int) string {
	switch {
	case score >= 90:
		return model.BandTop
	case score >= 75:
		return model.BandHigh
	case score >= 50:
		return model.BandMid
	case score >= 25:
		return model.BandLow
	default:
		return model.BandBottom
	}
}

func systemEvent(eventType string, delta int, sev model.Severity) model.ScoringEvent {
	return model.ScoringEvent{
		EventType:  eventType,
		Severity:   sev,
		Source:     model.SourceSystem,
		ScoreDelta: delta,
	}
}

func reasonFor(ev model.ScoringEvent) string {
	if ev.MatchedPhrase != "" {
		return fmt.Sprintf("%s: matched %q (%+d)", ev.EventType, ev.MatchedPhrase, ev.ScoreDelta)
	}
	return fmt.Sprintf("%s (%+d)", ev.EventType, ev.ScoreDelta)
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
