package scoring

import (
	"strings"

	"callpulse/internal/model"
)

// Category names for the built-in phrase tables.
const (
	CategoryEscalation  = "escalation"
	CategoryImpatience  = "impatience"
	CategoryConfusion   = "confusion"
	CategoryFrustration = "frustration"
	CategoryGratitude   = "gratitude"
	CategoryBooking     = "booking_interest"
)

// Event types emitted by the classifier.
const (
	EventDispatchRequested = "dispatch_requested"
	EventHumanRequested    = "human_requested"
	EventImpatience        = "impatience_detected"
	EventConfusion         = "confusion_detected"
	EventFrustration       = "frustration_detected"
	EventGratitude         = "gratitude_expressed"
	EventBookingInterest   = "booking_interest"
)

// PhraseCategory is one behavioral signal: an ordered phrase list with a
// fixed delta and severity. First matching phrase wins; a category never
// fires twice for one transcript.
type PhraseCategory struct {
	Name      string
	EventType string
	Phrases   []string
	Delta     int
	Severity  model.Severity
}

// DefaultCategories returns the production phrase tables, in evaluation
// order. Injected at construction so tests can supply their own sets.
func DefaultCategories() []PhraseCategory {
	return []PhraseCategory{
		{
			Name:      CategoryEscalation,
			EventType: EventHumanRequested,
			Phrases: []string{
				"talk to dispatch",
				"speak to dispatch",
				"transfer me to dispatch",
				"get me dispatch",
				"talk to a human",
				"speak to a human",
				"talk to a person",
				"speak to a person",
				"real person",
				"speak with an agent",
				"talk to someone",
			},
			Delta:    -25,
			Severity: model.SeverityError,
		},
		{
			Name:      CategoryImpatience,
			EventType: EventImpatience,
			Phrases: []string{
				"hurry up",
				"this is taking too long",
				"taking forever",
				"i don't have time for this",
				"i dont have time for this",
				"just get to the point",
				"waste of my time",
			},
			Delta:    -15,
			Severity: model.SeverityWarn,
		},
		{
			Name:      CategoryConfusion,
			EventType: EventConfusion,
			Phrases: []string{
				"that's not what i said",
				"thats not what i said",
				"you're not listening",
				"youre not listening",
				"that's wrong",
				"thats wrong",
				"no, i meant",
				"you misunderstood",
				"what are you talking about",
			},
			Delta:    -10,
			Severity: model.SeverityWarn,
		},
		{
			Name:      CategoryFrustration,
			EventType: EventFrustration,
			Phrases: []string{
				"this is ridiculous",
				"absolutely useless",
				"you're useless",
				"youre useless",
				"i give up",
				"forget it",
				"never mind, i'll call someone else",
			},
			Delta:    -15,
			Severity: model.SeverityError,
		},
		{
			Name:      CategoryGratitude,
			EventType: EventGratitude,
			Phrases: []string{
				"thank you",
				"thanks",
				"appreciate it",
				"appreciate your help",
				"very helpful",
			},
			Delta:    5,
			Severity: model.SeverityInfo,
		},
		{
			Name:      CategoryBooking,
			EventType: EventBookingInterest,
			Phrases: []string{
				"i'll take it",
				"ill take it",
				"book it",
				"let's book it",
				"lets book it",
				"i'm interested",
				"im interested",
				"sign me up",
				"sounds good, let's do it",
			},
			Delta:    10,
			Severity: model.SeverityInfo,
		},
	}
}

// Classifier scans a flattened transcript for known phrase patterns.
type Classifier struct {
	categories []PhraseCategory
}

// NewClassifier builds a classifier over the given category tables.
func NewClassifier(categories []PhraseCategory) *Classifier {
	return &Classifier{categories: categories}
}

// Classify returns zero or more scoring events, at most one per category,
// in category order. An empty transcript yields no events.
func (c *Classifier) Classify(transcript string) []model.ScoringEvent {
	if strings.TrimSpace(transcript) == "" {
		return nil
	}

	lower := strings.ToLower(transcript)

	var events []model.ScoringEvent
	for _, cat := range c.categories {
		for _, phrase := range cat.Phrases {
			if !strings.Contains(lower, phrase) {
				continue
			}

			eventType := cat.EventType
			if cat.Name == CategoryEscalation {
				if strings.Contains(phrase, "dispatch") {
					eventType = EventDispatchRequested
				} else {
					eventType = EventHumanRequested
				}
			}

			events = append(events, model.ScoringEvent{
				EventType:     eventType,
				Severity:      cat.Severity,
				Source:        model.SourceClassifier,
				MatchedPhrase: phrase,
				ScoreDelta:    cat.Delta,
			})
			break // first match wins per category
		}
	}

	return events
}

// IsEscalation reports whether an event type is a handoff request.
func IsEscalation(eventType string) bool {
	return eventType == EventDispatchRequested || eventType == EventHumanRequested
}
