package model

import "time"

// Severity grades a scoring event for dashboards and alerting.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// EventSource identifies which part of the engine emitted a scoring event.
type EventSource string

const (
	SourceSystem     EventSource = "system"
	SourceClassifier EventSource = "classifier"
)

// Score bands, mapped from the clamped score by fixed thresholds.
const (
	BandTop    = "90-100"
	BandHigh   = "75-89"
	BandMid    = "50-74"
	BandLow    = "25-49"
	BandBottom = "0-24"
)

// ScoringEvent is a single typed signal that contributed to a call's score.
// Events are append-only and belong to exactly one CallScoreRecord.
type ScoringEvent struct {
	ID            string      `json:"id,omitempty" bson:"_id,omitempty"`
	ScoreRecordID string      `json:"scoreRecordId,omitempty" bson:"scoreRecordId,omitempty"`
	EventType     string      `json:"eventType" bson:"eventType"`
	Severity      Severity    `json:"severity" bson:"severity"`
	Source        EventSource `json:"source" bson:"source"`
	MatchedPhrase string      `json:"matchedPhrase,omitempty" bson:"matchedPhrase,omitempty"`
	ScoreDelta    int         `json:"scoreDelta" bson:"scoreDelta"`
	CreatedAt     time.Time   `json:"createdAt" bson:"createdAt"`
}

// CallScoreRecord is the durable scoring outcome for one real-world call.
// Written exclusively by the reconciliation path.
type CallScoreRecord struct {
	ID               string    `json:"id" bson:"_id,omitempty"`
	ExternalCallID   string    `json:"externalCallId,omitempty" bson:"externalCallId,omitempty"`
	CallerPhone      string    `json:"callerPhone,omitempty" bson:"callerPhone,omitempty"`
	OwnerID          string    `json:"ownerId,omitempty" bson:"ownerId,omitempty"`
	LeadID           string    `json:"leadId,omitempty" bson:"leadId,omitempty"`
	LoadID           string    `json:"loadId,omitempty" bson:"loadId,omitempty"`
	Transcript       string    `json:"transcript,omitempty" bson:"transcript,omitempty"`
	Outcome          string    `json:"outcome,omitempty" bson:"outcome,omitempty"`
	HandoffRequested bool      `json:"handoffRequested" bson:"handoffRequested"`
	HandoffReason    string    `json:"handoffReason,omitempty" bson:"handoffReason,omitempty"`
	LeadCreated      bool      `json:"leadCreated" bson:"leadCreated"`
	LeadCreateError  string    `json:"leadCreateError,omitempty" bson:"leadCreateError,omitempty"`
	Score            int       `json:"score" bson:"score"`
	Band             string    `json:"band" bson:"band"`
	DurationSec      int       `json:"durationSec" bson:"durationSec"`
	RecordingURL     string    `json:"recordingUrl,omitempty" bson:"recordingUrl,omitempty"`
	TimeToHandoffSec *int      `json:"timeToHandoffSec,omitempty" bson:"timeToHandoffSec,omitempty"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
}

// ScoreSummary is the compact view broadcast to dashboards and the ops alert.
type ScoreSummary struct {
	ScoreRecordID    string `json:"scoreRecordId"`
	SessionID        string `json:"sessionId,omitempty"`
	ExternalCallID   string `json:"externalCallId,omitempty"`
	CallerPhone      string `json:"callerPhone,omitempty"`
	Score            int    `json:"score"`
	Band             string `json:"band"`
	Outcome          string `json:"outcome,omitempty"`
	DurationSec      int    `json:"durationSec"`
	HandoffRequested bool   `json:"handoffRequested"`
	LeadCreated      bool   `json:"leadCreated"`
}
