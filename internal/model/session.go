package model

import "time"

// CallSessionRecord tracks a call's lifecycle. The call-start collaborator
// creates it as a placeholder (DurationSec 0); the completion engine updates
// it in place with terminal fields, or creates a terminal row directly when
// no placeholder can be matched.
type CallSessionRecord struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	OwnerID     string     `json:"ownerId,omitempty" bson:"ownerId,omitempty"`
	CallerPhone string     `json:"callerPhone,omitempty" bson:"callerPhone,omitempty"`
	ExternalID  string     `json:"externalId,omitempty" bson:"externalId,omitempty"`
	LeadID      string     `json:"leadId,omitempty" bson:"leadId,omitempty"`
	StartedAt   time.Time  `json:"startedAt" bson:"startedAt"`
	EndedAt     *time.Time `json:"endedAt,omitempty" bson:"endedAt,omitempty"`
	DurationSec int        `json:"durationSec" bson:"durationSec"`
	Outcome     string     `json:"outcome,omitempty" bson:"outcome,omitempty"`
	Transcript  string     `json:"transcript,omitempty" bson:"transcript,omitempty"`
	Summary     string     `json:"summary,omitempty" bson:"summary,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// IsPlaceholder reports whether the session is still awaiting completion data.
func (s *CallSessionRecord) IsPlaceholder() bool {
	return s.DurationSec == 0
}
