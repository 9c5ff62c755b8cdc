package domain

import "time"

// Event types
const (
	EventTypeAccountSnapshot = "account.snapshot"
)

// AccountSnapshotEvent is the payload published for every account at the end
// of a replay. Amounts are fixed-point strings.
type AccountSnapshotEvent struct {
	EventType string `json:"event_type"`
	RunID     string `json:"run_id"`
	Client    uint16 `json:"client"`
	Available string `json:"available"`
	Held      string `json:"held"`
	Total     string `json:"total"`
	Locked    bool   `json:"locked"`
	EventAt   string `json:"event_at"`
}

// NewAccountSnapshotEvent builds the event payload for s.
func NewAccountSnapshotEvent(runID string, s AccountSnapshot, at time.Time) AccountSnapshotEvent {
	return AccountSnapshotEvent{
		EventType: EventTypeAccountSnapshot,
		RunID:     runID,
		Client:    uint16(s.Client),
		Available: FormatAmount(s.Available),
		Held:      FormatAmount(s.Held),
		Total:     FormatAmount(s.Total),
		Locked:    s.Locked,
		EventAt:   at.UTC().Format(time.RFC3339),
	}
}
