package entities

// ReasoningLogEntry is one append-only line of a meeting's agent log
type ReasoningLogEntry struct {
	Timestamp string         `json:"ts"`
	Type      string         `json:"type"`
	Text      string         `json:"text"`
	Meta      map[string]any `json:"meta,omitempty"`
}
