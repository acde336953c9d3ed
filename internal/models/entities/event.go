package entities

// Event is a meeting invitation visible to the user
type Event struct {
	ID         string `json:"id" db:"event_id"`
	Title      string `json:"title" db:"title"`
	Location   string `json:"location,omitempty" db:"location"`
	Start      string `json:"start,omitempty" db:"start_at"`
	Organizer  string `json:"organizer,omitempty" db:"organizer"`
	RawEmailID string `json:"rawEmailId,omitempty" db:"raw_email_id"`
	Processed  bool   `json:"processed" db:"processed"`
}
