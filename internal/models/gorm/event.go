package gorm

// Event is the events table read by the sqlx event repository.
// Seq keeps insertion order for listing.
type Event struct {
	Seq        uint   `gorm:"column:seq;primaryKey;autoIncrement"`
	EventID    string `gorm:"column:event_id;type:varchar(64);not null;uniqueIndex"`
	Title      string `gorm:"column:title;type:text;not null"`
	Location   string `gorm:"column:location;type:text;not null;default:''"`
	StartAt    string `gorm:"column:start_at;type:varchar(64);not null;default:''"`
	Organizer  string `gorm:"column:organizer;type:varchar(255);not null;default:''"`
	RawEmailID string `gorm:"column:raw_email_id;type:varchar(255);not null;default:''"`
	Processed  bool   `gorm:"column:processed;not null;default:false"`
}

func (Event) TableName() string {
	return "events"
}
